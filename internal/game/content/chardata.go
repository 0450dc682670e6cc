// Package content loads per-model unit definitions from YAML.
package content

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied to fields a definition leaves at zero. CritDamage is the
// exception: it defaults only when the key is absent, so crit_damage: 0
// disables critical bonus damage.
const (
	DefaultProjectileSpeed = 500.0
	DefaultCollisionRadius = 40.0
	DefaultCritDamage      = 2.0
	DefaultAttackSpeed     = 0.625
)

// ErrUnknownModel is returned when no definition exists for a model.
var ErrUnknownModel = errors.New("unknown model")

var validKinds = map[string]bool{
	"champion": true, "minion": true, "turret": true, "inhibitor": true,
	"nexus": true, "placeable": true, "monster": true,
}

var validMinionTypes = map[string]bool{"melee": true, "caster": true, "cannon": true, "super": true}

// CharData is the base stat block and combat profile of one unit model.
type CharData struct {
	Model      string `yaml:"model"`
	Name       string `yaml:"name"`
	Kind       string `yaml:"kind"`
	MinionType string `yaml:"minion_type"`
	IsMelee    bool   `yaml:"is_melee"`
	// AttackDelay is the base windup in seconds at an attack-speed multiplier of 1.
	AttackDelay           float64 `yaml:"attack_delay"`
	AttackProjectileSpeed float64 `yaml:"attack_projectile_speed"`
	// AttackSpeed is the base number of attacks per second.
	AttackSpeed     float64 `yaml:"attack_speed"`
	AttackRange     float64 `yaml:"attack_range"`
	AttackDamage    float64 `yaml:"attack_damage"`
	CritChance      float64 `yaml:"crit_chance"`
	CritDamage      float64 `yaml:"crit_damage"`
	MoveSpeed       float64 `yaml:"move_speed"`
	Health          float64 `yaml:"health"`
	HealthRegen     float64 `yaml:"health_regen"`
	Mana            float64 `yaml:"mana"`
	ManaRegen       float64 `yaml:"mana_regen"`
	CollisionRadius float64 `yaml:"collision_radius"`
	VisionRadius    float64 `yaml:"vision_radius"`
}

// Validate checks that the definition satisfies basic invariants.
//
// Postcondition: Returns nil iff Model is non-empty, Kind is known, minions carry a
// known MinionType, Health > 0, and no numeric field is negative.
func (c *CharData) Validate() error {
	if c.Model == "" {
		return fmt.Errorf("unit definition: model must not be empty")
	}
	if !validKinds[c.Kind] {
		return fmt.Errorf("unit definition %q: unknown kind %q", c.Model, c.Kind)
	}
	if c.Kind == "minion" && !validMinionTypes[c.MinionType] {
		return fmt.Errorf("unit definition %q: minion_type must be one of [melee, caster, cannon, super], got %q", c.Model, c.MinionType)
	}
	if c.Health <= 0 {
		return fmt.Errorf("unit definition %q: health must be > 0", c.Model)
	}
	for name, v := range map[string]float64{
		"attack_delay":            c.AttackDelay,
		"attack_projectile_speed": c.AttackProjectileSpeed,
		"attack_speed":            c.AttackSpeed,
		"attack_range":            c.AttackRange,
		"attack_damage":           c.AttackDamage,
		"crit_chance":             c.CritChance,
		"crit_damage":             c.CritDamage,
		"move_speed":              c.MoveSpeed,
		"collision_radius":        c.CollisionRadius,
		"vision_radius":           c.VisionRadius,
	} {
		if v < 0 {
			return fmt.Errorf("unit definition %q: %s must not be negative", c.Model, name)
		}
	}
	return nil
}

func (c *CharData) applyDefaults() {
	if c.AttackProjectileSpeed == 0 {
		c.AttackProjectileSpeed = DefaultProjectileSpeed
	}
	if c.CollisionRadius == 0 {
		c.CollisionRadius = DefaultCollisionRadius
	}
	if c.AttackSpeed == 0 {
		c.AttackSpeed = DefaultAttackSpeed
	}
}

// ParseCharData parses and validates a single definition from raw YAML bytes.
//
// Postcondition: Returns a validated *CharData with defaults applied, or an error.
func ParseCharData(data []byte) (*CharData, error) {
	cd := CharData{CritDamage: DefaultCritDamage}
	if err := yaml.Unmarshal(data, &cd); err != nil {
		return nil, fmt.Errorf("parsing unit YAML: %w", err)
	}
	if err := cd.Validate(); err != nil {
		return nil, err
	}
	cd.applyDefaults()
	return &cd, nil
}

// Registry resolves model identifiers to their definitions.
type Registry struct {
	byModel map[string]*CharData
}

// NewRegistry builds a Registry from defs. Later entries replace earlier ones
// with the same model.
func NewRegistry(defs ...*CharData) *Registry {
	r := &Registry{byModel: make(map[string]*CharData, len(defs))}
	for _, d := range defs {
		r.byModel[d.Model] = d
	}
	return r
}

// Get returns the definition for model.
//
// Postcondition: Returns a non-nil *CharData, or an error wrapping ErrUnknownModel.
func (r *Registry) Get(model string) (*CharData, error) {
	cd, ok := r.byModel[model]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return cd, nil
}

// Models returns every registered model identifier, sorted.
func (r *Registry) Models() []string {
	out := make([]string, 0, len(r.byModel))
	for m := range r.byModel {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// LoadDirectory reads all *.yaml files in dir into a Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a Registry or an error on the first parse or validate failure.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading unit dir %q: %w", dir, err)
	}

	var defs []*CharData
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		cd, err := ParseCharData(data)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		defs = append(defs, cd)
	}
	return NewRegistry(defs...), nil
}
