package arena

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/unit"
)

// Scenario is a scripted match setup: who spawns where, who attacks whom, and
// which effects are active at the start.
type Scenario struct {
	Name string `yaml:"name"`
	// Duration bounds how long the match runs. Zero runs until interrupted.
	Duration time.Duration `yaml:"duration"`
	Spawns   []SpawnSpec   `yaml:"spawns"`
	Targets  []TargetSpec  `yaml:"targets"`
	Effects  []EffectSpec  `yaml:"effects"`
}

// SpawnSpec places one unit. Ref names it for later entries.
type SpawnSpec struct {
	Ref   string  `yaml:"ref"`
	Model string  `yaml:"model"`
	Team  string  `yaml:"team"`
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
}

// TargetSpec makes Unit attack Target.
type TargetSpec struct {
	Unit   string `yaml:"unit"`
	Target string `yaml:"target"`
}

// EffectSpec applies status effect Effect to Unit. Zero Seconds uses the
// effect's default duration.
type EffectSpec struct {
	Unit    string  `yaml:"unit"`
	Effect  string  `yaml:"effect"`
	Seconds float64 `yaml:"seconds"`
}

var teams = map[string]unit.Team{
	"neutral": unit.TeamNeutral,
	"blue":    unit.TeamBlue,
	"purple":  unit.TeamPurple,
}

// ParseTeam maps a team name to a Team.
func ParseTeam(s string) (unit.Team, error) {
	t, ok := teams[s]
	if !ok {
		return 0, fmt.Errorf("unknown team %q", s)
	}
	return t, nil
}

// Validate checks that refs are unique and every reference resolves.
func (s *Scenario) Validate() error {
	if s.Duration < 0 {
		return fmt.Errorf("scenario %q: duration must not be negative", s.Name)
	}
	refs := make(map[string]bool, len(s.Spawns))
	for i, sp := range s.Spawns {
		if sp.Ref == "" || sp.Model == "" {
			return fmt.Errorf("scenario %q: spawn %d: ref and model are required", s.Name, i)
		}
		if refs[sp.Ref] {
			return fmt.Errorf("scenario %q: duplicate ref %q", s.Name, sp.Ref)
		}
		if _, err := ParseTeam(sp.Team); err != nil {
			return fmt.Errorf("scenario %q: spawn %q: %w", s.Name, sp.Ref, err)
		}
		refs[sp.Ref] = true
	}
	for _, t := range s.Targets {
		if !refs[t.Unit] || !refs[t.Target] {
			return fmt.Errorf("scenario %q: target %q -> %q references an unknown ref", s.Name, t.Unit, t.Target)
		}
	}
	for _, e := range s.Effects {
		if !refs[e.Unit] {
			return fmt.Errorf("scenario %q: effect %q references unknown ref %q", s.Name, e.Effect, e.Unit)
		}
	}
	return nil
}

// ParseScenario decodes and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("parsing scenario: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// LoadScenario reads the scenario at path.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a validated Scenario or an error naming path.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario %q: %w", path, err)
	}
	s, err := ParseScenario(data)
	if err != nil {
		return nil, fmt.Errorf("loading scenario %q: %w", path, err)
	}
	return s, nil
}

// Apply spawns the scenario into w, then sets targets, then applies effects.
//
// Postcondition: Returns the spawned units keyed by ref, or the first error.
func (s *Scenario) Apply(w *World) (map[string]*unit.Unit, error) {
	units := make(map[string]*unit.Unit, len(s.Spawns))
	for _, sp := range s.Spawns {
		team, err := ParseTeam(sp.Team)
		if err != nil {
			return nil, err
		}
		u, err := w.Spawn(SpawnRequest{Model: sp.Model, Team: team, Position: unit.Vector2{X: sp.X, Y: sp.Y}})
		if err != nil {
			return nil, fmt.Errorf("scenario %q: spawning %q: %w", s.Name, sp.Ref, err)
		}
		units[sp.Ref] = u
	}
	for _, t := range s.Targets {
		w.SetTarget(units[t.Unit], units[t.Target])
	}
	for _, e := range s.Effects {
		if err := w.ApplyEffect(units[e.Unit], e.Effect, e.Seconds); err != nil {
			return nil, fmt.Errorf("scenario %q: %w", s.Name, err)
		}
	}
	return units, nil
}
