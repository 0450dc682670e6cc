// Package status tracks temporary status effects (crowd control) applied to a unit.
package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category classifies what an effect suppresses.
type Category string

const (
	Stun      Category = "stun"
	Root      Category = "root"
	Disarm    Category = "disarm"
	Blind     Category = "blind"
	Silence   Category = "silence"
	Slow      Category = "slow"
	Taunt     Category = "taunt"
	Knockup   Category = "knockup"
	Suppress  Category = "suppression"
	Invisible Category = "invisible"
)

var knownCategories = map[Category]bool{
	Stun: true, Root: true, Disarm: true, Blind: true, Silence: true,
	Slow: true, Taunt: true, Knockup: true, Suppress: true, Invisible: true,
}

// Def is the static definition of an effect, loaded from YAML.
type Def struct {
	ID          string     `yaml:"id"`
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Categories  []Category `yaml:"categories"`
	// Duration is the default lifetime in seconds. Negative means permanent.
	Duration float64 `yaml:"duration"`
}

// Validate checks the definition's invariants.
//
// Postcondition: Returns nil iff ID is non-empty, at least one category is
// given and every category is known.
func (d *Def) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("status effect: id must not be empty")
	}
	if len(d.Categories) == 0 {
		return fmt.Errorf("status effect %q: at least one category is required", d.ID)
	}
	for _, c := range d.Categories {
		if !knownCategories[c] {
			return fmt.Errorf("status effect %q: unknown category %q", d.ID, c)
		}
	}
	return nil
}

// Registry holds all known Defs keyed by ID.
type Registry struct {
	defs map[string]*Def
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{defs: make(map[string]*Def)}
}

// Register adds def to the registry, overwriting any existing entry with the same ID.
func (r *Registry) Register(def *Def) {
	r.defs[def.ID] = def
}

// Get returns the Def for id, or (nil, false) if not found.
func (r *Registry) Get(id string) (*Def, bool) {
	d, ok := r.defs[id]
	return d, ok
}

// Len returns the number of registered definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// LoadDirectory reads every *.yaml file in dir, parses each as a Def,
// and returns a populated Registry.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns a non-nil Registry, or an error if any file fails to parse or validate.
func LoadDirectory(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading status effect dir %q: %w", dir, err)
	}
	reg := NewRegistry()
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		var def Def
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&def); err != nil {
			return nil, fmt.Errorf("parsing %q: %w", path, err)
		}
		if err := def.Validate(); err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		reg.Register(&def)
	}
	return reg, nil
}
