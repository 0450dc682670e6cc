// Package rules holds the kill-reward table consulted when a unit dies.
package rules

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/arena/internal/game/unit"
)

// Reward is the payout for killing one kind of unit.
//
// Precondition: Kind must name a unit kind; MinionType is only valid for minions.
type Reward struct {
	Kind       string  `yaml:"kind"`
	MinionType string  `yaml:"minion_type"`
	Experience float64 `yaml:"experience"`
	Currency   float64 `yaml:"currency"`
}

type file struct {
	Rewards []Reward `yaml:"rewards"`
}

type key struct {
	kind   unit.Kind
	minion unit.MinionType
}

// Table maps a victim's kind and minion subtype to its reward. It implements
// unit.Rules. Lookups fall back from (kind, subtype) to (kind) and finally to
// a zero reward.
type Table struct {
	rewards map[key]Reward
}

// NewTable validates rewards and indexes them.
//
// Postcondition: Returns a Table, or an error naming the first invalid or duplicate entry.
func NewTable(rewards []Reward) (*Table, error) {
	t := &Table{rewards: make(map[key]Reward, len(rewards))}
	for i, r := range rewards {
		k, err := r.key()
		if err != nil {
			return nil, fmt.Errorf("reward %d: %w", i, err)
		}
		if r.Experience < 0 {
			return nil, fmt.Errorf("reward %d (%s): experience must be >= 0, got %g", i, r.Kind, r.Experience)
		}
		if _, dup := t.rewards[k]; dup {
			return nil, fmt.Errorf("reward %d: duplicate entry for %s %q", i, r.Kind, r.MinionType)
		}
		t.rewards[k] = r
	}
	return t, nil
}

func (r Reward) key() (key, error) {
	kind, err := unit.ParseKind(r.Kind)
	if err != nil {
		return key{}, err
	}
	minion, err := unit.ParseMinionType(r.MinionType)
	if err != nil {
		return key{}, err
	}
	if minion != unit.MinionNone && kind != unit.KindMinion {
		return key{}, fmt.Errorf("minion_type %q set on kind %q", r.MinionType, r.Kind)
	}
	return key{kind: kind, minion: minion}, nil
}

// Parse decodes a rewards document. Unknown fields are rejected.
func Parse(data []byte) (*Table, error) {
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing rewards: %w", err)
	}
	return NewTable(f.Rewards)
}

// Load reads and parses the rewards file at path.
//
// Precondition: path must be a readable YAML file.
// Postcondition: Returns a Table or an error naming path.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules %q: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("loading rules %q: %w", path, err)
	}
	return t, nil
}

// RewardFor returns the reward for a victim of the given kind and subtype.
func (t *Table) RewardFor(kind unit.Kind, minion unit.MinionType) Reward {
	if r, ok := t.rewards[key{kind: kind, minion: minion}]; ok {
		return r
	}
	return t.rewards[key{kind: kind}]
}

// ExperienceFor returns the experience pool a victim's death distributes.
func (t *Table) ExperienceFor(victim *unit.Unit) float64 {
	return t.RewardFor(victim.Kind(), victim.MinionType()).Experience
}

// CurrencyFor returns the bounty paid to a victim's champion killer.
func (t *Table) CurrencyFor(victim *unit.Unit) float64 {
	return t.RewardFor(victim.Kind(), victim.MinionType()).Currency
}
