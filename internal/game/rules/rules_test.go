package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/rules"
	"github.com/cory-johannsen/arena/internal/game/unit"
)

const sample = `
rewards:
  - kind: champion
    experience: 200
    currency: 300
  - kind: minion
    experience: 30
    currency: 14
  - kind: minion
    minion_type: cannon
    experience: 92
    currency: 60
  - kind: turret
    currency: 150
`

func TestParseAndLookup(t *testing.T) {
	table, err := rules.Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, 300.0, table.RewardFor(unit.KindChampion, unit.MinionNone).Currency)
	assert.Equal(t, 92.0, table.RewardFor(unit.KindMinion, unit.MinionCannon).Experience)
	assert.Equal(t, 30.0, table.RewardFor(unit.KindMinion, unit.MinionCaster).Experience, "subtype falls back to kind")
	assert.Zero(t, table.RewardFor(unit.KindTurret, unit.MinionNone).Experience)
	assert.Equal(t, rules.Reward{}, table.RewardFor(unit.KindNexus, unit.MinionNone), "unknown kind pays nothing")
}

func TestParseRejectsUnknownFields(t *testing.T) {
	_, err := rules.Parse([]byte("rewards:\n  - kind: champion\n    gold: 5\n"))
	assert.Error(t, err)
}

func TestNewTableRejectsInvalid(t *testing.T) {
	cases := map[string][]rules.Reward{
		"unknown kind":      {{Kind: "dragon"}},
		"unknown subtype":   {{Kind: "minion", MinionType: "siege"}},
		"subtype on champ":  {{Kind: "champion", MinionType: "melee"}},
		"negative exp":      {{Kind: "champion", Experience: -1}},
		"duplicate entries": {{Kind: "turret"}, {Kind: "turret"}},
	}
	for name, rewards := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := rules.NewTable(rewards)
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	table, err := rules.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 150.0, table.RewardFor(unit.KindTurret, unit.MinionNone).Currency)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := rules.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.yaml")
}

func TestPropertySubtypeOverridesKind(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		base := rapid.Float64Range(0, 1000).Draw(rt, "base")
		override := rapid.Float64Range(0, 1000).Draw(rt, "override")
		mt := rapid.SampledFrom([]string{"melee", "caster", "cannon", "super"}).Draw(rt, "minion_type")

		table, err := rules.NewTable([]rules.Reward{
			{Kind: "minion", Experience: base},
			{Kind: "minion", MinionType: mt, Experience: override},
		})
		if err != nil {
			rt.Fatalf("NewTable: %v", err)
		}
		sub, _ := unit.ParseMinionType(mt)
		if got := table.RewardFor(unit.KindMinion, sub).Experience; got != override {
			rt.Fatalf("subtype %s: got %v, want %v", mt, got, override)
		}
		if got := table.RewardFor(unit.KindMinion, unit.MinionNone).Experience; got != base {
			rt.Fatalf("untyped minion: got %v, want %v", got, base)
		}
	})
}
