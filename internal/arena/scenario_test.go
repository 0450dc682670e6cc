package arena_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/game/status"
	"github.com/cory-johannsen/arena/internal/game/unit"
)

const skirmish = `
name: skirmish
duration: 30s
spawns:
  - ref: garen
    model: Garen
    team: blue
    x: 1000
    y: 1000
  - ref: caster
    model: CasterMinion
    team: purple
    x: 1300
    y: 1000
targets:
  - unit: garen
    target: caster
effects:
  - unit: caster
    effect: root
    seconds: 2
`

func TestParseScenario(t *testing.T) {
	s, err := arena.ParseScenario([]byte(skirmish))
	require.NoError(t, err)
	assert.Equal(t, "skirmish", s.Name)
	assert.Equal(t, 30*time.Second, s.Duration)
	assert.Len(t, s.Spawns, 2)
	assert.Equal(t, arena.TargetSpec{Unit: "garen", Target: "caster"}, s.Targets[0])
}

func TestParseScenario_Invalid(t *testing.T) {
	cases := map[string]string{
		"unknown field": "name: x\nweather: rain\n",
		"unknown team":  "spawns:\n  - {ref: a, model: Garen, team: red}\n",
		"duplicate ref": "spawns:\n  - {ref: a, model: Garen, team: blue}\n  - {ref: a, model: Garen, team: blue}\n",
		"missing model": "spawns:\n  - {ref: a, team: blue}\n",
		"bad target":    "spawns:\n  - {ref: a, model: Garen, team: blue}\ntargets:\n  - {unit: a, target: b}\n",
		"bad effect":    "effects:\n  - {unit: a, effect: stun}\n",
		"negative time": "duration: -1s\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := arena.ParseScenario([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestScenarioApply(t *testing.T) {
	s, err := arena.ParseScenario([]byte(skirmish))
	require.NoError(t, err)
	e := newEnv(t)

	units, err := s.Apply(e.world)
	require.NoError(t, err)

	garen, caster := units["garen"], units["caster"]
	require.NotNil(t, garen)
	require.NotNil(t, caster)
	assert.Equal(t, unit.TeamPurple, caster.Team())
	assert.Same(t, caster, garen.TargetUnit())
	assert.Equal(t, garen.ID(), caster.DistressCause())
	require.True(t, caster.HasStatus(status.Root))
	assert.Equal(t, 2.0, caster.StatusEffects()[0].Duration)
}

func TestScenarioApply_UnknownModel(t *testing.T) {
	s, err := arena.ParseScenario([]byte("spawns:\n  - {ref: a, model: Teemo, team: blue}\n"))
	require.NoError(t, err)
	_, err = s.Apply(newEnv(t).world)
	assert.Error(t, err)
}

func TestScenarioApply_UnknownEffect(t *testing.T) {
	s, err := arena.ParseScenario([]byte("spawns:\n  - {ref: a, model: Garen, team: blue}\neffects:\n  - {unit: a, effect: polymorph}\n"))
	require.NoError(t, err)
	_, err = s.Apply(newEnv(t).world)
	assert.Error(t, err)
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(skirmish), 0644))
	s, err := arena.LoadScenario(path)
	require.NoError(t, err)
	assert.Equal(t, "skirmish", s.Name)

	_, err = arena.LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseTeam(t *testing.T) {
	team, err := arena.ParseTeam("purple")
	require.NoError(t, err)
	assert.Equal(t, unit.TeamPurple, team)
	_, err = arena.ParseTeam("red")
	assert.Error(t, err)
}
