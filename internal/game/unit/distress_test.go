package unit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/unit"
)

func TestDistressFollowsTarget(t *testing.T) {
	h := newHarness()
	a, _ := h.spawn(t, "A")
	b, _ := h.spawn(t, "B", withTeam(unit.TeamPurple), at(100, 0))
	c, _ := h.spawn(t, "C", withTeam(unit.TeamPurple), at(0, 100))

	a.SetTargetUnit(b)
	assert.Equal(t, a.ID(), b.DistressCause())

	a.SetTargetUnit(c)
	assert.Zero(t, b.DistressCause())
	assert.Equal(t, a.ID(), c.DistressCause())

	a.SetTargetUnit(nil)
	assert.Zero(t, c.DistressCause())
	assert.False(t, a.IsAttacking())
}

func TestDistressLastWriterWins(t *testing.T) {
	h := newHarness()
	a, _ := h.spawn(t, "A")
	d, _ := h.spawn(t, "D", at(0, 50))
	b, _ := h.spawn(t, "B", withTeam(unit.TeamPurple), at(100, 0))
	c, _ := h.spawn(t, "C", withTeam(unit.TeamPurple), at(0, 100))

	a.SetTargetUnit(b)
	d.SetTargetUnit(b)
	assert.Equal(t, d.ID(), b.DistressCause())

	// A leaving B must not erase D's claim.
	a.SetTargetUnit(c)
	assert.Equal(t, d.ID(), b.DistressCause())
}

func TestRetargetingSameUnitKeepsDistress(t *testing.T) {
	h := newHarness()
	a, _ := h.spawn(t, "A")
	b, _ := h.spawn(t, "B", withTeam(unit.TeamPurple), at(100, 0))

	a.SetTargetUnit(b)
	a.SetTargetUnit(b)
	assert.Equal(t, a.ID(), b.DistressCause())
}

func TestPropertyDistressMatchesSoleAttacker(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		h := newHarness()
		a, _ := h.spawn(rt, "A")
		targets := make([]*unit.Unit, 4)
		for i := range targets {
			targets[i], _ = h.spawn(rt, "T", withTeam(unit.TeamPurple), at(float64(100*(i+1)), 0))
		}

		steps := rapid.SliceOfN(rapid.IntRange(-1, len(targets)-1), 1, 20).Draw(rt, "steps")
		for _, idx := range steps {
			var target *unit.Unit
			if idx >= 0 {
				target = targets[idx]
			}
			a.SetTargetUnit(target)

			for _, tu := range targets {
				want := unit.NetID(0)
				if tu == target {
					want = a.ID()
				}
				if tu.DistressCause() != want {
					rt.Fatalf("target %d distress = %d, want %d", tu.ID(), tu.DistressCause(), want)
				}
			}
		}
	})
}

func TestIsInDistressIsAlwaysFalse(t *testing.T) {
	h := newHarness()
	a, _ := h.spawn(t, "A")
	b, _ := h.spawn(t, "B", withTeam(unit.TeamPurple), at(100, 0))
	a.SetTargetUnit(b)
	assert.False(t, b.IsInDistress())
}
