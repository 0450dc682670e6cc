package arena_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/arena/internal/game/unit"
)

func TestMotion_WalksAtMoveSpeed(t *testing.T) {
	e := newEnv(t)
	u := e.spawn(t, "Garen", unit.TeamBlue, 0, 0)
	u.SetWaypoints([]unit.Vector2{{X: 0, Y: 0}, {X: 1000, Y: 0}})

	e.world.Tick(100)

	assert.InDelta(t, 34.0, u.Position().X, 1e-9)
	assert.Equal(t, 0.0, u.Position().Y)
	wps := u.Waypoints()
	require.Len(t, wps, 2)
	assert.Equal(t, u.Position(), wps[0])
}

func TestMotion_ConsumesReachedWaypoints(t *testing.T) {
	e := newEnv(t)
	u := e.spawn(t, "Garen", unit.TeamBlue, 0, 0)
	u.SetWaypoints([]unit.Vector2{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 500, Y: 10}})

	e.world.Tick(100)

	// 34 units of travel: 10 east, 10 north, 14 east.
	assert.InDelta(t, 24.0, u.Position().X, 1e-9)
	assert.InDelta(t, 10.0, u.Position().Y, 1e-9)
	assert.Len(t, u.Waypoints(), 2)
}

func TestMotion_StoppedPathCollapses(t *testing.T) {
	e := newEnv(t)
	u := e.spawn(t, "Garen", unit.TeamBlue, 20, 20)
	u.StopMovement()

	e.world.Tick(33)

	assert.Equal(t, []unit.Vector2{{X: 20, Y: 20}}, u.Waypoints())
	assert.Equal(t, unit.Vector2{X: 20, Y: 20}, u.Position())
}

func TestMotion_StunAndRootHold(t *testing.T) {
	for _, effect := range []string{"stun", "root"} {
		t.Run(effect, func(t *testing.T) {
			e := newEnv(t)
			u := e.spawn(t, "Garen", unit.TeamBlue, 0, 0)
			require.NoError(t, e.world.ApplyEffect(u, effect, 0))
			u.SetWaypoints([]unit.Vector2{{X: 0, Y: 0}, {X: 1000, Y: 0}})

			e.world.Tick(100)
			assert.Equal(t, unit.Vector2{}, u.Position())
		})
	}
}

func TestMotion_MapEdgeRaisesTerrainCollision(t *testing.T) {
	hits := 0
	e := newEnv(t, withHooks(hookTable{"Garen": {
		unit.HookOnCollideWithTerrain: func(unit.HookArgs) { hits++ },
	}}))
	u := e.spawn(t, "Garen", unit.TeamBlue, 4990, 100)
	u.SetWaypoints([]unit.Vector2{{X: 4990, Y: 100}, {X: 6000, Y: 100}})

	e.world.Tick(100)

	assert.Equal(t, unit.Vector2{X: 5000, Y: 100}, u.Position())
	assert.Equal(t, 1, hits)
}

func TestMotion_OverlapRaisesUnitCollision(t *testing.T) {
	var collided []*unit.Unit
	e := newEnv(t, withHooks(hookTable{"Garen": {
		unit.HookOnCollide: func(a unit.HookArgs) { collided = append(collided, a.Other) },
	}}))
	u := e.spawn(t, "Garen", unit.TeamBlue, 0, 0)
	minion := e.spawn(t, "MeleeMinion", unit.TeamPurple, 110, 0)
	u.SetWaypoints([]unit.Vector2{{X: 0, Y: 0}, {X: 300, Y: 0}})

	// 34 units later the gap is 76, inside the 88 combined radius.
	e.world.Tick(100)

	assert.Equal(t, []*unit.Unit{minion}, collided)
}

func TestMotion_StationaryUnitsDoNotCollide(t *testing.T) {
	calls := 0
	e := newEnv(t, withHooks(hookTable{"Garen": {
		unit.HookOnCollide: func(unit.HookArgs) { calls++ },
	}}))
	e.spawn(t, "Garen", unit.TeamBlue, 0, 0)
	e.spawn(t, "Garen", unit.TeamBlue, 10, 0)

	e.run(5)
	assert.Zero(t, calls)
}

func TestPropertyMotion_StaysInsideMap(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		e := newEnv(rt)
		x := rapid.Float64Range(0, 5000).Draw(rt, "x")
		y := rapid.Float64Range(0, 5000).Draw(rt, "y")
		dx := rapid.Float64Range(-20000, 20000).Draw(rt, "dx")
		dy := rapid.Float64Range(-20000, 20000).Draw(rt, "dy")
		u := e.spawn(rt, "Garen", unit.TeamBlue, x, y)
		u.SetWaypoints([]unit.Vector2{{X: x, Y: y}, {X: x + dx, Y: y + dy}})

		for i := 0; i < 20; i++ {
			e.world.Tick(rapid.Float64Range(0, 500).Draw(rt, "diff"))
			p := u.Position()
			if p.X < 0 || p.X > 5000 || p.Y < 0 || p.Y > 5000 {
				rt.Fatalf("unit left the map: %+v", p)
			}
		}
	})
}
