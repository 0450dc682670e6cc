package arena

import (
	"github.com/cory-johannsen/arena/internal/game/status"
	"github.com/cory-johannsen/arena/internal/game/unit"
)

// Motion walks units along their waypoints. It implements unit.Motion.
//
// A path is [current, next, ...]. Reaching next drops it from the path. A
// move that leaves the map is clamped and reported as a terrain collision;
// ending a move overlapping another live unit is reported as a unit collision.
type Motion struct {
	world *World
}

// Step moves u for diff milliseconds. Dead, stunned and rooted units stay put.
func (m *Motion) Step(u *unit.Unit, diff float64) {
	if u.IsDead() || u.HasStatus(status.Stun) || u.HasStatus(status.Root) {
		return
	}
	wps := u.Waypoints()
	if len(wps) < 2 {
		return
	}

	from := u.Position()
	budget := u.Stats().TotalMoveSpeed() * diff / 1000
	pos := from
	for len(wps) > 1 && budget > 0 {
		next := wps[1]
		d := pos.Distance(next)
		if d > budget {
			pos = moveToward(pos, next, budget)
			break
		}
		budget -= d
		pos = next
		wps = wps[1:]
	}
	// Zero-length segments are consumed even without budget.
	for len(wps) > 1 && pos == wps[1] {
		wps = wps[1:]
	}

	clamped := m.world.clamp(pos)
	hitTerrain := clamped != pos
	wps[0] = clamped
	u.SetPosition(clamped)
	u.SetWaypoints(wps)

	if hitTerrain {
		u.OnCollision(nil)
	}
	if clamped == from {
		return
	}
	for _, other := range m.world.Units() {
		if other == u || other.IsDead() {
			continue
		}
		if clamped.Distance(other.Position()) < u.CollisionRadius()+other.CollisionRadius() {
			u.OnCollision(other)
		}
	}
}

// moveToward returns the point step units from p along the line to dest, or
// dest itself when it is closer than step.
func moveToward(p, dest unit.Vector2, step float64) unit.Vector2 {
	d := p.Distance(dest)
	if d <= step || d == 0 {
		return dest
	}
	f := step / d
	return unit.Vector2{X: p.X + (dest.X-p.X)*f, Y: p.Y + (dest.Y-p.Y)*f}
}
