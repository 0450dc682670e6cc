package unit_test

import (
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/game/content"
	"github.com/cory-johannsen/arena/internal/game/stats"
	"github.com/cory-johannsen/arena/internal/game/unit"
	"github.com/cory-johannsen/arena/internal/notify"
)

// tb is the subset of testing.TB that *rapid.T also satisfies.
type tb interface {
	require.TestingT
	Helper()
}

// fakeWorld is a minimal registry: everything is visible unless the unit is
// hidden or the viewing team is blind.
type fakeWorld struct {
	nextID        unit.NetID
	units         []*unit.Unit
	hidden        map[unit.NetID]bool
	blindTeams    map[unit.Team]bool
	projectiles   []*unit.Projectile
	visionSources map[unit.NetID]bool
}

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		nextID:        1000,
		hidden:        make(map[unit.NetID]bool),
		blindTeams:    make(map[unit.Team]bool),
		visionSources: make(map[unit.NetID]bool),
	}
}

func (w *fakeWorld) TeamHasVisionOf(team unit.Team, u *unit.Unit) bool {
	return !w.blindTeams[team] && !w.hidden[u.ID()]
}

func (w *fakeWorld) UnitsOfKindInRadius(origin unit.Vector2, radius float64, kind unit.Kind) []*unit.Unit {
	var out []*unit.Unit
	for _, u := range w.units {
		if u.Kind() == kind && u.Position().Distance(origin) <= radius {
			out = append(out, u)
		}
	}
	return out
}

func (w *fakeWorld) StopAllTargetingOf(target *unit.Unit) {
	for _, u := range w.units {
		u.StopTargeting(target)
	}
}

func (w *fakeWorld) SpawnProjectile(p *unit.Projectile) { w.projectiles = append(w.projectiles, p) }

func (w *fakeWorld) NewNetID() unit.NetID {
	w.nextID++
	return w.nextID
}

func (w *fakeWorld) AddVisionSource(u *unit.Unit)    { w.visionSources[u.ID()] = true }
func (w *fakeWorld) RemoveVisionSource(u *unit.Unit) { delete(w.visionSources, u.ID()) }

// fixedSource always returns val for any Intn call.
type fixedSource struct{ val int }

func (f *fixedSource) Intn(n int) int { return f.val }

// fixedRules pays the same reward for every victim unless overridden per id.
type fixedRules struct {
	xp       float64
	gold     float64
	goldByID map[unit.NetID]float64
}

func (r *fixedRules) ExperienceFor(*unit.Unit) float64 { return r.xp }

func (r *fixedRules) CurrencyFor(victim *unit.Unit) float64 {
	if g, ok := r.goldByID[victim.ID()]; ok {
		return g
	}
	return r.gold
}

// hookMap is a HookRegistry keyed by model and hook name.
type hookMap map[string]map[unit.HookName]unit.Hook

func (m hookMap) Lookup(model, category string, name unit.HookName) unit.Hook {
	if category != unit.PassiveCategory {
		return nil
	}
	return m[model][name]
}

type harness struct {
	world *fakeWorld
	rec   *notify.Recorder
	rules *fixedRules
	src   *fixedSource
	hooks hookMap
	ids   unit.NetID
}

func newHarness() *harness {
	return &harness{
		world: newFakeWorld(),
		rec:   &notify.Recorder{},
		rules: &fixedRules{goldByID: make(map[unit.NetID]float64)},
		// 99 never crits for chances below 1.
		src:   &fixedSource{val: 99},
		hooks: hookMap{},
	}
}

func meleeData(model string) *content.CharData {
	return &content.CharData{
		Model:                 model,
		Kind:                  "champion",
		IsMelee:               true,
		AttackDelay:           0.25,
		AttackProjectileSpeed: 500,
		AttackSpeed:           1,
		AttackRange:           150,
		AttackDamage:          50,
		CritDamage:            2,
		MoveSpeed:             300,
		Health:                1000,
		CollisionRadius:       40,
		VisionRadius:          1200,
	}
}

type spawnOpt func(*content.CharData, *unit.Params)

func withKind(k unit.Kind) spawnOpt {
	return func(_ *content.CharData, p *unit.Params) { p.Kind = k }
}

func withMinion(m unit.MinionType) spawnOpt {
	return func(_ *content.CharData, p *unit.Params) { p.Kind = unit.KindMinion; p.MinionType = m }
}

func withTeam(team unit.Team) spawnOpt {
	return func(_ *content.CharData, p *unit.Params) { p.Team = team }
}

func at(x, y float64) spawnOpt {
	return func(_ *content.CharData, p *unit.Params) { p.Position = unit.Vector2{X: x, Y: y} }
}

func ranged() spawnOpt {
	return func(cd *content.CharData, p *unit.Params) { cd.IsMelee = false; cd.AttackRange = 550 }
}

func withData(fn func(cd *content.CharData)) spawnOpt {
	return func(cd *content.CharData, _ *unit.Params) { fn(cd) }
}

// spawn creates a unit registered with the fake world. The default is a blue
// melee champion at the origin.
func (h *harness) spawn(t tb, model string, opts ...spawnOpt) (*unit.Unit, *stats.Sheet) {
	t.Helper()
	cd := meleeData(model)
	h.ids++
	p := unit.Params{ID: h.ids, Model: model, Kind: unit.KindChampion, Team: unit.TeamBlue}
	for _, o := range opts {
		o(cd, &p)
	}
	sheet := stats.NewSheet(cd)
	p.IsMelee = cd.IsMelee
	p.AttackDelay = cd.AttackDelay
	p.ProjectileSpeed = cd.AttackProjectileSpeed
	p.CollisionRadius = cd.CollisionRadius
	p.VisionRadius = cd.VisionRadius
	p.Stats = sheet

	u, err := unit.New(p, unit.Deps{
		World:    h.world,
		Notifier: h.rec,
		Rules:    h.rules,
		Hooks:    h.hooks,
		Random:   h.src,
	})
	require.NoError(t, err)
	h.world.units = append(h.world.units, u)
	u.OnAdded()
	return u, sheet
}

// tickAll advances every unit by diff, n times.
func (h *harness) tickAll(diff float64, n int) {
	for i := 0; i < n; i++ {
		for _, u := range h.world.units {
			u.Tick(diff)
		}
	}
}
