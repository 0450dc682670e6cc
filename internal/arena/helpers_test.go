package arena_test

import (
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/arena/internal/arena"
	"github.com/cory-johannsen/arena/internal/game/content"
	"github.com/cory-johannsen/arena/internal/game/dice"
	"github.com/cory-johannsen/arena/internal/game/rules"
	"github.com/cory-johannsen/arena/internal/game/status"
	"github.com/cory-johannsen/arena/internal/game/unit"
	"github.com/cory-johannsen/arena/internal/notify"
)

func testContent() *content.Registry {
	return content.NewRegistry(
		&content.CharData{
			Model: "Garen", Kind: "champion", IsMelee: true,
			AttackDelay: 0.3, AttackSpeed: 1, AttackRange: 150, AttackDamage: 60,
			MoveSpeed: 340, Health: 600, CollisionRadius: 40, VisionRadius: 1200,
			AttackProjectileSpeed: 500, CritDamage: 2,
		},
		&content.CharData{
			Model: "Ashe", Kind: "champion",
			AttackDelay: 0.3, AttackSpeed: 1, AttackRange: 600, AttackDamage: 50,
			MoveSpeed: 325, Health: 550, CollisionRadius: 40, VisionRadius: 1200,
			AttackProjectileSpeed: 2000, CritDamage: 2,
		},
		&content.CharData{
			Model: "MeleeMinion", Kind: "minion", MinionType: "melee", IsMelee: true,
			AttackDelay: 0.3, AttackSpeed: 1.25, AttackRange: 110, AttackDamage: 12,
			MoveSpeed: 325, Health: 100, CollisionRadius: 48, VisionRadius: 1200,
			AttackProjectileSpeed: 500, CritDamage: 2,
		},
		&content.CharData{
			Model: "CasterMinion", Kind: "minion", MinionType: "caster",
			AttackDelay: 0.3, AttackSpeed: 0.667, AttackRange: 550, AttackDamage: 23,
			MoveSpeed: 325, Health: 300, CollisionRadius: 48, VisionRadius: 1200,
			AttackProjectileSpeed: 650, CritDamage: 2,
		},
		&content.CharData{
			Model: "Turret", Kind: "turret",
			AttackDelay: 0.3, AttackSpeed: 0.83, AttackRange: 750, AttackDamage: 150,
			Health: 2000, CollisionRadius: 88, VisionRadius: 1350,
			AttackProjectileSpeed: 1200, CritDamage: 2,
		},
	)
}

func testEffects() *status.Registry {
	reg := status.NewRegistry()
	reg.Register(&status.Def{ID: "stun", Categories: []status.Category{status.Stun}, Duration: 1})
	reg.Register(&status.Def{ID: "root", Categories: []status.Category{status.Root}, Duration: 1})
	reg.Register(&status.Def{ID: "camouflage", Categories: []status.Category{status.Invisible}, Duration: -1})
	return reg
}

// tb is the subset of testing.TB that *rapid.T also satisfies.
type tb interface {
	require.TestingT
	Helper()
}

func testRules(t tb) *rules.Table {
	t.Helper()
	table, err := rules.NewTable([]rules.Reward{
		{Kind: "champion", Experience: 200, Currency: 300},
		{Kind: "minion", Experience: 60, Currency: 20},
	})
	require.NoError(t, err)
	return table
}

type env struct {
	world *arena.World
	rec   *notify.Recorder
}

type envOpt func(*arena.Options, *arena.Deps)

func withHooks(h unit.HookRegistry) envOpt {
	return func(_ *arena.Options, d *arena.Deps) { d.Hooks = h }
}

func withAutoAcquire() envOpt {
	return func(o *arena.Options, _ *arena.Deps) { o.AutoAcquire = true }
}

func newEnv(t tb, opts ...envOpt) *env {
	t.Helper()
	rec := &notify.Recorder{}
	o := arena.Options{Width: 5000, Height: 5000}
	d := arena.Deps{
		Content:  testContent(),
		Effects:  testEffects(),
		Rules:    testRules(t),
		Notifier: rec,
		Random:   dice.NewSeededSource(7),
	}
	for _, fn := range opts {
		fn(&o, &d)
	}
	w, err := arena.NewWorld(o, d)
	require.NoError(t, err)
	return &env{world: w, rec: rec}
}

func (e *env) spawn(t tb, model string, team unit.Team, x, y float64) *unit.Unit {
	t.Helper()
	u, err := e.world.Spawn(arena.SpawnRequest{Model: model, Team: team, Position: unit.Vector2{X: x, Y: y}})
	require.NoError(t, err)
	return u
}

func (e *env) run(frames int) {
	for i := 0; i < frames; i++ {
		e.world.Tick(33)
	}
}

// hookTable is a HookRegistry keyed by model and hook name.
type hookTable map[string]map[unit.HookName]unit.Hook

func (h hookTable) Lookup(model, category string, name unit.HookName) unit.Hook {
	if category != unit.PassiveCategory {
		return nil
	}
	return h[model][name]
}
