package arena

import (
	"fmt"

	"github.com/cory-johannsen/arena/internal/game/unit"
	"github.com/cory-johannsen/arena/internal/scripting"
)

// ScriptHooks resolves unit hooks to Lua functions. It implements unit.HookRegistry.
type ScriptHooks struct {
	mgr *scripting.Manager
}

// NewScriptHooks wraps mgr.
//
// Precondition: mgr must be non-nil and have every model's scripts loaded
// before units of that model are spawned.
func NewScriptHooks(mgr *scripting.Manager) *ScriptHooks {
	return &ScriptHooks{mgr: mgr}
}

// Lookup returns a callback for model's category.name, or nil when the model
// defines no such function. OnUpdate receives (self, diff); every other hook
// receives (self, other).
func (h *ScriptHooks) Lookup(model, category string, name unit.HookName) unit.Hook {
	hook := string(name)
	if !h.mgr.HasHook(model, category, hook) {
		return nil
	}
	if name == unit.HookOnUpdate {
		return func(args unit.HookArgs) {
			h.mgr.CallHook(model, category, hook, unitInfo(args.Self), args.Diff) //nolint:errcheck
		}
	}
	return func(args unit.HookArgs) {
		h.mgr.CallHook(model, category, hook, unitInfo(args.Self), unitInfo(args.Other)) //nolint:errcheck
	}
}

// BindEngine injects the engine.* callbacks of mgr against w. Scripts run
// inside unit ticks, so the callbacks touch w from the loop goroutine.
func BindEngine(mgr *scripting.Manager, w *World) {
	mgr.GetUnit = func(id uint32) *scripting.UnitInfo {
		u, ok := w.Unit(unit.NetID(id))
		if !ok {
			return nil
		}
		return unitInfo(u)
	}
	mgr.Heal = func(id uint32, amount float64) error {
		if amount < 0 {
			return fmt.Errorf("heal amount must not be negative, got %g", amount)
		}
		u, ok := w.Unit(unit.NetID(id))
		if !ok {
			return fmt.Errorf("unit %d not found", id)
		}
		if u.IsDead() {
			return fmt.Errorf("unit %d is dead", id)
		}
		s := u.Stats()
		s.SetCurrentHealth(s.CurrentHealth() + amount)
		return nil
	}
	mgr.ApplyEffect = func(id uint32, effectID string, seconds float64) error {
		u, ok := w.Unit(unit.NetID(id))
		if !ok {
			return fmt.Errorf("unit %d not found", id)
		}
		return w.ApplyEffect(u, effectID, seconds)
	}
}

// maxHealther is implemented by stat sheets that expose their health cap.
type maxHealther interface {
	MaxHealth() float64
}

func unitInfo(u *unit.Unit) *scripting.UnitInfo {
	if u == nil {
		return nil
	}
	info := &scripting.UnitInfo{
		ID:     uint32(u.ID()),
		Model:  u.Model(),
		Team:   int(u.Team()),
		Health: u.Stats().CurrentHealth(),
		X:      u.Position().X,
		Y:      u.Position().Y,
		Dead:   u.IsDead(),
	}
	if mh, ok := u.Stats().(maxHealther); ok {
		info.MaxHealth = mh.MaxHealth()
	}
	for _, e := range u.StatusEffects() {
		info.Effects = append(info.Effects, e.Def.ID)
	}
	return info
}
