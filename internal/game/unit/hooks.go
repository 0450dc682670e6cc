package unit

// PassiveCategory is the script category every unit hook lives under.
const PassiveCategory = "Passive"

// HookName names a scripted per-model callback.
type HookName string

const (
	HookOnUpdate             HookName = "OnUpdate"
	HookOnCollideWithTerrain HookName = "onCollideWithTerrain"
	HookOnCollide            HookName = "onCollide"
	HookOnAutoAttack         HookName = "OnAutoAttack"
	HookOnDie                HookName = "OnDie"
)

// HookArgs carries a hook's arguments. Other is the collider, attack target,
// or killer depending on the hook; Diff is set only for OnUpdate.
type HookArgs struct {
	Self  *Unit
	Other *Unit
	Diff  float64
}

// Hook is a resolved scripted callback.
type Hook func(args HookArgs)

// HookRegistry resolves (model, category, hook) to a callback, or nil when
// none is registered.
type HookRegistry interface {
	Lookup(model, category string, name HookName) Hook
}

// hookTable caches a model's hooks. A nil field means no script.
type hookTable struct {
	onUpdate             Hook
	onCollideWithTerrain Hook
	onCollide            Hook
	onAutoAttack         Hook
	onDie                Hook
}

func resolveHooks(reg HookRegistry, model string) hookTable {
	if reg == nil {
		return hookTable{}
	}
	return hookTable{
		onUpdate:             reg.Lookup(model, PassiveCategory, HookOnUpdate),
		onCollideWithTerrain: reg.Lookup(model, PassiveCategory, HookOnCollideWithTerrain),
		onCollide:            reg.Lookup(model, PassiveCategory, HookOnCollide),
		onAutoAttack:         reg.Lookup(model, PassiveCategory, HookOnAutoAttack),
		onDie:                reg.Lookup(model, PassiveCategory, HookOnDie),
	}
}

func (h Hook) call(args HookArgs) {
	if h != nil {
		h(args)
	}
}
