package scripting

import (
	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// RegisterModules registers all engine.* Lua tables into L:
//
//	engine.log.debug/info/warn/error(msg)
//	engine.unit(id)                        -> unit table or nil
//	engine.heal(id, amount)                -> true on success
//	engine.apply_effect(id, effect, secs)  -> true on success; secs 0 or omitted uses the default duration
//	engine.random(n)                       -> integer in [0, n)
//
// Precondition: L must be from NewSandboxedState.
// Postcondition: engine global is defined in L.
func (m *Manager) RegisterModules(L *lua.LState) {
	engine := L.NewTable()

	log := L.NewTable()
	L.SetField(log, "debug", L.NewFunction(m.logAt(zap.DebugLevel)))
	L.SetField(log, "info", L.NewFunction(m.logAt(zap.InfoLevel)))
	L.SetField(log, "warn", L.NewFunction(m.logAt(zap.WarnLevel)))
	L.SetField(log, "error", L.NewFunction(m.logAt(zap.ErrorLevel)))
	L.SetField(engine, "log", log)

	L.SetField(engine, "unit", L.NewFunction(m.luaUnit))
	L.SetField(engine, "heal", L.NewFunction(m.luaHeal))
	L.SetField(engine, "apply_effect", L.NewFunction(m.luaApplyEffect))
	L.SetField(engine, "random", L.NewFunction(m.luaRandom))

	L.SetGlobal("engine", engine)
}

func (m *Manager) logAt(level zapcore.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)
		if ce := m.logger.Check(level, msg); ce != nil {
			ce.Write(zap.String("source", "lua"))
		}
		return 0
	}
}

func (m *Manager) luaUnit(L *lua.LState) int {
	id := uint32(L.CheckNumber(1))
	if m.GetUnit == nil {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(ToLValue(L, m.GetUnit(id)))
	return 1
}

func (m *Manager) luaHeal(L *lua.LState) int {
	id := uint32(L.CheckNumber(1))
	amount := float64(L.CheckNumber(2))
	if m.Heal == nil {
		L.Push(lua.LFalse)
		return 1
	}
	if err := m.Heal(id, amount); err != nil {
		m.logger.Debug("scripting: engine.heal failed", zap.Uint32("unit", id), zap.Error(err))
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LTrue)
	return 1
}

func (m *Manager) luaApplyEffect(L *lua.LState) int {
	id := uint32(L.CheckNumber(1))
	effectID := L.CheckString(2)
	seconds := float64(L.OptNumber(3, 0))
	if m.ApplyEffect == nil {
		L.Push(lua.LFalse)
		return 1
	}
	if err := m.ApplyEffect(id, effectID, seconds); err != nil {
		m.logger.Debug("scripting: engine.apply_effect failed",
			zap.Uint32("unit", id),
			zap.String("effect", effectID),
			zap.Error(err),
		)
		L.Push(lua.LFalse)
		return 1
	}
	L.Push(lua.LTrue)
	return 1
}

func (m *Manager) luaRandom(L *lua.LState) int {
	n := L.CheckInt(1)
	if n <= 0 {
		L.ArgError(1, "n must be positive")
		return 0
	}
	L.Push(lua.LNumber(m.src.Intn(n)))
	return 1
}
