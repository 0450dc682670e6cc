package scripting

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/arena/internal/game/dice"
)

// UnitInfo is a snapshot of a unit's state passed to Lua callbacks.
type UnitInfo struct {
	ID        uint32
	Model     string
	Team      int
	Health    float64
	MaxHealth float64
	X, Y      float64
	Dead      bool
	Effects   []string
}

// Manager owns one sandboxed LState per unit model and exposes hook dispatch.
//
// A model's scripts define one global table per category, for example
// Passive = { OnUpdate = function(self, diff) ... end }.
//
// Manager is safe for concurrent CallHook after all LoadModel calls complete.
// Each model's LState is single-threaded; a per-model mutex serializes calls
// into it.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	src    dice.Source
	logger *zap.Logger

	// Injected after construction. nil = no-op in engine.* modules.
	GetUnit     func(id uint32) *UnitInfo
	Heal        func(id uint32, amount float64) error
	ApplyEffect func(id uint32, effectID string, seconds float64) error
}

type vm struct {
	mu     sync.Mutex
	L      *lua.LState
	limit  int
	cancel func()
}

// NewManager creates a Manager.
//
// Precondition: src and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no models loaded.
func NewManager(src dice.Source, logger *zap.Logger) *Manager {
	if src == nil {
		panic("scripting.NewManager: src must not be nil")
	}
	if logger == nil {
		panic("scripting.NewManager: logger must not be nil")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		src:    src,
		logger: logger,
	}
}

// LoadModel creates a sandboxed VM for model, registers all engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
// Reloading a model replaces its VM.
//
// Precondition: model must be non-empty; scriptDir must be a readable directory.
// Postcondition: Model VM is registered; returns error on Lua load failure.
func (m *Manager) LoadModel(model, scriptDir string, instLimit int) error {
	if model == "" {
		return errors.New("scripting: model must not be empty")
	}
	L, cancel := NewSandboxedState(instLimit)
	m.RegisterModules(L)

	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		cancel()
		L.Close()
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, model, err)
	}

	var luaFiles []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			luaFiles = append(luaFiles, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(luaFiles)

	for _, path := range luaFiles {
		if err := L.DoFile(path); err != nil {
			cancel()
			L.Close()
			return fmt.Errorf("scripting: loading %q for %q: %w", path, model, err)
		}
	}

	m.mu.Lock()
	if old, ok := m.vms[model]; ok {
		old.close()
	}
	m.vms[model] = &vm{L: L, limit: instLimit, cancel: cancel}
	m.mu.Unlock()
	return nil
}

// LoadAll loads every subdirectory of root as the scripts of the model it is
// named after. A missing root loads nothing.
//
// Postcondition: Returns the loaded model names in lexicographic order, or the first load error.
func (m *Manager) LoadAll(root string, instLimit int) ([]string, error) {
	entries, err := os.ReadDir(root)
	if errors.Is(err, os.ErrNotExist) {
		m.logger.Info("scripting: script root does not exist", zap.String("root", root))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scripting: reading script root %q: %w", root, err)
	}
	var models []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if err := m.LoadModel(e.Name(), filepath.Join(root, e.Name()), instLimit); err != nil {
			return nil, err
		}
		models = append(models, e.Name())
	}
	sort.Strings(models)
	return models, nil
}

// HasHook reports whether model defines category.hook as a function.
func (m *Manager) HasHook(model, category, hook string) bool {
	v := m.vm(model)
	if v == nil {
		return false
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	return lookup(v.L, category, hook) != lua.LNil
}

// CallHook calls category.hook in model's VM with args converted by ToLValue.
// Returns (LNil, nil) if the hook is not defined or no VM exists. Lua runtime
// errors, including an exhausted instruction budget, are logged at Warn level
// and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) CallHook(model, category, hook string, args ...any) (lua.LValue, error) {
	v := m.vm(model)
	if v == nil {
		m.logger.Debug("scripting: no VM for model",
			zap.String("model", model),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	fn := lookup(v.L, category, hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	cancel := resetBudget(v.L, v.limit)
	defer cancel()

	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = ToLValue(v.L, a)
	}

	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, largs...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("model", model),
			zap.String("category", category),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for model, v := range m.vms {
		v.close()
		delete(m.vms, model)
	}
}

func (m *Manager) vm(model string) *vm {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vms[model]
}

func (v *vm) close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
	}
	v.L.Close()
}

func lookup(L *lua.LState, category, hook string) lua.LValue {
	tbl, ok := L.GetGlobal(category).(*lua.LTable)
	if !ok {
		return lua.LNil
	}
	fn := L.GetField(tbl, hook)
	if fn.Type() != lua.LTFunction {
		return lua.LNil
	}
	return fn
}

// ToLValue converts a Go hook argument into a Lua value owned by L.
// Unsupported types convert to nil.
func ToLValue(L *lua.LState, v any) lua.LValue {
	switch x := v.(type) {
	case nil:
		return lua.LNil
	case lua.LValue:
		return x
	case *UnitInfo:
		if x == nil {
			return lua.LNil
		}
		return unitTable(L, x)
	case float64:
		return lua.LNumber(x)
	case int:
		return lua.LNumber(x)
	case uint32:
		return lua.LNumber(x)
	case string:
		return lua.LString(x)
	case bool:
		return lua.LBool(x)
	}
	return lua.LNil
}

func unitTable(L *lua.LState, u *UnitInfo) *lua.LTable {
	t := L.NewTable()
	L.SetField(t, "id", lua.LNumber(u.ID))
	L.SetField(t, "model", lua.LString(u.Model))
	L.SetField(t, "team", lua.LNumber(u.Team))
	L.SetField(t, "health", lua.LNumber(u.Health))
	L.SetField(t, "max_health", lua.LNumber(u.MaxHealth))
	L.SetField(t, "x", lua.LNumber(u.X))
	L.SetField(t, "y", lua.LNumber(u.Y))
	L.SetField(t, "dead", lua.LBool(u.Dead))
	effects := L.NewTable()
	for _, e := range u.Effects {
		effects.Append(lua.LString(e))
	}
	L.SetField(t, "effects", effects)
	return t
}
