// Package scripting wraps a single gopher-lua VM used for scripted
// command handlers and the admin eval surface. Single-goroutine access
// only (game loop).
package scripting

import (
	"fmt"
	"os"
	"path/filepath"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"
)

// ExecContext carries the actor running the current script and whether
// the invocation came from the interactive eval surface.
type ExecContext struct {
	Self   any
	IsRepl bool
}

// Engine is the embedded script VM. All re-entry into the simulation
// goes through the Command callback, so position and trust checks
// apply uniformly.
type Engine struct {
	vm  *lua.LState
	log *zap.Logger

	ctx ExecContext

	// Command re-enters the command dispatcher for the current self.
	Command func(self any, line string)
	// Echo writes text back to the current self.
	Echo func(self any, text string)

	protected *lua.LTable
}

// NewEngine creates the VM and loads every .lua file under scriptsDir
// (missing directory is fine: the engine still serves eval).
func NewEngine(scriptsDir string, log *zap.Logger) (*Engine, error) {
	vm := lua.NewState(lua.Options{SkipOpenLibs: false})
	vm.SetGlobal("API_VERSION", lua.LNumber(1))

	e := &Engine{vm: vm, log: log}
	e.protected = vm.NewTable()
	vm.SetGlobal("__protected", e.protected)

	vm.SetGlobal("command", vm.NewFunction(func(L *lua.LState) int {
		line := L.CheckString(1)
		if e.Command != nil && e.ctx.Self != nil {
			e.Command(e.ctx.Self, line)
		}
		return 0
	}))
	vm.SetGlobal("echo", vm.NewFunction(func(L *lua.LState) int {
		text := L.CheckString(1)
		if e.Echo != nil && e.ctx.Self != nil {
			e.Echo(e.ctx.Self, text)
		}
		return 0
	}))

	if err := e.loadDir(scriptsDir); err != nil {
		vm.Close()
		return nil, fmt.Errorf("load scripts: %w", err)
	}
	return e, nil
}

func (e *Engine) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".lua" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		if err := e.vm.DoFile(path); err != nil {
			return fmt.Errorf("load %s: %w", path, err)
		}
		e.log.Debug("loaded lua script", zap.String("file", path))
	}
	return nil
}

// Compile turns source text into a callable closure.
func (e *Engine) Compile(name, source string) (*lua.LFunction, error) {
	fn, err := e.vm.LoadString(source)
	if err != nil {
		return nil, fmt.Errorf("compile %s: %w", name, err)
	}
	return fn, nil
}

// Invoke calls a closure with the given execution context. Script
// errors abort only the current script.
func (e *Engine) Invoke(fn *lua.LFunction, ctx ExecContext, args ...lua.LValue) error {
	prev := e.ctx
	e.ctx = ctx
	defer func() { e.ctx = prev }()

	err := e.vm.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, args...)
	if err != nil {
		return fmt.Errorf("script error: %w", err)
	}
	return nil
}

// Eval compiles and runs one source chunk as the given self, returning
// the error text for the caller to show. Used by the gated admin eval
// command.
func (e *Engine) Eval(source string, self any) error {
	fn, err := e.Compile("eval", source)
	if err != nil {
		return err
	}
	return e.Invoke(fn, ExecContext{Self: self, IsRepl: true})
}

// GCProtect roots a value for the current request.
func (e *Engine) GCProtect(v lua.LValue) {
	e.protected.Append(v)
}

// GCProtectClear drops the rooted set.
func (e *Engine) GCProtectClear() {
	e.vm.SetGlobal("__protected", e.vm.NewTable())
	e.protected = e.vm.GetGlobal("__protected").(*lua.LTable)
}

// CollectGarbageNonGrowing runs one bounded collection step, called at
// scheduler quiescence.
func (e *Engine) CollectGarbageNonGrowing() {
	if err := e.vm.DoString(`collectgarbage("step")`); err != nil {
		e.log.Warn("lua gc step failed", zap.Error(err))
	}
}

// Global returns a named global closure, or nil.
func (e *Engine) Global(name string) *lua.LFunction {
	if fn, ok := e.vm.GetGlobal(name).(*lua.LFunction); ok {
		return fn
	}
	return nil
}

func (e *Engine) Close() {
	e.vm.Close()
}
