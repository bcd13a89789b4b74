// Package script embeds the Lua runtime and exposes the driftwm
// scripting surface: a drift global with the configuration proxy under
// drift.config and the live-state queries under drift.state.
//
// gopher-lua's LState is not goroutine-safe. An Env belongs to the
// event-loop goroutine; every evaluation, whether triggered by an event
// callback, a timer, IPC, or the REPL, must be posted there.
package script

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/driftwm/driftwm/internal/config"
	"github.com/driftwm/driftwm/internal/state"
)

// Env is one scripting environment: a sandboxed Lua state wired to a
// config state and a live-state handle.
type Env struct {
	L     *lua.LState
	store *config.State
	state state.Handle
	log   *zap.Logger
}

// Option configures an Env.
type Option func(*Env)

// WithLogger sets the environment logger.
func WithLogger(log *zap.Logger) Option {
	return func(e *Env) { e.log = log }
}

// WithStateHandle installs the live-state handle queried by drift.state.
func WithStateHandle(h state.Handle) Option {
	return func(e *Env) { e.state = h }
}

// New creates an Env over a config state and builds the drift global.
func New(store *config.State, opts ...Option) (*Env, error) {
	if store == nil {
		return nil, fmt.Errorf("script: config state is required")
	}

	e := &Env{
		store: store,
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	e.L = L
	openSafeLibraries(L)

	registerProxyType(L, e)

	drift := L.NewTable()
	L.SetField(drift, "config", newProxy(L, ""))
	L.SetField(drift, "state", e.buildStateModule(L))
	L.SetGlobal("drift", drift)

	return e, nil
}

// openSafeLibraries opens only the Lua standard libraries scripting code
// needs. io, os, debug, and package stay closed: configuration scripts
// have no business touching the file system or the sandbox.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// Eval runs a chunk of Lua source. Script errors come back as ordinary
// errors; they never crash the host.
func (e *Env) Eval(src string) error {
	if err := e.L.DoString(src); err != nil {
		e.log.Debug("script error", zap.Error(err))
		return err
	}
	return nil
}

// EvalFile runs a Lua file.
func (e *Env) EvalFile(path string) error {
	return e.L.DoFile(path)
}

// Store returns the config state the environment mutates.
func (e *Env) Store() *config.State {
	return e.store
}

// Close releases the Lua state.
func (e *Env) Close() {
	e.L.Close()
}
