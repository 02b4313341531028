// Package lua runs user scripts that define how samples are generated.
package lua

import (
	"fmt"
	"math/rand/v2"

	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/lightsample/internal/lua/modules"
)

// SampleFunc is the global function a policy script must define.
const SampleFunc = "sample"

// Runtime owns one Lua VM. It is not safe for concurrent use; the
// scenario driver calls it from a single goroutine.
type Runtime struct {
	L      *lua.LState
	rng    *rand.Rand
	script string
}

// NewRuntime creates a Lua VM with the rand and log modules preloaded.
func NewRuntime(rng *rand.Rand, script string) *Runtime {
	L := lua.NewState()

	r := &Runtime{
		L:      L,
		rng:    rng,
		script: script,
	}
	r.registerModules()

	return r
}

// registerModules registers all Lua modules
func (r *Runtime) registerModules() {
	r.L.PreloadModule("log", modules.NewLogModule(r.script).Loader)
	r.L.PreloadModule("rand", modules.NewRandModule(r.rng).Loader)
}

// LoadScript loads and executes the script file the runtime was created for.
func (r *Runtime) LoadScript() error {
	log.Debug().Str("path", r.script).Msg("Loading Lua policy script")

	if err := r.L.DoFile(r.script); err != nil {
		return fmt.Errorf("failed to execute Lua script %s: %w", r.script, err)
	}
	return nil
}

// LoadString executes src as the policy script.
func (r *Runtime) LoadString(src string) error {
	if err := r.L.DoString(src); err != nil {
		return fmt.Errorf("failed to execute Lua script: %w", err)
	}
	return nil
}

// Close releases the Lua state.
func (r *Runtime) Close() {
	r.L.Close()
}
