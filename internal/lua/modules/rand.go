package modules

import (
	"math/rand/v2"

	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/lightsample/internal/generate"
)

// RandModule exposes the injected random source to Lua so scripted
// policies stay reproducible under a fixed seed.
type RandModule struct {
	rng *rand.Rand
}

// NewRandModule creates a new rand module
func NewRandModule(rng *rand.Rand) *RandModule {
	return &RandModule{rng: rng}
}

// Loader is the module loader for Lua
func (m *RandModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "float", L.NewFunction(m.float))
	L.SetField(mod, "int", L.NewFunction(m.intn))
	L.SetField(mod, "bool", L.NewFunction(m.boolean))
	L.SetField(mod, "alnum", L.NewFunction(m.alnum))

	L.Push(mod)
	return 1
}

// float() - uniform in [0, 1)
func (m *RandModule) float(L *lua.LState) int {
	L.Push(lua.LNumber(m.rng.Float32()))
	return 1
}

// int(n) - uniform integer in [0, n)
func (m *RandModule) intn(L *lua.LState) int {
	n := L.CheckInt(1)
	if n <= 0 {
		L.ArgError(1, "n must be positive")
		return 0
	}
	L.Push(lua.LNumber(m.rng.IntN(n)))
	return 1
}

func (m *RandModule) boolean(L *lua.LState) int {
	L.Push(lua.LBool(m.rng.IntN(2) == 1))
	return 1
}

// alnum(n) - n characters from [A-Za-z0-9]
func (m *RandModule) alnum(L *lua.LState) int {
	n := L.CheckInt(1)
	if n < 0 {
		L.ArgError(1, "n must not be negative")
		return 0
	}
	L.Push(lua.LString(generate.Alphanumeric(m.rng, n)))
	return 1
}
