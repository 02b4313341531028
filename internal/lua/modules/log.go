package modules

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	lua "github.com/yuin/gopher-lua"
)

// LogModule provides logging functions to Lua
type LogModule struct {
	script string
}

// NewLogModule creates a new log module. Every line carries the script path.
func NewLogModule(script string) *LogModule {
	return &LogModule{script: script}
}

// Loader is the module loader for Lua
func (m *LogModule) Loader(L *lua.LState) int {
	mod := L.NewTable()

	L.SetField(mod, "debug", L.NewFunction(m.level(zerolog.DebugLevel)))
	L.SetField(mod, "info", L.NewFunction(m.level(zerolog.InfoLevel)))
	L.SetField(mod, "warn", L.NewFunction(m.level(zerolog.WarnLevel)))
	L.SetField(mod, "error", L.NewFunction(m.level(zerolog.ErrorLevel)))

	L.Push(mod)
	return 1
}

func (m *LogModule) level(lvl zerolog.Level) lua.LGFunction {
	return func(L *lua.LState) int {
		msg := L.CheckString(1)

		event := log.WithLevel(lvl).Str("source", "lua").Str("script", m.script)
		if tbl, ok := L.Get(2).(*lua.LTable); ok {
			for k, v := range LuaTableToMap(tbl) {
				event = event.Interface(k, v)
			}
		}
		event.Msg(msg)

		return 0
	}
}
