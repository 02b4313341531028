package lua

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	lua "github.com/yuin/gopher-lua"

	"github.com/dokzlo13/lightsample/internal/lua/modules"
	"github.com/dokzlo13/lightsample/internal/payload"
)

// ErrNoSampleFunc is returned when a script does not define sample(index).
var ErrNoSampleFunc = errors.New("lua script does not define function " + SampleFunc)

// Policy generates samples by calling the script's sample(index) function.
// The returned table must hold serial_number, temperature, power, dim_level and on.
type Policy struct {
	rt *Runtime
	fn *lua.LFunction
}

// NewPolicy loads the script at path and binds its sample function.
func NewPolicy(path string, rng *rand.Rand) (*Policy, error) {
	rt := NewRuntime(rng, path)
	if err := rt.LoadScript(); err != nil {
		rt.Close()
		return nil, err
	}
	return bind(rt)
}

// NewPolicyFromString is like NewPolicy for an inline script.
func NewPolicyFromString(src string, rng *rand.Rand) (*Policy, error) {
	rt := NewRuntime(rng, "<inline>")
	if err := rt.LoadString(src); err != nil {
		rt.Close()
		return nil, err
	}
	return bind(rt)
}

func bind(rt *Runtime) (*Policy, error) {
	fn, ok := rt.L.GetGlobal(SampleFunc).(*lua.LFunction)
	if !ok {
		rt.Close()
		return nil, ErrNoSampleFunc
	}
	return &Policy{rt: rt, fn: fn}, nil
}

// Sample implements generate.Policy.
func (p *Policy) Sample(i int) (payload.LightSample, error) {
	L := p.rt.L
	if err := L.CallByParam(lua.P{Fn: p.fn, NRet: 1, Protect: true}, lua.LNumber(i)); err != nil {
		return payload.LightSample{}, fmt.Errorf("lua %s(%d) failed: %w", SampleFunc, i, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return payload.LightSample{}, fmt.Errorf("lua %s(%d) returned %s, want table", SampleFunc, i, ret.Type())
	}
	return toSample(modules.LuaTableToMap(tbl))
}

// Close releases the underlying Lua state.
func (p *Policy) Close() {
	p.rt.Close()
}

func toSample(fields map[string]any) (payload.LightSample, error) {
	serial, err := field[string](fields, "serial_number")
	if err != nil {
		return payload.LightSample{}, err
	}
	temperature, err := field[float64](fields, "temperature")
	if err != nil {
		return payload.LightSample{}, err
	}
	power, err := field[float64](fields, "power")
	if err != nil {
		return payload.LightSample{}, err
	}
	dim, err := field[float64](fields, "dim_level")
	if err != nil {
		return payload.LightSample{}, err
	}
	if dim != math.Trunc(dim) || dim < math.MinInt16 || dim > math.MaxInt16 {
		return payload.LightSample{}, fmt.Errorf("%w: dim_level %v is not an int16", payload.ErrInvalidSample, dim)
	}
	on, err := field[bool](fields, "on")
	if err != nil {
		return payload.LightSample{}, err
	}
	return payload.New(serial, float32(temperature), float32(power), int16(dim), on)
}

func field[T any](fields map[string]any, name string) (T, error) {
	var zero T
	raw, ok := fields[name]
	if !ok || raw == nil {
		return zero, fmt.Errorf("%w: missing field %q", payload.ErrInvalidSample, name)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("%w: field %q has type %T, want %T", payload.ErrInvalidSample, name, raw, zero)
	}
	return v, nil
}
