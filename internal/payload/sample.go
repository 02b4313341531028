// Package payload holds the light sample entity and its wire encodings.
package payload

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSample is returned when a sample is built from missing or non-finite fields.
	ErrInvalidSample = errors.New("invalid light sample")
	// ErrBatchTooLarge is returned when a batch length does not fit the uint16 count prefix.
	ErrBatchTooLarge = errors.New("batch too large")
)

// MaxBatch is the largest batch the count prefix can describe.
const MaxBatch = math.MaxUint16

// LightSample is one simulated light device state. Fields are set once by New.
type LightSample struct {
	serialNumber string
	temperature  float32
	power        float32
	dimLevel     int16
	on           bool
}

// New validates and builds a sample.
func New(serialNumber string, temperature, power float32, dimLevel int16, on bool) (LightSample, error) {
	if serialNumber == "" {
		return LightSample{}, fmt.Errorf("%w: empty serial number", ErrInvalidSample)
	}
	if !finite(temperature) {
		return LightSample{}, fmt.Errorf("%w: temperature %v", ErrInvalidSample, temperature)
	}
	if !finite(power) {
		return LightSample{}, fmt.Errorf("%w: power %v", ErrInvalidSample, power)
	}
	return LightSample{
		serialNumber: serialNumber,
		temperature:  temperature,
		power:        power,
		dimLevel:     dimLevel,
		on:           on,
	}, nil
}

// MustNew is like New but panics on invalid input. Intended for hard-coded fixtures.
func MustNew(serialNumber string, temperature, power float32, dimLevel int16, on bool) LightSample {
	s, err := New(serialNumber, temperature, power, dimLevel, on)
	if err != nil {
		panic(err)
	}
	return s
}

func finite(v float32) bool {
	f := float64(v)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (s LightSample) SerialNumber() string { return s.serialNumber }
func (s LightSample) Temperature() float32 { return s.temperature }
func (s LightSample) Power() float32 { return s.power }
func (s LightSample) DimLevel() int16 { return s.dimLevel }
func (s LightSample) On() bool { return s.on }

// String implements fmt.Stringer for log output.
func (s LightSample) String() string {
	return fmt.Sprintf("%s(temp=%.2f power=%.2f dim=%d on=%t)",
		s.serialNumber, s.temperature, s.power, s.dimLevel, s.on)
}
