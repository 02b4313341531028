// Package generate builds batches of light samples under a generation policy.
package generate

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/dokzlo13/lightsample/internal/payload"
)

// DefaultPrefix is the serial number prefix of generated lights.
const DefaultPrefix = "LXA34-"

// PatternInfix follows the prefix in patterned serial numbers.
const PatternInfix = "691E9"

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// ErrUnknownPolicy is returned for policy names that are not registered.
var ErrUnknownPolicy = errors.New("unknown generation policy")

// Policy produces the sample at a given batch index.
type Policy interface {
	Sample(i int) (payload.LightSample, error)
}

// PolicyFunc adapts a function to Policy.
type PolicyFunc func(i int) (payload.LightSample, error)

// Sample implements Policy.
func (f PolicyFunc) Sample(i int) (payload.LightSample, error) {
	return f(i)
}

// Batch produces count samples in index order.
func Batch(p Policy, count int) ([]payload.LightSample, error) {
	if count < 0 {
		return nil, fmt.Errorf("negative sample count %d", count)
	}
	if count > payload.MaxBatch {
		return nil, fmt.Errorf("%w: %d samples", payload.ErrBatchTooLarge, count)
	}

	samples := make([]payload.LightSample, 0, count)
	for i := 0; i < count; i++ {
		s, err := p.Sample(i)
		if err != nil {
			return nil, fmt.Errorf("failed to generate sample %d: %w", i, err)
		}
		samples = append(samples, s)
	}
	return samples, nil
}

// Random draws every field uniformly.
type Random struct {
	Rand   *rand.Rand
	Prefix string
}

// Sample implements Policy.
func (p Random) Sample(int) (payload.LightSample, error) {
	return payload.New(
		prefixOr(p.Prefix)+Alphanumeric(p.Rand, 6),
		p.Rand.Float32()*100,
		p.Rand.Float32()*100,
		int16(p.Rand.IntN(100)),
		p.Rand.IntN(2) == 1,
	)
}

// Patterned derives the serial number from the index and keeps the other
// fields near-constant: only temperature varies, within [0, 1).
type Patterned struct {
	Rand   *rand.Rand
	Prefix string
}

// Sample implements Policy.
func (p Patterned) Sample(i int) (payload.LightSample, error) {
	return payload.New(
		prefixOr(p.Prefix)+PatternInfix+strconv.Itoa(i),
		p.Rand.Float32(),
		0,
		0,
		false,
	)
}

// Alphanumeric returns n characters drawn uniformly from [A-Za-z0-9].
func Alphanumeric(r *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = alphanumeric[r.IntN(len(alphanumeric))]
	}
	return string(b)
}

// NewRand returns a seeded source. A zero seed picks one from the clock.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}

func prefixOr(prefix string) string {
	if prefix == "" {
		return DefaultPrefix
	}
	return prefix
}
