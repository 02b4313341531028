// Package scenario drives fixture generation from a declarative list of scenarios.
package scenario

import (
	"errors"
	"fmt"

	"github.com/dokzlo13/lightsample/internal/config"
	"github.com/dokzlo13/lightsample/internal/generate"
	"github.com/dokzlo13/lightsample/internal/payload"
)

// Kind selects what a scenario writes.
type Kind string

const (
	// KindSingle writes the fixed sample as <base>.bytes, <base>.bytes.hex and <base>.json.
	KindSingle Kind = "single"
	// KindCompact writes the fixed sample's compact JSON as <base>.json.
	KindCompact Kind = "compact"
	// KindBatch writes a generated batch as <base>.bytes and <base>.json.
	KindBatch Kind = "batch"
)

// Generation policies for batch scenarios.
const (
	PolicyRandom    = "random"
	PolicyPatterned = "patterned"
	PolicyScript    = "script"
)

// ErrUnknownKind is returned for scenario kinds the driver does not know.
var ErrUnknownKind = errors.New("unknown scenario kind")

// Descriptor declares one scenario. Adding a scenario is adding a descriptor.
type Descriptor struct {
	Name   string
	Kind   Kind
	Policy string
	Count  int
	Base   string
	Script string
	XLSX   bool
}

// FixedSample is the hard-coded light used by single and compact scenarios.
func FixedSample() payload.LightSample {
	return payload.MustNew("LXA34-691E90", 23.5, 50.5, 75, true)
}

// FromConfig converts configured scenarios in order.
func FromConfig(cfgs []config.ScenarioConfig) []Descriptor {
	out := make([]Descriptor, len(cfgs))
	for i, c := range cfgs {
		out[i] = Descriptor{
			Name:   c.Name,
			Kind:   Kind(c.Kind),
			Policy: c.Policy,
			Count:  c.Count,
			Base:   c.Base,
			Script: c.Script,
			XLSX:   c.XLSX,
		}
	}
	return out
}

// Validate checks the descriptor before any file is touched.
func (d Descriptor) Validate() error {
	if d.Base == "" {
		return fmt.Errorf("scenario %q: base filename is required", d.Name)
	}
	switch d.Kind {
	case KindSingle, KindCompact:
	case KindBatch:
		if d.Count < 0 || d.Count > payload.MaxBatch {
			return fmt.Errorf("scenario %q: %w: count %d", d.Name, payload.ErrBatchTooLarge, d.Count)
		}
		switch d.Policy {
		case PolicyRandom, PolicyPatterned:
		case PolicyScript:
			if d.Script == "" {
				return fmt.Errorf("scenario %q: script policy needs a script path", d.Name)
			}
		default:
			return fmt.Errorf("scenario %q: %w %q", d.Name, generate.ErrUnknownPolicy, d.Policy)
		}
	default:
		return fmt.Errorf("scenario %q: %w %q", d.Name, ErrUnknownKind, d.Kind)
	}
	return nil
}

// Outputs lists the primary files the scenario writes, in write order.
func (d Descriptor) Outputs() []string {
	switch d.Kind {
	case KindSingle:
		return []string{d.Base + ".bytes", d.Base + ".bytes.hex", d.Base + ".json"}
	case KindCompact:
		return []string{d.Base + ".json"}
	case KindBatch:
		return []string{d.Base + ".bytes", d.Base + ".json"}
	}
	return nil
}

// XLSXName is the spreadsheet view written when XLSX is set on a batch.
func (d Descriptor) XLSXName() string {
	return d.Base + ".xlsx"
}
