package scenario

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/lightsample/internal/compress"
	"github.com/dokzlo13/lightsample/internal/generate"
	"github.com/dokzlo13/lightsample/internal/ledger"
	"github.com/dokzlo13/lightsample/internal/lua"
	"github.com/dokzlo13/lightsample/internal/metrics"
	"github.com/dokzlo13/lightsample/internal/output"
	"github.com/dokzlo13/lightsample/internal/payload"
)

// Options configures a Runner.
type Options struct {
	RunID        string
	Writer       *output.Writer
	Encoder      payload.Encoder
	Rand         *rand.Rand
	SerialPrefix string
	Compress     bool
	GzipLevel    int
	Ledger       *ledger.Ledger   // optional
	Metrics      *metrics.Metrics // optional
}

// Result summarizes one scenario.
type Result struct {
	Scenario   string
	Samples    int
	Written    []output.Artifact
	Compressed []string
	Failed     []string
}

// Runner executes scenarios sequentially against one output directory.
type Runner struct {
	opts Options
	gzip func(path string, level int) (string, error)
}

// NewRunner creates a runner.
func NewRunner(opts Options) *Runner {
	if opts.Rand == nil {
		opts.Rand = generate.NewRand(0)
	}
	return &Runner{opts: opts, gzip: compress.Gzip}
}

// Run executes descriptors in order and stops at the first fatal error.
// Compression failures are logged and never stop the run.
func (r *Runner) Run(ctx context.Context, descriptors []Descriptor) ([]Result, error) {
	results := make([]Result, 0, len(descriptors))
	for _, d := range descriptors {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res, err := r.RunOne(d)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

// RunOne deletes the scenario's previous outputs (compressed siblings
// included), regenerates them and compresses each written file.
func (r *Runner) RunOne(d Descriptor) (Result, error) {
	start := time.Now()
	res := Result{Scenario: d.Name}

	if err := d.Validate(); err != nil {
		return res, err
	}

	names := d.Outputs()
	stale := make([]string, 0, 2*len(names)+1)
	for _, name := range names {
		stale = append(stale, name, name+compress.Suffix)
	}
	if d.Kind == KindBatch && d.XLSX {
		stale = append(stale, d.XLSXName())
	}
	if err := r.opts.Writer.Remove(stale...); err != nil {
		return res, err
	}

	samples, err := r.samples(d)
	if err != nil {
		return res, fmt.Errorf("scenario %q: %w", d.Name, err)
	}
	res.Samples = len(samples)

	files, err := r.encode(d, samples)
	if err != nil {
		return res, fmt.Errorf("scenario %q: %w", d.Name, err)
	}

	for i, name := range names {
		a, err := r.opts.Writer.Write(name, files[i])
		if err != nil {
			return res, fmt.Errorf("scenario %q: %w", d.Name, err)
		}
		res.Written = append(res.Written, a)
		r.recordWritten(d, a)
	}

	if d.Kind == KindBatch && d.XLSX {
		data, err := output.BuildXLSX(samples)
		if err != nil {
			return res, fmt.Errorf("scenario %q: failed to build xlsx: %w", d.Name, err)
		}
		a, err := r.opts.Writer.Write(d.XLSXName(), data)
		if err != nil {
			return res, fmt.Errorf("scenario %q: %w", d.Name, err)
		}
		res.Written = append(res.Written, a)
		r.recordWritten(d, a)
	}

	if r.opts.Compress {
		for _, name := range names {
			r.compress(d, r.opts.Writer.Path(name), &res)
		}
	}

	elapsed := time.Since(start)
	if r.opts.Metrics != nil {
		r.opts.Metrics.SamplesGenerated(d.Name, len(samples))
		r.opts.Metrics.ObserveScenario(d.Name, elapsed)
	}
	r.appendLedger(ledger.Entry{
		EventType: ledger.EventScenarioCompleted,
		Scenario:  d.Name,
		Payload: map[string]any{
			"samples":    len(samples),
			"written":    len(res.Written),
			"compressed": len(res.Compressed),
			"failed":     len(res.Failed),
		},
	})

	log.Info().
		Str("scenario", d.Name).
		Int("samples", len(samples)).
		Int("files", len(res.Written)).
		Int("compression_failures", len(res.Failed)).
		Dur("elapsed", elapsed).
		Msg("Scenario completed")

	return res, nil
}

func (r *Runner) samples(d Descriptor) ([]payload.LightSample, error) {
	if d.Kind != KindBatch {
		return []payload.LightSample{FixedSample()}, nil
	}

	policy, closeFn, err := r.policy(d)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	return generate.Batch(policy, d.Count)
}

func (r *Runner) policy(d Descriptor) (generate.Policy, func(), error) {
	noop := func() {}
	switch d.Policy {
	case PolicyRandom:
		return generate.Random{Rand: r.opts.Rand, Prefix: r.opts.SerialPrefix}, noop, nil
	case PolicyPatterned:
		return generate.Patterned{Rand: r.opts.Rand, Prefix: r.opts.SerialPrefix}, noop, nil
	case PolicyScript:
		p, err := lua.NewPolicy(d.Script, r.opts.Rand)
		if err != nil {
			return nil, noop, err
		}
		return p, p.Close, nil
	}
	return nil, noop, fmt.Errorf("%w %q", generate.ErrUnknownPolicy, d.Policy)
}

// encode returns file contents in the order of d.Outputs().
func (r *Runner) encode(d Descriptor, samples []payload.LightSample) ([][]byte, error) {
	enc := r.opts.Encoder

	switch d.Kind {
	case KindSingle:
		s := samples[0]
		raw := enc.Sample(s)
		js, err := payload.VerboseJSON(s)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json: %w", err)
		}
		return [][]byte{raw, []byte(payload.HexDump(raw)), js}, nil

	case KindCompact:
		js, err := payload.CompactJSON(samples[0])
		if err != nil {
			return nil, fmt.Errorf("failed to encode compact json: %w", err)
		}
		return [][]byte{js}, nil

	case KindBatch:
		raw, err := enc.Batch(samples)
		if err != nil {
			return nil, fmt.Errorf("failed to encode batch: %w", err)
		}
		js, err := payload.VerboseArrayJSON(samples)
		if err != nil {
			return nil, fmt.Errorf("failed to encode json array: %w", err)
		}
		return [][]byte{raw, js}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownKind, d.Kind)
}

func (r *Runner) compress(d Descriptor, path string, res *Result) {
	out, err := r.gzip(path, r.opts.GzipLevel)
	if err != nil {
		log.Warn().Err(err).Str("scenario", d.Name).Str("path", path).Msg("Failed to compress fixture, continuing")
		res.Failed = append(res.Failed, path)
		if r.opts.Metrics != nil {
			r.opts.Metrics.CompressionFailed()
		}
		r.appendLedger(ledger.Entry{
			EventType: ledger.EventCompressionFailed,
			Scenario:  d.Name,
			Path:      path,
			Payload:   map[string]any{"error": err.Error()},
		})
		return
	}

	res.Compressed = append(res.Compressed, out)
	if r.opts.Metrics != nil {
		r.opts.Metrics.FileCompressed()
	}
	entry := ledger.Entry{EventType: ledger.EventArtifactCompressed, Scenario: d.Name, Path: out}
	if info, err := os.Stat(out); err == nil {
		entry.Size = info.Size()
	}
	r.appendLedger(entry)
	log.Debug().Str("scenario", d.Name).Str("path", out).Msg("Compressed fixture")
}

func (r *Runner) recordWritten(d Descriptor, a output.Artifact) {
	if r.opts.Metrics != nil {
		r.opts.Metrics.FileWritten(a.Format(), a.Size)
	}
	entry := ledger.Entry{
		EventType: ledger.EventArtifactWritten,
		Scenario:  d.Name,
		Path:      a.Path,
		Size:      int64(a.Size),
		SHA256:    a.SHA256,
	}
	if prev := r.previous(a.Path); prev != nil && prev.SHA256 == a.SHA256 {
		entry.Payload = map[string]any{"unchanged": true, "previous_run": prev.RunID}
		log.Debug().Str("scenario", d.Name).Str("path", a.Path).Str("previous_run", prev.RunID).Msg("Fixture unchanged since previous run")
	}
	r.appendLedger(entry)
	log.Debug().Str("scenario", d.Name).Str("path", a.Path).Int("bytes", a.Size).Msg("Wrote fixture")
}

// previous returns the last ledger record of a written path, if any.
func (r *Runner) previous(path string) *ledger.Entry {
	if r.opts.Ledger == nil {
		return nil
	}
	prev, err := r.opts.Ledger.LatestForPath(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Failed to look up previous ledger entry")
		return nil
	}
	return prev
}

// appendLedger records an entry. The ledger is bookkeeping, so failures only warn.
func (r *Runner) appendLedger(e ledger.Entry) {
	if r.opts.Ledger == nil {
		return
	}
	e.RunID = r.opts.RunID
	if err := r.opts.Ledger.Append(e); err != nil {
		log.Warn().Err(err).Str("scenario", e.Scenario).Msg("Failed to append ledger entry")
	}
}
