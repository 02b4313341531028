package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dokzlo13/lightsample/internal/payload"
)

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(3, 4))
}

func TestRandom_FieldRanges(t *testing.T) {
	samples, err := Batch(Random{Rand: seeded()}, 500)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 500 {
		t.Fatalf("got %d samples, want 500", len(samples))
	}

	for i, s := range samples {
		serial := s.SerialNumber()
		if !strings.HasPrefix(serial, DefaultPrefix) || len(serial) != len(DefaultPrefix)+6 {
			t.Fatalf("sample %d serial = %q", i, serial)
		}
		for _, c := range serial[len(DefaultPrefix):] {
			if !strings.ContainsRune(alphanumeric, c) {
				t.Fatalf("sample %d serial %q has non-alphanumeric %q", i, serial, c)
			}
		}
		if s.Temperature() < 0 || s.Temperature() >= 100 {
			t.Errorf("sample %d temperature = %v", i, s.Temperature())
		}
		if s.Power() < 0 || s.Power() >= 100 {
			t.Errorf("sample %d power = %v", i, s.Power())
		}
		if s.DimLevel() < 0 || s.DimLevel() > 99 {
			t.Errorf("sample %d dim = %d", i, s.DimLevel())
		}
	}
}

func TestRandom_CustomPrefix(t *testing.T) {
	s, err := Random{Rand: seeded(), Prefix: "ABC-"}.Sample(0)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(s.SerialNumber(), "ABC-") {
		t.Errorf("serial = %q, want ABC- prefix", s.SerialNumber())
	}
}

func TestPatterned_TenLights(t *testing.T) {
	samples, err := Batch(Patterned{Rand: seeded()}, 10)
	if err != nil {
		t.Fatal(err)
	}

	data, err := payload.VerboseArrayJSON(samples)
	if err != nil {
		t.Fatal(err)
	}
	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		t.Fatal(err)
	}
	if len(objects) != 10 {
		t.Fatalf("got %d objects, want 10", len(objects))
	}

	seen := make(map[string]bool)
	for i, obj := range objects {
		wantSerial := fmt.Sprintf("LXA34-691E9%d", i)
		if obj["serialNumber"] != wantSerial {
			t.Errorf("object %d serialNumber = %v, want %s", i, obj["serialNumber"], wantSerial)
		}
		seen[wantSerial] = true

		want := map[string]any{"power": float64(0), "dimLevel": float64(0), "on": false}
		got := map[string]any{"power": obj["power"], "dimLevel": obj["dimLevel"], "on": obj["on"]}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("object %d constant fields (-want +got):\n%s", i, diff)
		}

		temp, _ := obj["temperature"].(float64)
		if temp < 0 || temp > 1 {
			t.Errorf("object %d temperature = %v, want [0, 1]", i, temp)
		}
	}
	if len(seen) != 10 {
		t.Errorf("serial numbers not distinct: %v", seen)
	}
}

func TestBatch_Deterministic(t *testing.T) {
	a, err := Batch(Random{Rand: rand.New(rand.NewPCG(9, 9))}, 20)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Batch(Random{Rand: rand.New(rand.NewPCG(9, 9))}, 20)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("sample %d differs under same seed: %s vs %s", i, a[i], b[i])
		}
	}
}

func TestBatch_Errors(t *testing.T) {
	boom := errors.New("boom")
	failing := PolicyFunc(func(i int) (payload.LightSample, error) {
		if i == 3 {
			return payload.LightSample{}, boom
		}
		return payload.New("x", 0, 0, 0, false)
	})

	tests := []struct {
		name    string
		policy  Policy
		count   int
		wantErr error
	}{
		{name: "policy_error", policy: failing, count: 5, wantErr: boom},
		{name: "too_large", policy: failing, count: payload.MaxBatch + 1, wantErr: payload.ErrBatchTooLarge},
		{name: "negative", policy: failing, count: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Batch(tt.policy, tt.count)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Batch() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestBatch_Empty(t *testing.T) {
	samples, err := Batch(Patterned{Rand: seeded()}, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(samples) != 0 {
		t.Errorf("got %d samples, want 0", len(samples))
	}
}

func TestNewRand_Seeded(t *testing.T) {
	if NewRand(5).Uint64() != NewRand(5).Uint64() {
		t.Error("NewRand with the same seed should repeat")
	}
}
