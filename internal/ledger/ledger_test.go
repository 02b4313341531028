package ledger

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dokzlo13/lightsample/internal/db"
)

func openLedger(t *testing.T) *Ledger {
	t.Helper()
	database, err := db.Open(filepath.Join(t.TempDir(), "ledger.sqlite"))
	if err != nil {
		t.Fatalf("db.Open: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return New(database.DB)
}

func TestLedger_AppendAndGetByRun(t *testing.T) {
	l := openLedger(t)

	entries := []Entry{
		{RunID: "run-1", EventType: EventArtifactWritten, Scenario: "single-light", Path: "light.bytes", Size: 23, SHA256: "abc"},
		{RunID: "run-1", EventType: EventArtifactCompressed, Scenario: "single-light", Path: "light.bytes.gzip", Size: 40},
		{RunID: "run-2", EventType: EventArtifactWritten, Scenario: "single-light", Path: "light.bytes", Size: 23, SHA256: "abc"},
		{RunID: "run-1", EventType: EventScenarioCompleted, Scenario: "single-light", Payload: map[string]any{"files": float64(2)}},
	}
	for _, e := range entries {
		if err := l.Append(e); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	got, err := l.GetByRun("run-1")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("GetByRun returned %d entries, want 3", len(got))
	}
	if got[0].EventType != EventArtifactWritten || got[0].SHA256 != "abc" || got[0].Size != 23 {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[2].Payload["files"] != float64(2) {
		t.Errorf("payload = %v", got[2].Payload)
	}
	if got[2].Path != "" {
		t.Errorf("scenario entry path = %q, want empty", got[2].Path)
	}
}

func TestLedger_LatestForPath(t *testing.T) {
	l := openLedger(t)

	if e, err := l.LatestForPath("light.json"); err != nil || e != nil {
		t.Fatalf("LatestForPath on empty ledger = %v, %v", e, err)
	}

	for _, run := range []string{"a", "b"} {
		if err := l.Append(Entry{RunID: run, EventType: EventArtifactWritten, Scenario: "s", Path: "light.json"}); err != nil {
			t.Fatal(err)
		}
	}

	e, err := l.LatestForPath("light.json")
	if err != nil {
		t.Fatal(err)
	}
	if e == nil || e.RunID != "b" {
		t.Errorf("LatestForPath = %+v, want run b", e)
	}
}

func TestLedger_DeleteOlderThan(t *testing.T) {
	l := openLedger(t)
	now := time.Now()

	old := Entry{RunID: "old", EventType: EventArtifactWritten, Scenario: "s", Timestamp: now.Add(-48 * time.Hour)}
	fresh := Entry{RunID: "fresh", EventType: EventArtifactWritten, Scenario: "s", Timestamp: now}
	for _, e := range []Entry{old, fresh} {
		if err := l.Append(e); err != nil {
			t.Fatal(err)
		}
	}

	n, err := l.DeleteOlderThan(24 * time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Errorf("deleted %d rows, want 1", n)
	}
	if got, _ := l.GetByRun("fresh"); len(got) != 1 {
		t.Errorf("fresh entries = %d, want 1", len(got))
	}
}
