package output

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/dokzlo13/lightsample/internal/payload"
)

func TestWriter_WriteAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}

	a, err := w.Write("light.bytes.hex", []byte("4C 58 "))
	if err != nil {
		t.Fatal(err)
	}
	if a.Path != filepath.Join(dir, "light.bytes.hex") || a.Size != 6 {
		t.Errorf("artifact = %+v", a)
	}
	if a.Format() != "hex" {
		t.Errorf("Format() = %q, want hex", a.Format())
	}
	if len(a.SHA256) != 64 {
		t.Errorf("SHA256 = %q", a.SHA256)
	}

	if err := w.Remove("light.bytes.hex", "never-written.json"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(a.Path); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}
}

func TestWriter_Overwrite(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write("light.json", []byte("a much longer first version")); err != nil {
		t.Fatal(err)
	}
	a, err := w.Write("light.json", []byte("short"))
	if err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(a.Path)
	if !bytes.Equal(data, []byte("short")) {
		t.Errorf("file = %q, want truncated overwrite", data)
	}
}

func TestBuildXLSX(t *testing.T) {
	samples := []payload.LightSample{
		payload.MustNew("LXA34-691E90", 23.456, 50.5, 75, true),
		payload.MustNew("LXA34-691E91", 0.5, 0, 0, false),
	}

	data, err := BuildXLSX(samples)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := f.GetRows(lightsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header + 2", len(rows))
	}
	if rows[0][0] != "serialNumber" || rows[1][0] != "LXA34-691E90" || rows[2][0] != "LXA34-691E91" {
		t.Errorf("serial column = %v / %v / %v", rows[0][0], rows[1][0], rows[2][0])
	}
	if rows[1][1] != "23.46" {
		t.Errorf("temperature cell = %q, want rounded 23.46", rows[1][1])
	}
	if rows[2][3] != "0" {
		t.Errorf("dimLevel cell = %q, want 0", rows[2][3])
	}
}
