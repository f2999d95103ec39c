package artifact

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileName(t *testing.T) {
	key := "1234567-89.2023.8.26.0100"
	if got, want := FileName(key, PhaseInitial, "20240101_120000"), "1234567-89.2023.8.26.0100_20240101_120000.txt"; got != want {
		t.Errorf("initial = %q, want %q", got, want)
	}
	if got, want := FileName(key, PhaseImproved, "20240101_120000"), "1234567-89.2023.8.26.0100_improved_20240101_120000.txt"; got != want {
		t.Errorf("improved = %q, want %q", got, want)
	}
}

func TestTimestamp(t *testing.T) {
	ts := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	if got := Timestamp(ts); got != "20240101_120000" {
		t.Errorf("Timestamp = %q", got)
	}
}

func TestNamingKey(t *testing.T) {
	tests := []struct {
		identifier string
		path       string
		want       string
	}{
		{"1234567-89.2023.8.26.0100", "/docs/caso.pdf", "1234567-89.2023.8.26.0100"},
		{"", "/docs/caso.pdf", "caso"},
		{"", "docs/Recurso Inominado (1).pdf", "Recurso_Inominado_(1)"},
		{"", "docs/apelação.PDF", "apelação"},
		{"", "docs/a:b|c?.pdf", "a_b_c"},
		{"", "docs/.pdf", "document"},
		{"   ", "x/y/z.pdf", "z"},
	}
	for _, tt := range tests {
		if got := NamingKey(tt.identifier, tt.path); got != tt.want {
			t.Errorf("NamingKey(%q, %q) = %q, want %q", tt.identifier, tt.path, got, tt.want)
		}
	}
}

func TestSanitize(t *testing.T) {
	for in, want := range map[string]string{
		"../../etc/passwd": "etc_passwd",
		"..":               "document",
		"":                 "document",
		"ok-name_1.2":      "ok-name_1.2",
		"tab\tand\nnl":     "tab_and_nl",
	} {
		if got := Sanitize(in); got != want {
			t.Errorf("Sanitize(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriterWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "responses")
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}

	a, err := w.Write("caso", PhaseInitial, "Resumo A", "20240101_120000")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if a.Path != filepath.Join(dir, "caso_20240101_120000.txt") {
		t.Errorf("Path = %q", a.Path)
	}
	data, err := os.ReadFile(a.Path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "Resumo A" || a.Bytes != len("Resumo A") {
		t.Errorf("content = %q (%d bytes)", data, a.Bytes)
	}
}

func TestWriterKeyMatchesPath(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	a, err := w.Write("recurso: final/v2", PhaseImproved, "x", "20240101_120000")
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if a.Key != "recurso_final_v2" {
		t.Errorf("Key = %q", a.Key)
	}
	if want := filepath.Join(dir, FileName(a.Key, PhaseImproved, "20240101_120000")); a.Path != want {
		t.Errorf("Path = %q, want %q", a.Path, want)
	}
}

func TestWriterNeverOverwrites(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	first, err := w.Write("caso", PhaseImproved, "first", "20240101_120000")
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.Write("caso", PhaseImproved, "second", "20240101_120000")
	if !errors.Is(err, ErrExists) {
		t.Fatalf("second write: got %v, want ErrExists", err)
	}
	data, _ := os.ReadFile(first.Path)
	if string(data) != "first" {
		t.Errorf("file was overwritten: %q", data)
	}

	if _, err := w.Write("caso", PhaseImproved, "later run", "20240101_120001"); err != nil {
		t.Errorf("write with new timestamp: %v", err)
	}
}

func TestNewWriterRequiresDir(t *testing.T) {
	if _, err := NewWriter(" "); err == nil {
		t.Fatal("expected error for empty dir")
	}
}

func TestWriteFailsOnUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.RemoveAll(dir); err != nil {
		t.Fatal(err)
	}
	if _, err := w.Write("caso", PhaseInitial, "x", "20240101_120000"); err == nil {
		t.Fatal("expected error when output dir is gone")
	}
}
