package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/verte-zerg/typetrack/internal/model"
	"github.com/verte-zerg/typetrack/internal/stats"
)

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := newRootCmd()
	if err := cmd.Flags().Set("words", "10"); err != nil {
		t.Fatalf("set flag: %v", err)
	}
	fromFile := 40
	words := 10
	applyConfig(cmd, "words", &words, &fromFile)
	if words != 10 {
		t.Fatalf("expected explicit flag to win, got %d", words)
	}
	caps := 0.5
	fileCaps := 0.2
	applyConfig(cmd, "caps", &caps, &fileCaps)
	if caps != 0.2 {
		t.Fatalf("expected config value for unset flag, got %v", caps)
	}
	applyConfig[float64](cmd, "caps", &caps, nil)
	if caps != 0.2 {
		t.Fatalf("expected nil config value to be ignored, got %v", caps)
	}
}

func TestValidateConfig(t *testing.T) {
	valid := model.Config{Words: 5, CapsPct: 0.5, PunctPct: 0.5, PunctSet: ".,"}
	if err := validateConfig(valid); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
	bad := valid
	bad.CapsPct = 2
	if err := validateConfig(bad); err == nil || !strings.Contains(err.Error(), "--caps") {
		t.Fatalf("expected caps error, got %v", err)
	}
	bad = valid
	bad.Words = 0
	if err := validateConfig(bad); err == nil {
		t.Fatalf("expected words error")
	}
}

func TestBuildSourceFromTextFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "text.txt")
	if err := os.WriteFile(path, []byte("Hello there.\n\nSecond one."), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	source, words, err := buildSource(model.Config{TextFile: path, Words: 3})
	if err != nil {
		t.Fatalf("build source: %v", err)
	}
	if words != nil {
		t.Fatalf("expected no word source for text file")
	}
	text, _ := source.Next()
	if text != "Hello there." {
		t.Fatalf("unexpected text %q", text)
	}
}

func TestBuildSourceFromWordList(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "typetrack", "wordlists")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "en.txt"), []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	source, words, err := buildSource(model.Config{Lang: "en", Words: 4})
	if err != nil {
		t.Fatalf("build source: %v", err)
	}
	if words == nil || source.Name() != "en" {
		t.Fatalf("expected word source named en")
	}
	text, _ := source.Next()
	if len(strings.Fields(text)) != 4 {
		t.Fatalf("expected 4 words, got %q", text)
	}

	_, _, err = buildSource(model.Config{Lang: "xx", Words: 4})
	if err == nil || !strings.Contains(err.Error(), "Place a newline-separated word list") {
		t.Fatalf("expected word list hint, got %v", err)
	}
}

func TestBuildSourceFallsBackToBundledList(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	source, words, err := buildSource(model.Config{Lang: "en", Words: 6})
	if err != nil {
		t.Fatalf("build source without installed list: %v", err)
	}
	if words == nil || source.Name() != "en" {
		t.Fatalf("expected bundled word source named en")
	}
	text, _ := source.Next()
	if len(strings.Fields(text)) != 6 {
		t.Fatalf("expected 6 words, got %q", text)
	}
}

func TestListLangs(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"fr.txt", "en.txt", "notes.md"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x\n"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	langs, err := listLangs(dir)
	if err != nil {
		t.Fatalf("list langs: %v", err)
	}
	if diff := cmp.Diff([]string{"en", "fr"}, langs); diff != "" {
		t.Fatalf("langs mismatch (-want +got):\n%s", diff)
	}
	langs, err = listLangs(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("list langs without directory: %v", err)
	}
	if diff := cmp.Diff([]string{"en"}, langs); diff != "" {
		t.Fatalf("bundled langs mismatch (-want +got):\n%s", diff)
	}
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	report := stats.Report{
		Results: []model.ResultAggregate{
			{ResultID: 1, Correct: 100, Incorrect: 5, DurationMs: 60000},
			{ResultID: 2, Correct: 200, Incorrect: 5, DurationMs: 60000},
		},
		CharAggsWindow: []model.CharAggregate{{Char: "q", Typed: 4, Incorrect: 2}},
	}
	if err := writeReport(&buf, report, model.StatsConfig{CurveWindow: 1, WeakTop: 5}, 80); err != nil {
		t.Fatalf("write report: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Exercises: 2", "WPM trend", "Per-Character", "50.00%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}
