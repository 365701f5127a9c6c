package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/verte-zerg/codetype/internal/config"
	"github.com/verte-zerg/codetype/internal/lesson"
	"github.com/verte-zerg/codetype/internal/model"
	"github.com/verte-zerg/codetype/internal/stats"
)

func TestValidateConfigNormalizesMode(t *testing.T) {
	cfg := model.Config{Mode: " Practice ", FlashMs: 0}
	if err := validateConfig(&cfg); err != nil {
		t.Fatalf("validateConfig: %v", err)
	}
	if cfg.Mode != "practice" {
		t.Fatalf("expected practice, got %q", cfg.Mode)
	}

	cfg = model.Config{Mode: "zen"}
	if err := validateConfig(&cfg); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	cfg = model.Config{Mode: "strict", FlashMs: -1}
	if err := validateConfig(&cfg); err == nil {
		t.Fatalf("expected error for negative flash-ms")
	}
}

func TestValidateStatsConfig(t *testing.T) {
	if err := validateStatsConfig(model.StatsConfig{CurveWindow: 5}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateStatsConfig(model.StatsConfig{CurveWindow: 0}); err == nil {
		t.Fatalf("expected error for zero curve window")
	}
	if err := validateStatsConfig(model.StatsConfig{CurveWindow: 5, Last: -1}); err == nil {
		t.Fatalf("expected error for negative last")
	}
}

func TestResolveSince(t *testing.T) {
	since, err := resolveSince("")
	if err != nil || since != nil {
		t.Fatalf("expected nil since, got %v, %v", since, err)
	}
	since, err = resolveSince("2024-03-01")
	if err != nil {
		t.Fatalf("resolveSince: %v", err)
	}
	if since.Year() != 2024 || since.Month() != 3 || since.Day() != 1 {
		t.Fatalf("unexpected date %v", since)
	}
	if _, err := resolveSince("03/01/2024"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestPickLesson(t *testing.T) {
	catalog := lesson.NewCatalog(
		&lesson.Lesson{ID: "go-1", Language: "go", Code: "x", Order: 1},
		&lesson.Lesson{ID: "py-1", Language: "python", Code: "y", Order: 1},
	)
	l, err := pickLesson(catalog, "", "python")
	if err != nil || l.ID != "py-1" {
		t.Fatalf("expected py-1, got %v, %v", l, err)
	}
	l, err = pickLesson(catalog, "go-1", "python")
	if err != nil || l.ID != "go-1" {
		t.Fatalf("explicit id should win, got %v, %v", l, err)
	}
	if _, err := pickLesson(catalog, "missing", ""); !errors.Is(err, lesson.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := pickLesson(catalog, "", "rust"); err == nil {
		t.Fatalf("expected error for unknown language")
	}
}

func TestLoadCatalogFallsBackToBuiltin(t *testing.T) {
	catalog, err := loadCatalog(filepath.Join(t.TempDir(), "missing"))
	if err != nil {
		t.Fatalf("loadCatalog: %v", err)
	}
	if catalog.Count() == 0 {
		t.Fatalf("expected built-in lessons")
	}
}

func TestLoadCatalogEmptyDir(t *testing.T) {
	_, err := loadCatalog(t.TempDir())
	if !errors.Is(err, lesson.ErrEmptyCatalog) {
		t.Fatalf("expected ErrEmptyCatalog, got %v", err)
	}
}

func TestWriteCompiledMasksHidden(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCompiled(&buf, lesson.Compile("x := [[len]](s)\ny", nil)); err != nil {
		t.Fatalf("writeCompiled: %v", err)
	}
	want := "x := ___(s)\ny\n\n13 characters, 3 hidden\n"
	if buf.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteLessons(t *testing.T) {
	var buf bytes.Buffer
	if err := writeLessons(&buf, nil); err != nil {
		t.Fatalf("writeLessons: %v", err)
	}
	if buf.String() != "No lessons found.\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}

	buf.Reset()
	list := []*lesson.Lesson{{ID: "go-1", Language: "go", Title: "Intro", Mode: lesson.ModePractice}, {ID: "go-2", Language: "go"}}
	if err := writeLessons(&buf, list); err != nil {
		t.Fatalf("writeLessons: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[0], "practice") || !strings.HasSuffix(lines[0], "Intro") {
		t.Fatalf("unexpected first line %q", lines[0])
	}
	if !strings.HasSuffix(lines[1], "go-2") {
		t.Fatalf("title should fall back to id, got %q", lines[1])
	}
}

func TestWritePlainStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := writePlainStats(&buf, stats.Report{}, model.StatsConfig{CurveWindow: 5}, 40); err != nil {
		t.Fatalf("writePlainStats: %v", err)
	}
	if !strings.Contains(buf.String(), "No attempts found.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	uncomment := regexp.MustCompile(`(?m)^# ([a-z-]+ = )`)
	content := uncomment.ReplaceAllString(defaultConfigTemplate(), "$1")
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Practice.Mode == nil || *cfg.Practice.Mode != defaultMode {
		t.Fatalf("expected mode %q, got %v", defaultMode, cfg.Practice.Mode)
	}
	if cfg.Practice.FlashMs == nil || *cfg.Practice.FlashMs != defaultFlashMs {
		t.Fatalf("expected flash-ms %d, got %v", defaultFlashMs, cfg.Practice.FlashMs)
	}
	if cfg.Stats.TopErrors == nil || *cfg.Stats.TopErrors != defaultTopErrors {
		t.Fatalf("expected top-errors %d, got %v", defaultTopErrors, cfg.Stats.TopErrors)
	}
}

func TestResolveDBPath(t *testing.T) {
	custom := "/tmp/custom.db"
	if got := resolveDBPath(config.EnvConfig{DBPath: &custom}); got != custom {
		t.Fatalf("expected %s, got %s", custom, got)
	}
	if got := resolveDBPath(config.EnvConfig{}); got != config.DefaultDBPath() {
		t.Fatalf("expected default db path, got %s", got)
	}
}
