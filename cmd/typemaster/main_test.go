package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/typemaster/internal/config"
	"github.com/verte-zerg/typemaster/internal/leaderboard"
	"github.com/verte-zerg/typemaster/internal/model"
	"github.com/verte-zerg/typemaster/internal/textsource"
)

func TestParseMode(t *testing.T) {
	cases := []struct {
		kind     string
		duration int
		want     model.Mode
		wantErr  bool
	}{
		{"quote", 60, model.QuoteMode(), false},
		{"", 0, model.QuoteMode(), false},
		{"timed", 120, model.TimedMode(120), false},
		{"TIMED", 300, model.TimedMode(300), false},
		{"timed", 90, model.Mode{}, true},
		{"sprint", 60, model.Mode{}, true},
	}
	for _, c := range cases {
		got, err := parseMode(c.kind, c.duration)
		if (err != nil) != c.wantErr {
			t.Fatalf("parseMode(%q, %d) error = %v", c.kind, c.duration, err)
		}
		if !c.wantErr && got != c.want {
			t.Fatalf("parseMode(%q, %d) = %+v, want %+v", c.kind, c.duration, got, c.want)
		}
	}
}

func TestValidateConfig(t *testing.T) {
	if err := validateConfig(model.Config{Words: -1}); err == nil || !strings.Contains(err.Error(), "--words") {
		t.Fatalf("expected --words error, got %v", err)
	}
	if err := validateConfig(model.Config{Corpus: "a.yaml", WordList: "b.txt"}); err == nil {
		t.Fatalf("expected exclusivity error")
	}
	if err := validateConfig(model.Config{Words: 10, WordList: "b.txt"}); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestDefaultConfigTemplateDecodes(t *testing.T) {
	var cfg config.FileConfig
	if _, err := toml.Decode(defaultConfigTemplate(), &cfg); err != nil {
		t.Fatalf("template does not decode: %v", err)
	}
	if cfg.Practice.Mode != nil || cfg.Storage.Backend != nil {
		t.Fatalf("template values must be commented out")
	}
}

func TestStaticSourceWordList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	if err := os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := staticSource(model.Config{WordList: path, Words: 4})
	if err != nil {
		t.Fatalf("staticSource: %v", err)
	}
	if _, ok := src.(*textsource.Words); !ok {
		t.Fatalf("expected a word source, got %T", src)
	}
	if _, err := staticSource(model.Config{WordList: filepath.Join(t.TempDir(), "missing.txt")}); err == nil {
		t.Fatalf("expected error for a missing word list")
	}
	if _, ok := mustSource(t, model.Config{}).(*textsource.Corpus); !ok {
		t.Fatalf("expected the built-in corpus by default")
	}
}

func mustSource(t *testing.T, cfg model.Config) textsource.Source {
	t.Helper()
	src, err := staticSource(cfg)
	if err != nil {
		t.Fatalf("staticSource: %v", err)
	}
	return src
}

func TestWriteBoardMarksUser(t *testing.T) {
	board := leaderboard.New(leaderboard.Seed(), 0)
	user := &model.UserRecord{ID: "2", Username: "TypingNinja"}

	var buf bytes.Buffer
	if err := writeBoard(&buf, selectRows(board, "", 2), user); err != nil {
		t.Fatalf("writeBoard: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %q", buf.String())
	}
	if !strings.Contains(lines[2], "TypingNinja (you)") {
		t.Fatalf("expected own row to be marked, got %q", lines[2])
	}

	buf.Reset()
	if err := writeBoard(&buf, selectRows(board, "zzz", 0), nil); err != nil {
		t.Fatalf("writeBoard: %v", err)
	}
	if !strings.Contains(buf.String(), "No matching entries.") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestWriteMilestonesGuest(t *testing.T) {
	var buf bytes.Buffer
	if err := writeMilestones(&buf, nil); err != nil {
		t.Fatalf("writeMilestones: %v", err)
	}
	out := buf.String()
	if strings.Contains(out, "[x]") || !strings.Contains(out, "Log in to track your progress.") {
		t.Fatalf("unexpected guest output %q", out)
	}

	buf.Reset()
	if err := writeMilestones(&buf, &model.UserRecord{TotalTests: 5, BestWPM: 45}); err != nil {
		t.Fatalf("writeMilestones: %v", err)
	}
	if strings.Count(buf.String(), "[x]") != 2 {
		t.Fatalf("expected 2 unlocked milestones, got %q", buf.String())
	}
}
