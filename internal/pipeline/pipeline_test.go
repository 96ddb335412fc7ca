package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/config"
	"github.com/forPelevin/heatclip/internal/ports/adapters/youtube"
	"github.com/forPelevin/heatclip/internal/types"
)

func TestBuildRunOutDir(t *testing.T) {
	now := time.Date(2026, 2, 12, 10, 30, 45, 1234, time.UTC)
	got := buildRunOutDir("out", "dQw4w9WgXcQ", now)
	base := filepath.Base(got)
	if filepath.Dir(got) != "out" {
		t.Fatalf("unexpected parent dir: %s", got)
	}
	if !strings.HasPrefix(base, "dqw4w9wgxcq-20260212-103045Z-") {
		t.Fatalf("unexpected run dir format: %s", base)
	}
	if len(base) != len("dqw4w9wgxcq-20260212-103045Z-")+6 {
		t.Fatalf("unexpected run dir suffix length: %s", base)
	}
}

func TestBuildRunOutDir_DashOnlyID(t *testing.T) {
	got := filepath.Base(buildRunOutDir("out", "___________", time.Unix(0, 0)))
	if !strings.HasPrefix(got, "video-") {
		t.Fatalf("expected fallback name, got %s", got)
	}
}

func TestNormalizePathSegment(t *testing.T) {
	tests := map[string]string{
		"  My Cool.Video  ": "my-cool-video",
		"___":               "",
		"abc123":            "abc123",
		"Name (v2)!":        "name-v2",
		"a_B-c":             "a-b-c",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			if got := normalizePathSegment(in); got != want {
				t.Fatalf("normalizePathSegment(%q) = %q, want %q", in, got, want)
			}
		})
	}
}

func TestNewWorkspace_UniquePerRun(t *testing.T) {
	base := t.TempDir()
	a, err := newWorkspace(base)
	if err != nil {
		t.Fatal(err)
	}
	b, err := newWorkspace(base)
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Fatalf("expected distinct workspaces, got %s twice", a)
	}
	for _, d := range []string{a, b} {
		if filepath.Dir(d) != base {
			t.Fatalf("workspace %s not under %s", d, base)
		}
		if st, err := os.Stat(d); err != nil || !st.IsDir() {
			t.Fatalf("workspace %s not created: %v", d, err)
		}
	}
}

func validConfig() Config {
	return Config{
		Source:   "https://youtu.be/dQw4w9WgXcQ",
		CropMode: types.CropDefault,
		Settings: config.Default(),
		Logger:   zerolog.Nop(),
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "ok", mutate: func(*Config) {}},
		{name: "empty source", mutate: func(c *Config) { c.Source = " " }, wantErr: true},
		{name: "bad source", mutate: func(c *Config) { c.Source = "https://vimeo.com/1" }, wantErr: true},
		{name: "bad crop", mutate: func(c *Config) { c.CropMode = "wide" }, wantErr: true},
		{name: "bad settings", mutate: func(c *Config) { c.Settings.MaxClips = 0 }, wantErr: true},
		{
			name: "openai without key",
			mutate: func(c *Config) {
				c.Settings.Transcriber = config.TranscriberOpenAI
				c.Captions = true
			},
			wantErr: true,
		},
		{
			name: "openai unused needs no key",
			mutate: func(c *Config) {
				c.Settings.Transcriber = config.TranscriberOpenAI
				c.Settings.UseAIFallback = false
			},
		},
		{
			name: "openai host not allowed",
			mutate: func(c *Config) {
				c.Settings.Transcriber = config.TranscriberOpenAI
				c.OpenAI = OpenAIConfig{APIKey: "k", BaseURL: "https://evil.example/v1"}
			},
			wantErr: true,
		},
		{
			name: "openai allowed proxy",
			mutate: func(c *Config) {
				c.Settings.Transcriber = config.TranscriberOpenAI
				c.OpenAI = OpenAIConfig{
					APIKey:       "k",
					BaseURL:      "https://stt.proxy.internal/v1",
					AllowedHosts: []string{"stt.proxy.internal"},
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr && err == nil {
				t.Fatalf("expected error")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestValidate_InvalidSourceIsInputError(t *testing.T) {
	cfg := validConfig()
	cfg.Source = "not a link"
	if err := cfg.Validate(); !errors.Is(err, youtube.ErrInvalidSource) {
		t.Fatalf("expected ErrInvalidSource, got %v", err)
	}
}

func TestRun_MissingToolIsFatal(t *testing.T) {
	cfg := validConfig()
	cfg.Settings.FFmpegPath = filepath.Join(t.TempDir(), "no-such-ffmpeg")
	cfg.Settings.OutputDir = t.TempDir()

	_, err := Run(context.Background(), cfg)
	if !errors.Is(err, ErrToolMissing) {
		t.Fatalf("expected ErrToolMissing, got %v", err)
	}
	entries, _ := os.ReadDir(cfg.Settings.OutputDir)
	if len(entries) != 0 {
		t.Fatalf("no output expected before tools are checked, got %d entries", len(entries))
	}
}
