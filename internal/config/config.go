package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the run configuration. It is passed explicitly to every
// component that needs a threshold or a tool path.
type Config struct {
	OutputDir string `yaml:"output_dir"`
	TempDir   string `yaml:"temp_dir"`

	MaxClips       int     `yaml:"max_clips"`
	MaxDurationSec float64 `yaml:"max_duration_sec"`
	MinScore       float64 `yaml:"min_score"`
	PaddingSec     float64 `yaml:"padding_sec"`

	TopHeight    int `yaml:"top_height"`
	BottomHeight int `yaml:"bottom_height"`

	UseSubtitle  bool   `yaml:"use_subtitle"`
	WhisperModel string `yaml:"whisper_model"`

	UseAIFallback   bool     `yaml:"use_ai_fallback"`
	AIMinScore      float64  `yaml:"ai_min_score"`
	Keywords        []string `yaml:"keywords"`
	QuestionMarkers []string `yaml:"question_markers"`

	Transcriber     string `yaml:"transcriber"`
	WhisperBin      string `yaml:"whisper_bin"`
	WhisperModelDir string `yaml:"whisper_model_dir"`
	OpenAIModel     string `yaml:"openai_model"`

	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
	YtDlpPath   string `yaml:"ytdlp_path"`

	FetchTimeoutSec int `yaml:"fetch_timeout_sec"`
}

const (
	TranscriberWhisperCPP = "whispercpp"
	TranscriberOpenAI     = "openai"
)

func Default() Config {
	return Config{
		OutputDir:       "clips",
		MaxClips:        10,
		MaxDurationSec:  60,
		MinScore:        0.40,
		PaddingSec:      10,
		TopHeight:       960,
		BottomHeight:    320,
		UseSubtitle:     true,
		WhisperModel:    "tiny",
		UseAIFallback:   true,
		AIMinScore:      0.50,
		Transcriber:     TranscriberWhisperCPP,
		WhisperBin:      ".cache/bin/whisper.cpp",
		WhisperModelDir: ".cache/models",
		OpenAIModel:     "whisper-1",
		FFmpegPath:      "ffmpeg",
		FFprobePath:     "ffprobe",
		YtDlpPath:       "yt-dlp",
	}
}

// Load reads path over the defaults. An empty path searches the usual
// locations; a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		path = findConfigFile()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func findConfigFile() string {
	candidates := []string{
		"./heatclip.yaml",
		"./heatclip.yml",
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".heatclip", "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func (c Config) Validate() error {
	if c.OutputDir == "" {
		return errors.New("output dir is empty")
	}
	if c.MaxClips <= 0 {
		return fmt.Errorf("max clips must be > 0")
	}
	if c.MaxDurationSec <= 0 {
		return fmt.Errorf("max clip duration must be > 0")
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		return fmt.Errorf("min score must be within [0,1]")
	}
	if c.AIMinScore < 0 || c.AIMinScore > 1 {
		return fmt.Errorf("ai min score must be within [0,1]")
	}
	if c.PaddingSec < 0 {
		return fmt.Errorf("padding must be >= 0")
	}
	if c.TopHeight <= 0 || c.BottomHeight <= 0 {
		return fmt.Errorf("split heights must be > 0")
	}
	if c.TopHeight+c.BottomHeight != 1280 {
		return fmt.Errorf("top_height + bottom_height must equal 1280, got %d", c.TopHeight+c.BottomHeight)
	}
	switch c.Transcriber {
	case TranscriberWhisperCPP, TranscriberOpenAI:
	default:
		return fmt.Errorf("unknown transcriber %q", c.Transcriber)
	}
	if c.FetchTimeoutSec < 0 {
		return fmt.Errorf("fetch timeout must be >= 0")
	}
	return nil
}

func (c Config) MaxDuration() time.Duration { return seconds(c.MaxDurationSec) }

func (c Config) Padding() time.Duration { return seconds(c.PaddingSec) }

func (c Config) FetchTimeout() time.Duration { return time.Duration(c.FetchTimeoutSec) * time.Second }

// WhisperModelPath maps the model size name to a ggml file in WhisperModelDir.
func (c Config) WhisperModelPath() string {
	return filepath.Join(c.WhisperModelDir, "ggml-"+c.WhisperModel+".bin")
}

func seconds(s float64) time.Duration { return time.Duration(s * float64(time.Second)) }
