package pipeline

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/captions"
	"github.com/forPelevin/heatclip/internal/config"
	"github.com/forPelevin/heatclip/internal/domain/crop"
	"github.com/forPelevin/heatclip/internal/domain/highlights"
	"github.com/forPelevin/heatclip/internal/domain/subtitles"
	"github.com/forPelevin/heatclip/internal/logging"
	"github.com/forPelevin/heatclip/internal/ports"
	"github.com/forPelevin/heatclip/internal/ports/adapters/ffmpeg"
	"github.com/forPelevin/heatclip/internal/ports/adapters/openai"
	"github.com/forPelevin/heatclip/internal/ports/adapters/whispercpp"
	"github.com/forPelevin/heatclip/internal/ports/adapters/youtube"
	"github.com/forPelevin/heatclip/internal/ports/adapters/ytdlp"
	"github.com/forPelevin/heatclip/internal/render"
	"github.com/forPelevin/heatclip/internal/selection"
	"github.com/forPelevin/heatclip/internal/types"
	"github.com/forPelevin/heatclip/internal/usecase"
)

// ErrToolMissing means a required external binary is not installed.
var ErrToolMissing = errors.New("required tool not found")

type OpenAIConfig struct {
	APIKey       string
	BaseURL      string
	AllowedHosts []string
}

type Config struct {
	Source   string
	CropMode types.CropMode
	Captions bool
	// Confirm gates the transcript fallback; nil means proceed.
	Confirm  selection.Confirm
	Settings config.Config
	OpenAI   OpenAIConfig
	Logger   zerolog.Logger
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Source) == "" {
		return errors.New("source is empty")
	}
	if _, err := youtube.VideoID(c.Source); err != nil {
		return err
	}
	if _, err := types.ParseCropMode(string(c.CropMode)); err != nil {
		return err
	}
	if err := c.Settings.Validate(); err != nil {
		return err
	}
	if c.Settings.Transcriber == config.TranscriberOpenAI && c.needsTranscriber() {
		if c.OpenAI.APIKey == "" {
			return errors.New("OPENAI_API_KEY is required for the openai transcriber")
		}
		return openai.ValidateBaseURL(c.OpenAI.BaseURL, c.OpenAI.AllowedHosts)
	}
	return nil
}

func (c Config) needsTranscriber() bool {
	return c.Captions || c.Settings.UseAIFallback
}

// CheckTools verifies the binaries every run depends on.
func CheckTools(s config.Config) error {
	for _, bin := range []string{s.FFmpegPath, s.YtDlpPath} {
		if _, err := exec.LookPath(bin); err != nil {
			return fmt.Errorf("%w: %s (install it and make sure it is in PATH)", ErrToolMissing, bin)
		}
	}
	return nil
}

// Summary is what a finished run reports back to the caller.
type Summary struct {
	usecase.Result
	VideoID      string
	OutDir       string
	ManifestPath string
}

func Run(ctx context.Context, cfg Config) (Summary, error) {
	log := cfg.Logger
	s := cfg.Settings

	videoID, err := youtube.VideoID(cfg.Source)
	if err != nil {
		return Summary{}, err
	}
	if err := CheckTools(s); err != nil {
		return Summary{}, err
	}

	workDir, err := newWorkspace(s.TempDir)
	if err != nil {
		return Summary{}, err
	}
	defer os.RemoveAll(workDir)
	log.Debug().Str("workspace", workDir).Msg("workspace ready")

	runOutDir := buildRunOutDir(s.OutputDir, videoID, time.Now().UTC())
	if err := os.MkdirAll(runOutDir, 0o755); err != nil {
		return Summary{}, err
	}

	// adapters
	ff := ffmpeg.New(s.FFmpegPath, s.FFprobePath, logging.WithComponent(log, "ffmpeg"))
	yt := ytdlp.New(s.YtDlpPath, s.FetchTimeout(), logging.WithComponent(log, "ytdlp"))
	signal := youtube.New(logging.WithComponent(log, "heatmap"))
	tr, err := newTranscriber(cfg, ff, workDir)
	if err != nil {
		return Summary{}, err
	}

	scorer := highlights.NewScorer(highlights.Params{
		MaxDuration:     s.MaxDuration(),
		MinScore:        s.AIMinScore,
		Keywords:        s.Keywords,
		QuestionMarkers: s.QuestionMarkers,
	})
	strategy := selection.New(selection.Deps{
		Signal:      signal,
		Fetcher:     yt,
		Transcriber: tr,
		Scorer:      scorer,
		Confirm:     cfg.Confirm,
	}, selection.Params{
		MinScore:     s.MinScore,
		MaxDuration:  s.MaxDuration(),
		Fallback:     s.UseAIFallback,
		WhisperModel: s.WhisperModel,
	}, workDir, logging.WithComponent(log, "selection"))

	renderer := render.New(render.Deps{
		Fetcher:   yt,
		Transform: ff,
		Captions:  captions.NewGenerator(tr, logging.WithComponent(log, "captions")),
	}, render.Params{
		Padding: s.Padding(),
		Layout:  crop.Layout{TopHeight: s.TopHeight, BottomHeight: s.BottomHeight},
		Style:   subtitles.DefaultStyle(),
	}, videoID, workDir, runOutDir, logging.WithComponent(log, "render"))

	uc := usecase.New(usecase.Deps{
		Fetcher:  yt,
		Selector: strategy,
		Renderer: renderer,
		Prober:   ff,
		Logger:   log,
	})

	sum := Summary{VideoID: videoID, OutDir: runOutDir}
	res, err := uc.Run(ctx, usecase.Input{
		Source:   cfg.Source,
		VideoID:  videoID,
		MaxClips: s.MaxClips,
		CropMode: cfg.CropMode,
		Captions: cfg.Captions,
		OutDir:   runOutDir,
	})
	sum.Result = res
	if err != nil {
		if res.Succeeded == 0 {
			_ = os.Remove(runOutDir)
		}
		return sum, err
	}
	if res.Succeeded == 0 {
		_ = os.Remove(runOutDir)
		return sum, nil
	}

	b, err := json.MarshalIndent(res.Manifest, "", "  ")
	if err != nil {
		return sum, fmt.Errorf("marshal manifest: %w", err)
	}
	sum.ManifestPath = filepath.Join(runOutDir, "manifest.json")
	if err := os.WriteFile(sum.ManifestPath, b, 0o644); err != nil {
		return sum, err
	}
	log.Info().Int("clips", len(res.Manifest.Clips)).Str("path", sum.ManifestPath).Msg("manifest written")
	return sum, nil
}

func newTranscriber(cfg Config, audio ports.AudioExtractor, workDir string) (ports.Transcriber, error) {
	s := cfg.Settings
	if s.Transcriber == config.TranscriberOpenAI && cfg.needsTranscriber() {
		return openai.New(openai.Config{
			APIKey:       cfg.OpenAI.APIKey,
			BaseURL:      cfg.OpenAI.BaseURL,
			AllowedHosts: cfg.OpenAI.AllowedHosts,
			Model:        s.OpenAIModel,
		}, logging.WithComponent(cfg.Logger, "openai"))
	}
	return whispercpp.New(s.WhisperBin, s.WhisperModelPath(), audio, workDir,
		logging.WithComponent(cfg.Logger, "whispercpp")), nil
}

// newWorkspace creates a private per-run temp dir under base, or under the
// system temp dir when base is empty.
func newWorkspace(base string) (string, error) {
	if base == "" {
		base = os.TempDir()
	}
	dir := filepath.Join(base, "heatclip-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create workspace: %w", err)
	}
	return dir, nil
}

func buildRunOutDir(outRoot, videoID string, now time.Time) string {
	name := normalizePathSegment(videoID)
	if name == "" {
		name = "video"
	}
	ts := now.UTC().Format("20060102-150405Z")
	runSeed := fmt.Sprintf("%s|%d", videoID, now.UTC().UnixNano())
	suffix := hash(runSeed)[:6]
	return filepath.Join(outRoot, fmt.Sprintf("%s-%s-%s", name, ts, suffix))
}

func normalizePathSegment(s string) string {
	var b strings.Builder
	prevDash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r):
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])[:12]
}

// ensure adapters implement ports
var (
	_ ports.MediaTransform = (*ffmpeg.Adapter)(nil)
	_ ports.AudioExtractor = (*ffmpeg.Adapter)(nil)
	_ ports.MediaFetcher   = (*ytdlp.Adapter)(nil)
	_ ports.SignalSource   = (*youtube.Client)(nil)
	_ ports.Transcriber    = (*whispercpp.Adapter)(nil)
	_ ports.Transcriber    = (*openai.Adapter)(nil)
	_ usecase.Prober       = (*ffmpeg.Adapter)(nil)
)
