package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/forPelevin/heatclip/internal/config"
	"github.com/forPelevin/heatclip/internal/domain/timefmt"
	"github.com/forPelevin/heatclip/internal/logging"
	"github.com/forPelevin/heatclip/internal/pipeline"
	"github.com/forPelevin/heatclip/internal/ports/adapters/openai"
	"github.com/forPelevin/heatclip/internal/types"
	"github.com/forPelevin/heatclip/internal/usecase"
)

func run(cmd *cobra.Command, source string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logging.Init(verbose, cmd.ErrOrStderr())

	settings, err := loadSettings(cmd)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	out := cmd.OutOrStdout()
	yes, _ := cmd.Flags().GetBool("yes")
	p := newPrompter(cmd.InOrStdin(), out, !yes)

	mode, err := cropMode(cmd, p)
	if err != nil {
		return err
	}
	withCaptions := captionsWanted(cmd, p, settings)

	if source == "" {
		source = p.Line("Link YT: ")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := pipeline.Config{
		Source:   strings.TrimSpace(source),
		CropMode: mode,
		Captions: withCaptions,
		Confirm: func(context.Context) bool {
			return p.YesNo("Proceed with transcript analysis? (y/n): ", true)
		},
		Settings: settings,
		OpenAI: pipeline.OpenAIConfig{
			APIKey:       os.Getenv("OPENAI_API_KEY"),
			BaseURL:      os.Getenv("OPENAI_BASE_URL"),
			AllowedHosts: openai.ParseAllowedHosts(os.Getenv("OPENAI_ALLOWED_HOSTS")),
		},
		Logger: logger,
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	sum, err := pipeline.Run(ctx, cfg)
	if errors.Is(err, usecase.ErrNoCandidates) {
		fmt.Fprintln(out, "No high-engagement segments found (heatmap or transcript).")
		if !settings.UseAIFallback {
			fmt.Fprintln(out, "Tip: enable use_ai_fallback for transcript-based detection.")
		}
		return nil
	}
	if err != nil {
		return err
	}
	printSummary(out, sum)
	return nil
}

// loadSettings reads the config file and applies flag overrides.
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	f := cmd.Flags()
	path, _ := f.GetString("config")
	if path == "" {
		path = os.Getenv("HEATCLIP_CONFIG")
	}
	s, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	if f.Changed("out") {
		s.OutputDir, _ = f.GetString("out")
	}
	if f.Changed("clips") {
		s.MaxClips, _ = f.GetInt("clips")
	}
	if f.Changed("max") {
		maxSec, _ := f.GetInt("max")
		s.MaxDurationSec = float64(maxSec)
	}
	if f.Changed("model") {
		s.WhisperModel, _ = f.GetString("model")
	}
	if f.Changed("transcriber") {
		s.Transcriber, _ = f.GetString("transcriber")
	}
	if noFallback, _ := f.GetBool("no-fallback"); noFallback {
		s.UseAIFallback = false
	}
	return s, s.Validate()
}

func cropMode(cmd *cobra.Command, p *prompter) (types.CropMode, error) {
	if cmd.Flags().Changed("crop") {
		v, _ := cmd.Flags().GetString("crop")
		return types.ParseCropMode(v)
	}
	if !p.interactive {
		return types.CropDefault, nil
	}

	p.Println("\n=== Crop Mode ===")
	p.Println("1. Default (center crop)")
	p.Println("2. Split 1 (top: center, bottom: bottom-left facecam)")
	p.Println("3. Split 2 (top: center, bottom: bottom-right facecam)")
	mode := choose(p, "\nSelect crop mode (1-3): ", map[string]types.CropMode{
		"1": types.CropDefault,
		"2": types.CropSplitLeft,
		"3": types.CropSplitRight,
	}, types.CropDefault)
	p.Printf("Selected: %s\n", mode.Describe())
	return mode, nil
}

func captionsWanted(cmd *cobra.Command, p *prompter, s config.Config) bool {
	f := cmd.Flags()
	if on, _ := f.GetBool("subtitles"); on {
		return true
	}
	if off, _ := f.GetBool("no-subtitles"); off {
		return false
	}
	if !p.interactive {
		return s.UseSubtitle
	}

	p.Println("\n=== Auto Subtitle ===")
	p.Printf("Available model: %s (~%s)\n", s.WhisperModel, timefmt.ModelSize(s.WhisperModel))
	on := p.YesNo("Add auto subtitle? (y/n): ", false)
	if on {
		p.Printf("Subtitle enabled (model: %s)\n\n", s.WhisperModel)
	} else {
		p.Printf("Subtitle disabled\n\n")
	}
	return on
}

func printSummary(w io.Writer, sum pipeline.Summary) {
	if sum.Succeeded == 0 {
		fmt.Fprintf(w, "Finished processing. No clips were produced (%d failed, %d skipped).\n", sum.Failed, sum.Skipped)
		return
	}
	var total int64
	for _, c := range sum.Manifest.Clips {
		total += c.SizeBytes
	}
	fmt.Fprintf(w, "Finished processing. %d clip(s) successfully saved to '%s' (%s).\n",
		sum.Succeeded, sum.OutDir, humanize.Bytes(uint64(total)))
	if sum.Failed > 0 || sum.Skipped > 0 {
		fmt.Fprintf(w, "%d failed, %d skipped.\n", sum.Failed, sum.Skipped)
	}
	if sum.ManifestPath != "" {
		fmt.Fprintf(w, "Manifest: %s\n", sum.ManifestPath)
	}
}
