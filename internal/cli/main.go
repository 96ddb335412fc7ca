package cli

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func Main() {
	_ = godotenv.Load() // best-effort: load .env if present

	root := newRootCmd()
	root.SetOut(os.Stdout)
	root.SetErr(os.Stderr)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "heatclip [youtube-link]",
		Short:         "Cut vertical clips from the most replayed moments of a YouTube video",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			var source string
			if len(args) == 1 {
				source = args[0]
			}
			return run(cmd, source)
		},
	}

	f := root.Flags()
	f.String("config", "", "Config file (default ./heatclip.yaml or $HEATCLIP_CONFIG)")
	f.String("out", "", "Output directory")
	f.Int("clips", 0, "Maximum number of clips")
	f.String("crop", "", "Crop mode: default, split_left or split_right")
	f.Bool("subtitles", false, "Burn in auto captions")
	f.Bool("no-subtitles", false, "Do not burn in captions")
	f.Bool("yes", false, "Do not prompt; use config values and accept the transcript fallback")
	f.Bool("no-fallback", false, "Disable the transcript fallback when no heatmap exists")
	f.String("model", "", "Whisper model size (tiny, base, small, medium, large-v3)")
	f.String("transcriber", "", "Transcriber: whispercpp or openai")
	f.BoolP("verbose", "v", false, "Debug logging")
	root.MarkFlagsMutuallyExclusive("subtitles", "no-subtitles")

	// Hidden tuning flag
	f.Int("max", 0, "Max clip duration seconds")
	_ = f.MarkHidden("max")

	return root
}
