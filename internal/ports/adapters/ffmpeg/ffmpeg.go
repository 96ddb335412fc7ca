package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
	log     zerolog.Logger
}

func New(ffmpegPath, ffprobePath string, logger zerolog.Logger) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath, log: logger}
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// Transform runs one ffmpeg pass described by spec.
func (a *Adapter) Transform(ctx context.Context, spec types.TransformSpec) error {
	args, err := TransformArgs(spec)
	if err != nil {
		return err
	}
	a.log.Debug().Strs("args", args).Msg("ffmpeg")
	cmd := exec.CommandContext(ctx, a.ffmpeg, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg transform: %w\n%s", err, string(b))
	}
	return nil
}

// TransformArgs builds the ffmpeg argument list for spec.
func TransformArgs(spec types.TransformSpec) ([]string, error) {
	if spec.Input == "" || spec.Output == "" {
		return nil, fmt.Errorf("ffmpeg transform: input and output are required")
	}
	if spec.VideoFilter != "" && spec.FilterComplex != "" {
		return nil, fmt.Errorf("ffmpeg transform: -vf and -filter_complex are exclusive")
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", spec.Input,
	}
	switch {
	case spec.VideoFilter != "":
		args = append(args, "-vf", spec.VideoFilter)
	case spec.FilterComplex != "":
		args = append(args, "-filter_complex", spec.FilterComplex)
	}
	for _, m := range spec.Maps {
		args = append(args, "-map", m)
	}
	args = append(args, encodingArgs(spec.Encoding)...)
	return append(args, spec.Output), nil
}

func encodingArgs(e types.Encoding) []string {
	var args []string
	if e.VideoCodec != "" {
		args = append(args, "-c:v", e.VideoCodec)
	}
	if e.Preset != "" {
		args = append(args, "-preset", e.Preset)
	}
	if e.CRF > 0 {
		args = append(args, "-crf", strconv.Itoa(e.CRF))
	}
	switch {
	case e.CopyAudio:
		args = append(args, "-c:a", "copy")
	case e.AudioCodec != "":
		args = append(args, "-c:a", e.AudioCodec)
		if e.AudioBitrate != "" {
			args = append(args, "-b:a", e.AudioBitrate)
		}
	}
	return args
}

func (a *Adapter) ProbeDuration(ctx context.Context, in string) (time.Duration, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		in,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w\n%s", err, string(b))
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return time.Duration(sec * float64(time.Second)), nil
}
