package ytdlp

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	sectionFormat = "bestvideo[height<=1080][ext=mp4]+bestaudio[ext=m4a]/best[ext=mp4]/best"
	audioFormat   = "bestaudio[ext=m4a]/bestaudio"
)

// Adapter downloads media through the yt-dlp binary.
type Adapter struct {
	bin     string
	timeout time.Duration
	log     zerolog.Logger
}

// New returns an adapter. A zero timeout leaves calls bounded only by ctx.
func New(binPath string, timeout time.Duration, logger zerolog.Logger) *Adapter {
	if binPath == "" {
		binPath = "yt-dlp"
	}
	return &Adapter{bin: binPath, timeout: timeout, log: logger}
}

// WatchURL is the canonical short link for a video id.
func WatchURL(videoID string) string { return "https://youtu.be/" + videoID }

// Duration asks yt-dlp for the source length without downloading.
func (a *Adapter) Duration(ctx context.Context, videoID string) (time.Duration, error) {
	out, err := a.run(ctx, DurationArgs(videoID))
	if err != nil {
		return 0, fmt.Errorf("yt-dlp duration: %w", err)
	}
	return parseDuration(out)
}

// FetchSection downloads [start,end] of the video to outPath.
func (a *Adapter) FetchSection(ctx context.Context, videoID string, start, end time.Duration, outPath string) error {
	a.log.Debug().Str("video", videoID).Dur("start", start).Dur("end", end).Msg("fetch section")
	if _, err := a.run(ctx, SectionArgs(videoID, start, end, outPath)); err != nil {
		return fmt.Errorf("yt-dlp section: %w", err)
	}
	return nil
}

// FetchAudio downloads the best audio-only stream to outPath.
func (a *Adapter) FetchAudio(ctx context.Context, videoID, outPath string) error {
	a.log.Debug().Str("video", videoID).Msg("fetch audio")
	if _, err := a.run(ctx, AudioArgs(videoID, outPath)); err != nil {
		return fmt.Errorf("yt-dlp audio: %w", err)
	}
	return nil
}

func DurationArgs(videoID string) []string {
	return []string{
		"--skip-download",
		"--no-warnings",
		"--print", "duration",
		WatchURL(videoID),
	}
}

func SectionArgs(videoID string, start, end time.Duration, outPath string) []string {
	return []string{
		"--force-ipv4",
		"--quiet",
		"--no-warnings",
		"--downloader", "ffmpeg",
		"--downloader-args",
		fmt.Sprintf("ffmpeg_i:-ss %s -to %s -hide_banner -loglevel error", fmtSeconds(start), fmtSeconds(end)),
		"-f", sectionFormat,
		"--merge-output-format", "mp4",
		"-o", outPath,
		WatchURL(videoID),
	}
}

func AudioArgs(videoID, outPath string) []string {
	return []string{
		"--force-ipv4",
		"--quiet",
		"--no-warnings",
		"-f", audioFormat,
		"-o", outPath,
		WatchURL(videoID),
	}
}

func (a *Adapter) run(ctx context.Context, args []string) ([]byte, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		errOutput := stderr.String()
		if len(errOutput) > 500 {
			errOutput = errOutput[:500]
		}
		return nil, fmt.Errorf("%w: %s", err, errOutput)
	}
	return stdout.Bytes(), nil
}

func parseDuration(out []byte) (time.Duration, error) {
	s := strings.TrimSpace(string(out))
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	if sec <= 0 {
		return 0, fmt.Errorf("non-positive duration %q", s)
	}
	return time.Duration(sec * float64(time.Second)), nil
}

func fmtSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
