// Package render turns one candidate into a finished vertical clip:
// fetch the padded window, crop, optionally caption, then promote.
package render

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/captions"
	"github.com/forPelevin/heatclip/internal/domain/crop"
	"github.com/forPelevin/heatclip/internal/domain/subtitles"
	"github.com/forPelevin/heatclip/internal/ports"
	"github.com/forPelevin/heatclip/internal/types"
)

// MinWindow is the shortest padded window worth rendering.
const MinWindow = 3 * time.Second

type Status int

const (
	StatusSucceeded Status = iota
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusSucceeded:
		return "succeeded"
	case StatusSkipped:
		return "skipped"
	default:
		return "failed"
	}
}

// Outcome reports a terminal job state. Output is set only on success.
type Outcome struct {
	Status    Status
	Output    string
	Captioned bool
	Err       error
}

type CaptionGenerator interface {
	Generate(ctx context.Context, clipPath, srtPath string) captions.Result
}

type Deps struct {
	Fetcher   ports.MediaFetcher
	Transform ports.MediaTransform
	Captions  CaptionGenerator
}

type Params struct {
	Padding time.Duration
	Layout  crop.Layout
	Style   subtitles.Style
}

type Renderer struct {
	deps    Deps
	p       Params
	videoID string
	workDir string
	outDir  string
	log     zerolog.Logger
}

func New(deps Deps, p Params, videoID, workDir, outDir string, logger zerolog.Logger) *Renderer {
	return &Renderer{deps: deps, p: p, videoID: videoID, workDir: workDir, outDir: outDir, log: logger}
}

// Window pads c on both sides and clamps the result to [0,total].
func Window(c types.Candidate, padding, total time.Duration) (start, end time.Duration) {
	start = max(0, c.Start-padding)
	end = c.End() + padding
	if total > 0 {
		end = min(end, total)
	}
	return start, end
}

// Job builds the render unit for c at index.
func (r *Renderer) Job(index int, c types.Candidate, total time.Duration, mode types.CropMode, withCaptions bool) types.ClipJob {
	start, end := Window(c, r.p.Padding, total)
	return types.ClipJob{
		Index:     index,
		Candidate: c,
		Start:     start,
		End:       end,
		CropMode:  mode,
		Captions:  withCaptions,
	}
}

// files are the index-scoped paths a job may create.
type files struct {
	fetched string
	cropped string
	srt     string
	output  string
}

func (r *Renderer) files(index int) files {
	return files{
		fetched: filepath.Join(r.workDir, fmt.Sprintf("temp_%d.mp4", index)),
		cropped: filepath.Join(r.workDir, fmt.Sprintf("temp_cropped_%d.mp4", index)),
		srt:     filepath.Join(r.workDir, fmt.Sprintf("temp_%d.srt", index)),
		output:  filepath.Join(r.outDir, fmt.Sprintf("clip_%d.mp4", index)),
	}
}

// Render runs job to a terminal state. On failure every temp file for the
// index is removed and no output is left behind.
func (r *Renderer) Render(ctx context.Context, job types.ClipJob) Outcome {
	log := r.log.With().
		Int("clip", job.Index).
		Str("start", job.Start.String()).
		Str("end", job.End.String()).
		Str("crop_mode", string(job.CropMode)).
		Logger()

	if job.End-job.Start < MinWindow {
		log.Info().Msg("window too short, skipping")
		return Outcome{Status: StatusSkipped}
	}

	f := r.files(job.Index)
	out, err := r.render(ctx, job, f, log)
	if err != nil {
		cleanup(f.fetched, f.cropped, f.srt, f.output)
		log.Error().Err(err).Msg("clip failed")
		return Outcome{Status: StatusFailed, Err: err}
	}
	return out
}

func (r *Renderer) render(ctx context.Context, job types.ClipJob, f files, log zerolog.Logger) (Outcome, error) {
	log.Info().Msg("fetching section")
	if err := r.deps.Fetcher.FetchSection(ctx, r.videoID, job.Start, job.End, f.fetched); err != nil {
		return Outcome{}, err
	}
	if _, err := os.Stat(f.fetched); err != nil {
		return Outcome{}, fmt.Errorf("fetched section missing: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	filter, err := crop.Build(job.CropMode, r.p.Layout)
	if err != nil {
		return Outcome{}, err
	}
	log.Info().Msg("cropping")
	if err := r.deps.Transform.Transform(ctx, types.TransformSpec{
		Input:         f.fetched,
		Output:        f.cropped,
		VideoFilter:   filter.VideoFilter,
		FilterComplex: filter.FilterComplex,
		Maps:          filter.Maps,
		Encoding:      crop.CropEncoding(),
	}); err != nil {
		return Outcome{}, err
	}
	cleanup(f.fetched)
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	if job.Captions && r.burnCaptions(ctx, f, log) {
		cleanup(f.cropped, f.srt)
		log.Info().Str("output", f.output).Msg("clip ready")
		return Outcome{Status: StatusSucceeded, Output: f.output, Captioned: true}, nil
	}

	if err := promote(f.cropped, f.output); err != nil {
		return Outcome{}, err
	}
	cleanup(f.srt)
	log.Info().Str("output", f.output).Msg("clip ready")
	return Outcome{Status: StatusSucceeded, Output: f.output}, nil
}

// burnCaptions reports whether a captioned output was written. A false
// return leaves the cropped file untouched and no partial output.
func (r *Renderer) burnCaptions(ctx context.Context, f files, log zerolog.Logger) bool {
	log.Info().Msg("generating captions")
	res := r.deps.Captions.Generate(ctx, f.cropped, f.srt)
	if !res.OK {
		log.Warn().Err(res.Err).Msg("caption generation failed, continuing without captions")
		return false
	}

	log.Info().Int("entries", res.Entries).Msg("burning captions")
	err := r.deps.Transform.Transform(ctx, types.TransformSpec{
		Input:       f.cropped,
		Output:      f.output,
		VideoFilter: crop.BurnSubtitles(f.srt, r.p.Style),
		Encoding:    crop.BurnEncoding(),
	})
	if err != nil {
		cleanup(f.output)
		log.Warn().Err(err).Msg("caption burn-in failed, continuing without captions")
		return false
	}
	return true
}
