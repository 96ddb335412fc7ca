package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/ports"
	"github.com/forPelevin/heatclip/internal/render"
	"github.com/forPelevin/heatclip/internal/selection"
	"github.com/forPelevin/heatclip/internal/types"
)

// DefaultDuration stands in for the source length when it cannot be read.
const DefaultDuration = time.Hour

// ErrNoCandidates ends a run that found nothing worth clipping.
var ErrNoCandidates = errors.New("no high-engagement segments found")

type Selector interface {
	Select(ctx context.Context, videoID string, total time.Duration) (selection.Selection, error)
}

type ClipRenderer interface {
	Job(index int, c types.Candidate, total time.Duration, mode types.CropMode, captions bool) types.ClipJob
	Render(ctx context.Context, job types.ClipJob) render.Outcome
}

// Prober reads the length of a rendered file.
type Prober interface {
	ProbeDuration(ctx context.Context, path string) (time.Duration, error)
}

type Deps struct {
	Fetcher  ports.MediaFetcher
	Selector Selector
	Renderer ClipRenderer
	// Prober is optional; without it manifest durations are left empty.
	Prober Prober
	Logger zerolog.Logger
}

type Usecase struct{ d Deps }

func New(d Deps) Usecase { return Usecase{d: d} }

type Input struct {
	Source   string
	VideoID  string
	MaxClips int
	CropMode types.CropMode
	Captions bool
	OutDir   string
}

type Result struct {
	Total     time.Duration
	Strategy  types.Source
	Found     int
	Succeeded int
	Failed    int
	Skipped   int
	Manifest  types.Manifest
}

// Run selects candidates and renders them best first until MaxClips
// clips exist. Job indices follow the success count, so output names stay
// contiguous and a failed index is retried by the next candidate.
func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	log := u.d.Logger

	total, err := u.d.Fetcher.Duration(ctx, in.VideoID)
	if err != nil {
		if ctx.Err() != nil {
			return Result{}, ctx.Err()
		}
		log.Warn().Err(err).Dur("assumed", DefaultDuration).Msg("could not read video duration")
		total = DefaultDuration
	}

	sel, err := u.d.Selector.Select(ctx, in.VideoID, total)
	if err != nil {
		return Result{}, err
	}
	res := Result{
		Total:    total,
		Strategy: sel.Source,
		Found:    len(sel.Candidates),
		Manifest: types.Manifest{
			Source:   in.Source,
			VideoID:  in.VideoID,
			Strategy: sel.Source,
			CropMode: in.CropMode,
		},
	}
	if sel.Empty() {
		return res, ErrNoCandidates
	}
	log.Info().
		Int("segments", res.Found).
		Str("strategy", string(sel.Source)).
		Str("crop_mode", in.CropMode.Describe()).
		Msg("rendering clips")

	for _, c := range sel.Candidates {
		if res.Succeeded >= in.MaxClips {
			break
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		job := u.d.Renderer.Job(res.Succeeded+1, c, total, in.CropMode, in.Captions)
		out := u.d.Renderer.Render(ctx, job)
		switch out.Status {
		case render.StatusSucceeded:
			res.Succeeded++
			last := manifestClip(job, out, in.OutDir)
			last.DurationSec = u.probe(ctx, out.Output)
			res.Manifest.Clips = append(res.Manifest.Clips, last)
			log.Info().
				Int("clip", job.Index).
				Str("file", last.File).
				Str("size", humanize.Bytes(uint64(last.SizeBytes))).
				Bool("captioned", out.Captioned).
				Msg("clip saved")
		case render.StatusSkipped:
			res.Skipped++
		default:
			res.Failed++
		}
	}
	return res, nil
}

func (u Usecase) probe(ctx context.Context, path string) float64 {
	if u.d.Prober == nil {
		return 0
	}
	d, err := u.d.Prober.ProbeDuration(ctx, path)
	if err != nil {
		u.d.Logger.Debug().Err(err).Str("file", path).Msg("probe failed")
		return 0
	}
	return d.Seconds()
}

func manifestClip(job types.ClipJob, out render.Outcome, outDir string) types.ManifestClip {
	file := filepath.Base(out.Output)
	if rel, err := filepath.Rel(outDir, out.Output); err == nil {
		file = rel
	}
	var size int64
	if st, err := os.Stat(out.Output); err == nil {
		size = st.Size()
	}
	return types.ManifestClip{
		ID:        fmt.Sprintf("%03d", job.Index),
		StartSec:  job.Start.Seconds(),
		EndSec:    job.End.Seconds(),
		Score:     job.Candidate.Score,
		Source:    job.Candidate.Source,
		File:      filepath.ToSlash(file),
		Captioned: out.Captioned,
		SizeBytes: size,
		CropMode:  job.CropMode,
	}
}
