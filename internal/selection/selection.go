// Package selection picks clip candidates: the platform "most replayed"
// signal first, transcript scoring as the fallback.
package selection

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/domain/highlights"
	"github.com/forPelevin/heatclip/internal/domain/timefmt"
	"github.com/forPelevin/heatclip/internal/ports"
	"github.com/forPelevin/heatclip/internal/types"
)

// Confirm gates the fallback transcription. Returning false skips it.
type Confirm func(ctx context.Context) bool

type Params struct {
	MinScore     float64
	MaxDuration  time.Duration
	Fallback     bool
	WhisperModel string
}

type Deps struct {
	Signal      ports.SignalSource
	Fetcher     ports.MediaFetcher
	Transcriber ports.Transcriber
	Scorer      *highlights.Scorer
	Confirm     Confirm
}

// Selection is the ranked result. Source is empty when nothing was found.
type Selection struct {
	Candidates []types.Candidate
	Source     types.Source
}

func (s Selection) Empty() bool { return len(s.Candidates) == 0 }

type Strategy struct {
	deps    Deps
	p       Params
	workDir string
	log     zerolog.Logger
	now     func() time.Time
}

func New(deps Deps, p Params, workDir string, logger zerolog.Logger) *Strategy {
	return &Strategy{deps: deps, p: p, workDir: workDir, log: logger, now: time.Now}
}

// Select returns ranked candidates for videoID. An empty Selection is a
// normal outcome; the only error is ctx cancellation.
func (s *Strategy) Select(ctx context.Context, videoID string, total time.Duration) (Selection, error) {
	markers, err := s.deps.Signal.MostReplayed(ctx, videoID)
	if err != nil {
		if ctx.Err() != nil {
			return Selection{}, ctx.Err()
		}
		s.log.Warn().Err(err).Msg("heatmap unavailable")
	}
	if cands := highlights.FromMarkers(markers, s.p.MinScore, s.p.MaxDuration); len(cands) > 0 {
		s.log.Info().Int("segments", len(cands)).Msg("using most replayed heatmap")
		return Selection{Candidates: cands, Source: types.SourcePlatform}, nil
	}

	if !s.p.Fallback {
		s.log.Info().Msg("no heatmap segments and transcript fallback is disabled")
		return Selection{}, nil
	}

	s.log.Info().
		Str("model", s.p.WhisperModel).
		Str("estimate", timefmt.Human(timefmt.EstimateTranscribeTime(total, s.p.WhisperModel))).
		Msg("heatmap not available, transcript analysis would transcribe the full video")
	if s.deps.Confirm != nil && !s.deps.Confirm(ctx) {
		s.log.Info().Msg("transcript analysis declined")
		return Selection{}, nil
	}

	cands, err := s.fallback(ctx, videoID, total)
	if err != nil {
		if ctx.Err() != nil {
			return Selection{}, ctx.Err()
		}
		s.log.Error().Err(err).Msg("transcript analysis failed")
		return Selection{}, nil
	}
	if len(cands) == 0 {
		s.log.Warn().Msg("no high-engagement segments detected in transcript")
		return Selection{}, nil
	}
	s.log.Info().
		Int("segments", len(cands)).
		Float64("top_score", cands[0].Score).
		Msg("transcript analysis found segments")
	return Selection{Candidates: cands, Source: types.SourceHeuristic}, nil
}

func (s *Strategy) fallback(ctx context.Context, videoID string, total time.Duration) ([]types.Candidate, error) {
	audio := filepath.Join(s.workDir, "full_audio.m4a")
	defer os.Remove(audio)

	s.log.Info().Msg("downloading audio track")
	if err := s.deps.Fetcher.FetchAudio(ctx, videoID, audio); err != nil {
		return nil, err
	}
	if _, err := os.Stat(audio); err != nil {
		return nil, err
	}

	prog := newProgress(total, s.now, s.log)
	tr, err := s.deps.Transcriber.Transcribe(ctx, audio, prog.observe)
	if err != nil {
		return nil, err
	}
	prog.done(len(tr.Segments))

	return s.deps.Scorer.Analyze(tr.Segments), nil
}
