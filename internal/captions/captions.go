// Package captions turns a rendered clip into an SRT subtitle track.
package captions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/domain/subtitles"
	"github.com/forPelevin/heatclip/internal/domain/timefmt"
	"github.com/forPelevin/heatclip/internal/ports"
)

var ErrNoSpeech = errors.New("no speech detected")

// Result is the outcome of one caption attempt. Err is set iff !OK.
type Result struct {
	OK      bool
	Path    string
	Entries int
	Err     error
}

type Generator struct {
	tr  ports.Transcriber
	log zerolog.Logger
	now func() time.Time
}

func NewGenerator(tr ports.Transcriber, logger zerolog.Logger) *Generator {
	return &Generator{tr: tr, log: logger, now: time.Now}
}

// Generate transcribes clipPath in auto-detected language and writes the
// track to srtPath. Failures are reported in the Result.
func (g *Generator) Generate(ctx context.Context, clipPath, srtPath string) Result {
	started := g.now()
	tr, err := g.tr.Transcribe(ctx, clipPath, nil)
	if err != nil {
		return Result{Err: fmt.Errorf("transcribe clip: %w", err)}
	}
	if len(tr.Segments) == 0 {
		return Result{Err: ErrNoSpeech}
	}

	n, err := subtitles.WriteSRT(srtPath, tr.Segments)
	if err != nil {
		return Result{Err: err}
	}
	g.log.Info().
		Int("segments", n).
		Str("language", tr.Language).
		Str("took", timefmt.Human(g.now().Sub(started))).
		Msg("captions transcribed")
	return Result{OK: true, Path: srtPath, Entries: n}
}
