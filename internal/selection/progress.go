package selection

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/domain/timefmt"
	"github.com/forPelevin/heatclip/internal/types"
)

const progressEvery = 5

// progress reports transcription throughput. The segment total is unknown
// up front and is guessed from the media length.
type progress struct {
	started   time.Time
	estimated int
	seen      int
	now       func() time.Time
	log       zerolog.Logger
}

func newProgress(media time.Duration, now func() time.Time, logger zerolog.Logger) *progress {
	return &progress{
		started:   now(),
		estimated: estimateSegments(media),
		now:       now,
		log:       logger,
	}
}

// estimateSegments assumes one segment per 2.5s of speech, at least 10.
func estimateSegments(media time.Duration) int {
	return max(10, int(media.Seconds()/2.5))
}

func (p *progress) observe(types.Segment) {
	p.seen++
	if p.seen%progressEvery != 0 {
		return
	}
	elapsed := p.now().Sub(p.started)
	p.log.Info().
		Int("segments", p.seen).
		Int("estimated", p.estimated).
		Str("elapsed", timefmt.Human(elapsed)).
		Str("eta", timefmt.Human(p.eta(elapsed))).
		Msg("transcribing")
}

func (p *progress) eta(elapsed time.Duration) time.Duration {
	if p.seen == 0 {
		return 0
	}
	remaining := max(0, p.estimated-p.seen)
	return elapsed / time.Duration(p.seen) * time.Duration(remaining)
}

func (p *progress) done(total int) {
	p.log.Info().
		Int("segments", total).
		Str("took", timefmt.Human(p.now().Sub(p.started))).
		Msg("transcription complete")
}
