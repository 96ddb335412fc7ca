package highlights

import (
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/forPelevin/heatclip/internal/types"
)

const (
	keywordWeight    = 0.1
	keywordCap       = 0.4
	questionWeight   = 0.2
	repetitionWeight = 0.05
	repetitionCap    = 0.15
)

// Params configures the engagement scorer.
type Params struct {
	MaxDuration     time.Duration
	MinScore        float64
	Keywords        []string
	QuestionMarkers []string
}

// Scorer estimates viewer engagement of transcript segments from lexical
// and timing features. Signals are additive so a single strong one cannot
// lift an otherwise flat segment over the threshold.
type Scorer struct {
	maxSec   float64
	minScore float64
	keywords []string
	markers  []string
}

func NewScorer(p Params) *Scorer {
	kw := p.Keywords
	if len(kw) == 0 {
		kw = DefaultKeywords()
	}
	qm := p.QuestionMarkers
	if len(qm) == 0 {
		qm = DefaultQuestionMarkers()
	}
	return &Scorer{
		maxSec:   p.MaxDuration.Seconds(),
		minScore: p.MinScore,
		keywords: lowerAll(kw),
		markers:  lowerAll(qm),
	}
}

// Breakdown is the per-signal contribution for one segment.
type Breakdown struct {
	Keyword     float64
	Question    float64
	Repetition  float64
	DurationFit float64
	Density     float64
}

// Total sums the signals and clamps to [0,1].
func (b Breakdown) Total() float64 {
	return clamp(b.Keyword+b.Question+b.Repetition+b.DurationFit+b.Density, 0, 1)
}

// Breakdown scores text spoken over durSec seconds.
func (s *Scorer) Breakdown(text string, durSec float64) Breakdown {
	t := strings.ToLower(strings.TrimSpace(text))
	words := strings.Fields(t)

	var b Breakdown
	if hits := s.keywordHits(t); hits > 0 {
		b.Keyword = min(keywordCap, float64(hits)*keywordWeight)
	}
	if s.hasQuestion(t) {
		b.Question = questionWeight
	}
	b.Repetition = repetition(words)
	b.DurationFit = durationFit(durSec)
	if durSec > 0 {
		b.Density = density(float64(len(words)) / durSec)
	}
	return b
}

// Analyze scores every eligible segment and returns the accepted ones as
// heuristic candidates, best first. Ties keep transcript order.
func (s *Scorer) Analyze(segs []types.Segment) []types.Candidate {
	var out []types.Candidate
	for _, seg := range segs {
		d := seg.Duration()
		if d < 1 || d > s.maxSec {
			continue
		}
		score := s.Breakdown(seg.Text, d).Total()
		if score < s.minScore {
			continue
		}
		out = append(out, types.Candidate{
			Start:    dur(seg.Start),
			Duration: dur(min(d, s.maxSec)),
			Score:    score,
			Source:   types.SourceHeuristic,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// keywordHits counts vocabulary entries present in t. Each entry counts
// once; an entry nested in a longer one is counted separately.
func (s *Scorer) keywordHits(t string) int {
	n := 0
	for _, k := range s.keywords {
		if k != "" && strings.Contains(t, k) {
			n++
		}
	}
	return n
}

func (s *Scorer) hasQuestion(t string) bool {
	for _, m := range s.markers {
		if m != "" && strings.Contains(t, m) {
			return true
		}
	}
	return false
}

func repetition(words []string) float64 {
	if len(words) <= 3 {
		return 0
	}
	freq := make(map[string]int)
	maxRepeat := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) <= 3 {
			continue
		}
		freq[w]++
		if freq[w] > maxRepeat {
			maxRepeat = freq[w]
		}
	}
	if maxRepeat < 2 {
		return 0
	}
	return min(repetitionCap, float64(maxRepeat-1)*repetitionWeight)
}

func durationFit(sec float64) float64 {
	switch {
	case sec >= 5 && sec <= 30:
		return 0.15
	case sec >= 3 && sec <= 45:
		return 0.10
	case sec >= 1 && sec <= 60:
		return 0.05
	}
	return 0
}

func density(wordsPerSec float64) float64 {
	switch {
	case wordsPerSec >= 2 && wordsPerSec <= 5:
		return 0.10
	case wordsPerSec >= 1 && wordsPerSec <= 6:
		return 0.05
	}
	return 0
}

func lowerAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		out = append(out, strings.ToLower(s))
	}
	return out
}

func clamp(x, a, b float64) float64 {
	if x < a {
		return a
	}
	if x > b {
		return b
	}
	return x
}

func dur(sec float64) time.Duration { return time.Duration(sec * float64(time.Second)) }
