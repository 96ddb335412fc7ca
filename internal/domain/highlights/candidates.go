package highlights

import (
	"sort"
	"time"

	"github.com/forPelevin/heatclip/internal/types"
)

// FromMarkers turns the platform "most replayed" markers into candidates:
// markers below minScore are dropped, durations are clamped to maxClip and
// the result is ordered by intensity, highest first.
func FromMarkers(markers []types.HeatMarker, minScore float64, maxClip time.Duration) []types.Candidate {
	var out []types.Candidate
	for _, m := range markers {
		if m.Intensity < minScore {
			continue
		}
		d := millis(m.DurationMillis)
		if d > maxClip {
			d = maxClip
		}
		if d <= 0 {
			continue
		}
		out = append(out, types.Candidate{
			Start:    millis(m.StartMillis),
			Duration: d,
			Score:    clamp(m.Intensity, 0, 1),
			Source:   types.SourcePlatform,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

func millis(ms float64) time.Duration { return time.Duration(ms * float64(time.Millisecond)) }
