package subtitles

import (
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/forPelevin/heatclip/internal/types"
)

// RenderSRT serializes segments as SubRip in arrival order. Entries are
// numbered from 1 and separated by a blank line.
func RenderSRT(segs []types.Segment) string {
	var b strings.Builder
	for i, s := range segs {
		fmt.Fprintf(&b, "%d\n", i+1)
		b.WriteString(Timestamp(s.Start))
		b.WriteString(" --> ")
		b.WriteString(Timestamp(s.End))
		b.WriteString("\n")
		b.WriteString(strings.TrimSpace(s.Text))
		b.WriteString("\n\n")
	}
	return b.String()
}

// WriteSRT renders segs to path and returns the number of entries written.
func WriteSRT(path string, segs []types.Segment) (int, error) {
	if err := os.WriteFile(path, []byte(RenderSRT(segs)), 0o644); err != nil {
		return 0, fmt.Errorf("write srt: %w", err)
	}
	return len(segs), nil
}

// Timestamp formats seconds as HH:MM:SS,mmm. Milliseconds are truncated;
// the epsilon only absorbs float noise such as 2.001 -> 2000.9999.
func Timestamp(sec float64) string {
	if sec < 0 || math.IsNaN(sec) {
		sec = 0
	}
	ms := int64(math.Floor(sec*1000 + 1e-6))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
