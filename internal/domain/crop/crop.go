// Package crop builds the filter graphs that turn a landscape source into
// a 720x1280 portrait frame, and the caption burn-in filter.
package crop

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/forPelevin/heatclip/internal/domain/subtitles"
	"github.com/forPelevin/heatclip/internal/types"
)

const (
	Width  = 720
	Height = 1280
)

// Layout holds the split-mode band heights. Top+Bottom must equal Height.
type Layout struct {
	TopHeight    int
	BottomHeight int
}

// Filter is the declared filter part of a transform.
type Filter struct {
	VideoFilter   string
	FilterComplex string
	Maps          []string
}

// Build returns the filter for mode.
func Build(mode types.CropMode, l Layout) (Filter, error) {
	switch mode {
	case types.CropDefault, "":
		vf := NewFilterBuilder().
			ScaleHeight(Height).
			Crop(Width, Height, fmt.Sprintf("(iw-%d)/2", Width), fmt.Sprintf("(ih-%d)/2", Height)).
			Build()
		return Filter{VideoFilter: vf}, nil
	case types.CropSplitLeft:
		return split(l, "0"), nil
	case types.CropSplitRight:
		return split(l, fmt.Sprintf("iw-%d", Width)), nil
	}
	return Filter{}, fmt.Errorf("unknown crop mode %q", mode)
}

// split stacks a centred band of the scaled frame over a corner band taken
// at horizontal offset bottomX along the bottom edge.
func split(l Layout, bottomX string) Filter {
	graph := Graph(
		NewFilterBuilder().ScaleHeight(Height).To("scaled"),
		NewFilterBuilder().From("scaled").Custom("split=2").To("s1][s2"),
		NewFilterBuilder().From("s1").
			Crop(Width, l.TopHeight, fmt.Sprintf("(iw-%d)/2", Width), fmt.Sprintf("(ih-%d)/2", Height)).
			To("top"),
		NewFilterBuilder().From("s2").
			Crop(Width, l.BottomHeight, bottomX, fmt.Sprintf("ih-%d", l.BottomHeight)).
			To("bottom"),
		NewFilterBuilder().From("top][bottom").Custom("vstack=inputs=2").To("out"),
	)
	return Filter{
		FilterComplex: graph,
		Maps:          []string{"[out]", "0:a?"},
	}
}

// CropEncoding is the encoder setup for the crop pass.
func CropEncoding() types.Encoding {
	return types.Encoding{
		VideoCodec:   "libx264",
		Preset:       "ultrafast",
		CRF:          26,
		AudioCodec:   "aac",
		AudioBitrate: "128k",
	}
}

// BurnEncoding re-encodes video and passes audio through untouched.
func BurnEncoding() types.Encoding {
	return types.Encoding{
		VideoCodec: "libx264",
		Preset:     "ultrafast",
		CRF:        26,
		CopyAudio:  true,
	}
}

// BurnSubtitles returns the -vf value that composites srtPath with style.
func BurnSubtitles(srtPath string, style subtitles.Style) string {
	return fmt.Sprintf("subtitles='%s':force_style='%s'", escapeFilterPath(srtPath), style.ForceStyle())
}

func escapeFilterPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.ReplaceAll(p, ":", "\\:")
	p = strings.ReplaceAll(p, "'", "\\'")
	return p
}
