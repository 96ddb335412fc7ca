package subtitles

import (
	"fmt"
	"strings"
)

// Style is the caption look used when burning subtitles into a clip.
// Colours use the ASS &HBBGGRR notation.
type Style struct {
	FontName      string
	FontSize      int
	Bold          bool
	PrimaryColour string
	OutlineColour string
	BorderStyle   int
	Outline       int
	Shadow        int
	MarginV       int
}

// DefaultStyle is white bold Arial with a black outline, lifted off the
// bottom edge so it clears platform UI on vertical video.
func DefaultStyle() Style {
	return Style{
		FontName:      "Arial",
		FontSize:      12,
		Bold:          true,
		PrimaryColour: "&HFFFFFF",
		OutlineColour: "&H000000",
		BorderStyle:   1,
		Outline:       2,
		Shadow:        1,
		MarginV:       100,
	}
}

// ForceStyle renders the style as a libass force_style override.
func (s Style) ForceStyle() string {
	bold := 0
	if s.Bold {
		bold = 1
	}
	parts := []string{
		"FontName=" + s.FontName,
		fmt.Sprintf("FontSize=%d", s.FontSize),
		fmt.Sprintf("Bold=%d", bold),
		"PrimaryColour=" + s.PrimaryColour,
		"OutlineColour=" + s.OutlineColour,
		fmt.Sprintf("BorderStyle=%d", s.BorderStyle),
		fmt.Sprintf("Outline=%d", s.Outline),
		fmt.Sprintf("Shadow=%d", s.Shadow),
		fmt.Sprintf("MarginV=%d", s.MarginV),
	}
	return strings.Join(parts, ",")
}
