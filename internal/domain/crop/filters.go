package crop

import (
	"fmt"
	"strings"
)

// FilterBuilder assembles one comma-separated ffmpeg filter chain.
type FilterBuilder struct {
	in      string
	out     string
	filters []string
}

func NewFilterBuilder() *FilterBuilder { return &FilterBuilder{} }

// From labels the chain input, e.g. "scaled" -> "[scaled]".
func (fb *FilterBuilder) From(label string) *FilterBuilder {
	fb.in = label
	return fb
}

// To labels the chain output.
func (fb *FilterBuilder) To(label string) *FilterBuilder {
	fb.out = label
	return fb
}

// ScaleHeight scales to height h keeping the aspect ratio with an even width.
func (fb *FilterBuilder) ScaleHeight(h int) *FilterBuilder {
	if h <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("scale=-2:%d", h))
	return fb
}

// Crop adds a crop; x and y are ffmpeg expressions.
func (fb *FilterBuilder) Crop(w, h int, x, y string) *FilterBuilder {
	if w <= 0 || h <= 0 {
		return fb
	}
	fb.filters = append(fb.filters, fmt.Sprintf("crop=%d:%d:%s:%s", w, h, x, y))
	return fb
}

func (fb *FilterBuilder) Custom(filter string) *FilterBuilder {
	fb.filters = append(fb.filters, filter)
	return fb
}

func (fb *FilterBuilder) Build() string {
	if len(fb.filters) == 0 {
		return ""
	}
	var b strings.Builder
	if fb.in != "" {
		b.WriteString("[" + fb.in + "]")
	}
	b.WriteString(strings.Join(fb.filters, ","))
	if fb.out != "" {
		b.WriteString("[" + fb.out + "]")
	}
	return b.String()
}

// Graph joins labelled chains into a filter_complex value.
func Graph(chains ...*FilterBuilder) string {
	parts := make([]string, 0, len(chains))
	for _, c := range chains {
		if s := c.Build(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ";")
}
