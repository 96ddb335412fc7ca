package crop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/heatclip/internal/domain/subtitles"
	"github.com/forPelevin/heatclip/internal/types"
)

var testLayout = Layout{TopHeight: 960, BottomHeight: 320}

func TestBuild_Default(t *testing.T) {
	f, err := Build(types.CropDefault, testLayout)
	require.NoError(t, err)
	assert.Equal(t, "scale=-2:1280,crop=720:1280:(iw-720)/2:(ih-1280)/2", f.VideoFilter)
	assert.Empty(t, f.FilterComplex)
	assert.Empty(t, f.Maps)
}

func TestBuild_SplitLeft(t *testing.T) {
	f, err := Build(types.CropSplitLeft, testLayout)
	require.NoError(t, err)
	want := "scale=-2:1280[scaled];" +
		"[scaled]split=2[s1][s2];" +
		"[s1]crop=720:960:(iw-720)/2:(ih-1280)/2[top];" +
		"[s2]crop=720:320:0:ih-320[bottom];" +
		"[top][bottom]vstack=inputs=2[out]"
	assert.Equal(t, want, f.FilterComplex)
	assert.Empty(t, f.VideoFilter)
	assert.Equal(t, []string{"[out]", "0:a?"}, f.Maps)
}

func TestBuild_SplitRight(t *testing.T) {
	f, err := Build(types.CropSplitRight, Layout{TopHeight: 1000, BottomHeight: 280})
	require.NoError(t, err)
	assert.Contains(t, f.FilterComplex, "[s1]crop=720:1000:(iw-720)/2:(ih-1280)/2[top]")
	assert.Contains(t, f.FilterComplex, "[s2]crop=720:280:iw-720:ih-280[bottom]")
}

func TestBuild_UnknownMode(t *testing.T) {
	_, err := Build(types.CropMode("diagonal"), testLayout)
	assert.Error(t, err)
}

func TestBurnSubtitles_EscapesPath(t *testing.T) {
	got := BurnSubtitles("/tmp/run:1/temp_1.srt", subtitles.DefaultStyle())
	assert.Equal(t,
		`subtitles='/tmp/run\:1/temp_1.srt':force_style='FontName=Arial,FontSize=12,Bold=1,PrimaryColour=&HFFFFFF,OutlineColour=&H000000,BorderStyle=1,Outline=2,Shadow=1,MarginV=100'`,
		got)
}

func TestFilterBuilder_SkipsInvalid(t *testing.T) {
	got := NewFilterBuilder().ScaleHeight(0).Crop(0, 10, "0", "0").Custom("null").Build()
	assert.Equal(t, "null", got)
	assert.Equal(t, "", NewFilterBuilder().From("a").To("b").Build())
}
