package captions

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/heatclip/internal/types"
)

type fakeTranscriber struct {
	tr    types.Transcript
	err   error
	calls []string
}

func (f *fakeTranscriber) Transcribe(_ context.Context, mediaPath string, _ func(types.Segment)) (types.Transcript, error) {
	f.calls = append(f.calls, mediaPath)
	return f.tr, f.err
}

func TestGenerate_WritesSRT(t *testing.T) {
	fake := &fakeTranscriber{tr: types.Transcript{Segments: []types.Segment{
		{Start: 0, End: 1.2345, Text: "  halo  "},
		{Start: 61.5, End: 63, Text: "kok bisa?"},
	}}}
	srt := filepath.Join(t.TempDir(), "temp_1.srt")

	res := NewGenerator(fake, zerolog.Nop()).Generate(context.Background(), "clip.mp4", srt)
	require.True(t, res.OK, "err: %v", res.Err)
	assert.NoError(t, res.Err)
	assert.Equal(t, 2, res.Entries)
	assert.Equal(t, srt, res.Path)
	assert.Equal(t, []string{"clip.mp4"}, fake.calls)

	b, err := os.ReadFile(srt)
	require.NoError(t, err)
	want := "1\n00:00:00,000 --> 00:00:01,234\nhalo\n\n" +
		"2\n00:01:01,500 --> 00:01:03,000\nkok bisa?\n\n"
	assert.Equal(t, want, string(b))
}

func TestGenerate_TranscriberError(t *testing.T) {
	fake := &fakeTranscriber{err: errors.New("model missing")}
	srt := filepath.Join(t.TempDir(), "temp_1.srt")

	res := NewGenerator(fake, zerolog.Nop()).Generate(context.Background(), "clip.mp4", srt)
	assert.False(t, res.OK)
	assert.ErrorContains(t, res.Err, "model missing")
	assert.NoFileExists(t, srt)
}

func TestGenerate_NoSpeech(t *testing.T) {
	srt := filepath.Join(t.TempDir(), "temp_1.srt")
	res := NewGenerator(&fakeTranscriber{}, zerolog.Nop()).Generate(context.Background(), "clip.mp4", srt)
	assert.False(t, res.OK)
	assert.ErrorIs(t, res.Err, ErrNoSpeech)
	assert.NoFileExists(t, srt)
}

func TestGenerate_UnwritablePath(t *testing.T) {
	fake := &fakeTranscriber{tr: types.Transcript{Segments: []types.Segment{{Start: 0, End: 1, Text: "x"}}}}
	srt := filepath.Join(t.TempDir(), "missing", "temp_1.srt")
	res := NewGenerator(fake, zerolog.Nop()).Generate(context.Background(), "clip.mp4", srt)
	assert.False(t, res.OK)
	assert.Error(t, res.Err)
}
