package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forPelevin/heatclip/internal/captions"
	"github.com/forPelevin/heatclip/internal/domain/crop"
	"github.com/forPelevin/heatclip/internal/domain/subtitles"
	"github.com/forPelevin/heatclip/internal/types"
)

type fakeFetcher struct {
	err       error
	skipWrite bool
	calls     int
}

func (f *fakeFetcher) Duration(context.Context, string) (time.Duration, error) { return time.Hour, nil }

func (f *fakeFetcher) FetchAudio(context.Context, string, string) error { return errors.New("not used") }

func (f *fakeFetcher) FetchSection(_ context.Context, _ string, _, _ time.Duration, outPath string) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	if f.skipWrite {
		return nil
	}
	return os.WriteFile(outPath, []byte("section"), 0o644)
}

// fakeTransform copies input to output tagged with the pass kind. Passes
// listed in fail write a partial output and then return an error.
type fakeTransform struct {
	fail  map[string]bool
	specs []types.TransformSpec
}

func passKind(spec types.TransformSpec) string {
	if strings.HasPrefix(spec.VideoFilter, "subtitles=") {
		return "burn"
	}
	return "crop"
}

func (f *fakeTransform) Transform(_ context.Context, spec types.TransformSpec) error {
	f.specs = append(f.specs, spec)
	kind := passKind(spec)
	if f.fail[kind] {
		_ = os.WriteFile(spec.Output, []byte("partial"), 0o644)
		return errors.New("ffmpeg " + kind + " exploded")
	}
	in, err := os.ReadFile(spec.Input)
	if err != nil {
		return err
	}
	return os.WriteFile(spec.Output, append(in, []byte("|"+kind)...), 0o644)
}

type fakeCaptions struct {
	fail  bool
	calls int
}

func (f *fakeCaptions) Generate(_ context.Context, _ string, srtPath string) captions.Result {
	f.calls++
	if f.fail {
		return captions.Result{Err: errors.New("no model")}
	}
	_ = os.WriteFile(srtPath, []byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n\n"), 0o644)
	return captions.Result{OK: true, Path: srtPath, Entries: 1}
}

type harness struct {
	fetch   *fakeFetcher
	tf      *fakeTransform
	caps    *fakeCaptions
	r       *Renderer
	workDir string
	outDir  string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		fetch:   &fakeFetcher{},
		tf:      &fakeTransform{fail: map[string]bool{}},
		caps:    &fakeCaptions{},
		workDir: t.TempDir(),
		outDir:  t.TempDir(),
	}
	h.r = New(Deps{Fetcher: h.fetch, Transform: h.tf, Captions: h.caps}, Params{
		Padding: 10 * time.Second,
		Layout:  crop.Layout{TopHeight: 960, BottomHeight: 320},
		Style:   subtitles.DefaultStyle(),
	}, "vid", h.workDir, h.outDir, zerolog.Nop())
	return h
}

func (h *harness) job(index int, captions bool, mode types.CropMode) types.ClipJob {
	c := types.Candidate{Start: 60 * time.Second, Duration: 10 * time.Second, Score: 0.9, Source: types.SourcePlatform}
	return h.r.Job(index, c, time.Hour, mode, captions)
}

func assertNoTemps(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		t.Errorf("unexpected leftover %s", e.Name())
	}
}

func TestWindow(t *testing.T) {
	pad := 10 * time.Second
	tests := []struct {
		name       string
		c          types.Candidate
		total      time.Duration
		start, end time.Duration
	}{
		{"middle", types.Candidate{Start: 60 * time.Second, Duration: 5 * time.Second}, time.Hour, 50 * time.Second, 75 * time.Second},
		{"clamped at zero", types.Candidate{Start: 4 * time.Second, Duration: 5 * time.Second}, time.Hour, 0, 19 * time.Second},
		{"clamped at total", types.Candidate{Start: 55 * time.Second, Duration: 5 * time.Second}, time.Minute, 45 * time.Second, time.Minute},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, e := Window(tt.c, pad, tt.total)
			assert.Equal(t, tt.start, s)
			assert.Equal(t, tt.end, e)
		})
	}
}

func TestRender_NoCaptionsPromotesCropped(t *testing.T) {
	h := newHarness(t)
	out := h.r.Render(context.Background(), h.job(1, false, types.CropDefault))

	require.Equal(t, StatusSucceeded, out.Status, "err: %v", out.Err)
	assert.False(t, out.Captioned)
	assert.Equal(t, filepath.Join(h.outDir, "clip_1.mp4"), out.Output)
	b, err := os.ReadFile(out.Output)
	require.NoError(t, err)
	assert.Equal(t, "section|crop", string(b))
	assertNoTemps(t, h.workDir)
	assert.Zero(t, h.caps.calls)

	require.Len(t, h.tf.specs, 1)
	assert.Equal(t, "scale=-2:1280,crop=720:1280:(iw-720)/2:(ih-1280)/2", h.tf.specs[0].VideoFilter)
	assert.Equal(t, crop.CropEncoding(), h.tf.specs[0].Encoding)
}

func TestRender_SplitModeUsesFilterComplex(t *testing.T) {
	h := newHarness(t)
	out := h.r.Render(context.Background(), h.job(2, false, types.CropSplitRight))
	require.Equal(t, StatusSucceeded, out.Status)
	require.Len(t, h.tf.specs, 1)
	assert.Empty(t, h.tf.specs[0].VideoFilter)
	assert.Contains(t, h.tf.specs[0].FilterComplex, "vstack=inputs=2")
	assert.Equal(t, []string{"[out]", "0:a?"}, h.tf.specs[0].Maps)
}

func TestRender_CaptionsBurned(t *testing.T) {
	h := newHarness(t)
	out := h.r.Render(context.Background(), h.job(1, true, types.CropDefault))

	require.Equal(t, StatusSucceeded, out.Status)
	assert.True(t, out.Captioned)
	b, err := os.ReadFile(out.Output)
	require.NoError(t, err)
	assert.Equal(t, "section|crop|burn", string(b))
	assertNoTemps(t, h.workDir)

	require.Len(t, h.tf.specs, 2)
	burn := h.tf.specs[1]
	assert.Contains(t, burn.VideoFilter, "temp_1.srt")
	assert.True(t, burn.Encoding.CopyAudio)
}

func TestRender_TooShortIsSkipped(t *testing.T) {
	h := newHarness(t)
	h.r.p.Padding = 0
	c := types.Candidate{Start: 10 * time.Second, Duration: 2 * time.Second}
	out := h.r.Render(context.Background(), h.r.Job(1, c, time.Hour, types.CropDefault, true))

	assert.Equal(t, StatusSkipped, out.Status)
	assert.Zero(t, h.fetch.calls)
	assertNoTemps(t, h.workDir)
	assertNoTemps(t, h.outDir)
}

func TestRender_ShortAtEndOfSource(t *testing.T) {
	h := newHarness(t)
	c := types.Candidate{Start: 100 * time.Second, Duration: 5 * time.Second}
	// total shorter than the candidate start leaves under three seconds
	out := h.r.Render(context.Background(), h.r.Job(1, c, 92*time.Second, types.CropDefault, false))
	assert.Equal(t, StatusSkipped, out.Status)
}

func TestRender_FetchFailures(t *testing.T) {
	for name, fetch := range map[string]*fakeFetcher{
		"fetch error":  {err: errors.New("403")},
		"missing file": {skipWrite: true},
	} {
		t.Run(name, func(t *testing.T) {
			h := newHarness(t)
			h.r.deps.Fetcher = fetch
			out := h.r.Render(context.Background(), h.job(1, true, types.CropDefault))
			assert.Equal(t, StatusFailed, out.Status)
			assert.Error(t, out.Err)
			assert.Empty(t, out.Output)
			assertNoTemps(t, h.workDir)
			assertNoTemps(t, h.outDir)
		})
	}
}

func TestRender_TransformFailureLeavesNothing(t *testing.T) {
	h := newHarness(t)
	h.tf.fail["crop"] = true
	out := h.r.Render(context.Background(), h.job(3, true, types.CropSplitLeft))

	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorContains(t, out.Err, "crop exploded")
	assertNoTemps(t, h.workDir)
	assertNoTemps(t, h.outDir)
	assert.Zero(t, h.caps.calls)
}

func TestRender_CaptionFailureFallsBackToCropped(t *testing.T) {
	h := newHarness(t)
	h.caps.fail = true
	out := h.r.Render(context.Background(), h.job(1, true, types.CropDefault))

	require.Equal(t, StatusSucceeded, out.Status)
	assert.False(t, out.Captioned)
	b, err := os.ReadFile(out.Output)
	require.NoError(t, err)
	assert.Equal(t, "section|crop", string(b))
	assertNoTemps(t, h.workDir)
}

func TestRender_BurnFailureFallsBackToCropped(t *testing.T) {
	h := newHarness(t)
	h.tf.fail["burn"] = true
	out := h.r.Render(context.Background(), h.job(1, true, types.CropDefault))

	require.Equal(t, StatusSucceeded, out.Status)
	assert.False(t, out.Captioned)
	b, err := os.ReadFile(out.Output)
	require.NoError(t, err)
	assert.Equal(t, "section|crop", string(b))
	assertNoTemps(t, h.workDir)
}

func TestRender_CancelledAfterFetch(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	h.r.deps.Fetcher = fetchThen(h.fetch, cancel)

	out := h.r.Render(ctx, h.job(1, false, types.CropDefault))
	assert.Equal(t, StatusFailed, out.Status)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Empty(t, h.tf.specs)
	assertNoTemps(t, h.workDir)
}

type cancellingFetcher struct {
	*fakeFetcher
	cancel context.CancelFunc
}

func fetchThen(f *fakeFetcher, cancel context.CancelFunc) cancellingFetcher {
	return cancellingFetcher{fakeFetcher: f, cancel: cancel}
}

func (c cancellingFetcher) FetchSection(ctx context.Context, id string, s, e time.Duration, out string) error {
	err := c.fakeFetcher.FetchSection(ctx, id, s, e, out)
	c.cancel()
	return err
}

func TestPromote_MissingSource(t *testing.T) {
	dir := t.TempDir()
	err := promote(filepath.Join(dir, "nope.mp4"), filepath.Join(dir, "out.mp4"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
