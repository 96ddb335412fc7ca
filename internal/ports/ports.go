package ports

import (
	"context"
	"time"

	"github.com/forPelevin/heatclip/internal/types"
)

// SignalSource reports the platform's "most replayed" markers for a video.
// An empty slice means the video has no signal.
type SignalSource interface {
	MostReplayed(ctx context.Context, videoID string) ([]types.HeatMarker, error)
}

type MediaFetcher interface {
	Duration(ctx context.Context, videoID string) (time.Duration, error)
	FetchSection(ctx context.Context, videoID string, start, end time.Duration, outPath string) error
	FetchAudio(ctx context.Context, videoID string, outPath string) error
}

// Transcriber converts speech in mediaPath to timed segments. onSegment,
// when non-nil, is called as segments become available.
type Transcriber interface {
	Transcribe(ctx context.Context, mediaPath string, onSegment func(types.Segment)) (types.Transcript, error)
}

type MediaTransform interface {
	Transform(ctx context.Context, spec types.TransformSpec) error
}

type AudioExtractor interface {
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
}
