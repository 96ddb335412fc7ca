package types

import (
	"fmt"
	"time"
)

type Transcript struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}

type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func (s Segment) Duration() float64 { return s.End - s.Start }

// HeatMarker is one entry of the platform "most replayed" signal.
type HeatMarker struct {
	StartMillis    float64
	DurationMillis float64
	Intensity      float64
}

// Source records where a candidate came from.
type Source string

const (
	SourcePlatform  Source = "platform_signal"
	SourceHeuristic Source = "heuristic"
)

type Candidate struct {
	Start    time.Duration
	Duration time.Duration
	Score    float64
	Source   Source
}

func (c Candidate) End() time.Duration { return c.Start + c.Duration }

type CropMode string

const (
	CropDefault    CropMode = "default"
	CropSplitLeft  CropMode = "split_left"
	CropSplitRight CropMode = "split_right"
)

func ParseCropMode(s string) (CropMode, error) {
	switch CropMode(s) {
	case CropDefault, CropSplitLeft, CropSplitRight:
		return CropMode(s), nil
	case "":
		return CropDefault, nil
	}
	return "", fmt.Errorf("unknown crop mode %q (want default, split_left or split_right)", s)
}

func (m CropMode) Describe() string {
	switch m {
	case CropSplitLeft:
		return "Split crop (bottom-left facecam)"
	case CropSplitRight:
		return "Split crop (bottom-right facecam)"
	default:
		return "Default center crop"
	}
}

// ClipJob is the rendering unit for one candidate.
type ClipJob struct {
	Index     int
	Candidate Candidate
	Start     time.Duration
	End       time.Duration
	CropMode  CropMode
	Captions  bool
}

// Encoding holds the encoder parameters handed to the media transform.
type Encoding struct {
	VideoCodec   string
	Preset       string
	CRF          int
	AudioCodec   string
	AudioBitrate string
	CopyAudio    bool
}

// TransformSpec declares one filter/encode pass. Exactly one of
// VideoFilter and FilterComplex is set.
type TransformSpec struct {
	Input         string
	Output        string
	VideoFilter   string
	FilterComplex string
	Maps          []string
	Encoding      Encoding
}

type Manifest struct {
	Source   string         `json:"source"`
	VideoID  string         `json:"video_id"`
	Strategy Source         `json:"strategy"`
	CropMode CropMode       `json:"crop_mode"`
	Clips    []ManifestClip `json:"clips"`
}

type ManifestClip struct {
	ID        string   `json:"id"`
	StartSec  float64  `json:"start_sec"`
	EndSec    float64  `json:"end_sec"`
	Score     float64  `json:"score"`
	Source    Source   `json:"source"`
	File      string   `json:"file"`
	Captioned bool     `json:"captioned"`
	SizeBytes int64    `json:"size_bytes"`
	CropMode  CropMode `json:"crop_mode"`
	// DurationSec is the probed length of the rendered file, 0 if unknown.
	DurationSec float64 `json:"duration_sec,omitempty"`
}
