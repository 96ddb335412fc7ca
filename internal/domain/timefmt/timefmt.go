// Package timefmt holds the small time helpers shared by the CLI and the
// fallback transcription path.
package timefmt

import (
	"fmt"
	"time"
)

// seconds of processing per minute of audio, per whisper model size.
var transcribeSpeed = map[string]float64{
	"tiny":     5,
	"base":     8,
	"small":    15,
	"medium":   40,
	"large-v1": 90,
	"large-v2": 90,
	"large-v3": 90,
}

var modelSize = map[string]string{
	"tiny":     "75 MB",
	"base":     "142 MB",
	"small":    "466 MB",
	"medium":   "1.5 GB",
	"large-v1": "2.9 GB",
	"large-v2": "2.9 GB",
	"large-v3": "2.9 GB",
}

// EstimateTranscribeTime guesses how long a CPU transcription of media of
// the given length takes. Unknown models are treated like "small".
func EstimateTranscribeTime(media time.Duration, model string) time.Duration {
	speed, ok := transcribeSpeed[model]
	if !ok {
		speed = 15
	}
	est := media.Minutes() * speed
	return time.Duration(int64(est)) * time.Second
}

// ModelSize returns the approximate download size of a whisper model.
func ModelSize(model string) string {
	if s, ok := modelSize[model]; ok {
		return s
	}
	return "unknown size"
}

// Human renders d as "45s", "3m 5s" or "1h 2m". Sub-second parts are dropped.
func Human(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	s := int64(d / time.Second)
	switch {
	case s < 60:
		return fmt.Sprintf("%ds", s)
	case s < 3600:
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	default:
		return fmt.Sprintf("%dh %dm", s/3600, (s%3600)/60)
	}
}
