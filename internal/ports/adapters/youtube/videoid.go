package youtube

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrInvalidSource is returned when a reference does not name a video.
var ErrInvalidSource = errors.New("invalid video reference")

var idRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)

// VideoID extracts the video id from a watch, short-link or shorts URL, or
// accepts a bare 11-character id.
func VideoID(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if idRe.MatchString(raw) {
		return raw, nil
	}
	if raw != "" && !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, raw)
	}

	var id string
	switch strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.") {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "m.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"):
			id = strings.SplitN(strings.TrimPrefix(u.Path, "/shorts/"), "/", 2)[0]
		}
	}
	if !idRe.MatchString(id) {
		return "", fmt.Errorf("%w: %q", ErrInvalidSource, raw)
	}
	return id, nil
}
