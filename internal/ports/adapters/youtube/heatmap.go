package youtube

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/forPelevin/heatclip/internal/types"
)

const (
	DefaultTimeout  = 20 * time.Second
	DefaultMaxBytes = 16 << 20
	watchBase       = "https://www.youtube.com/watch?v="
)

var markersRe = regexp.MustCompile(`(?s)"markers":\s*(\[.*?\])\s*,\s*"?markersMetadata"?`)

// Client reads the "most replayed" heatmap embedded in the watch page.
type Client struct {
	http     *http.Client
	baseURL  string
	maxBytes int64
	log      zerolog.Logger
}

func New(logger zerolog.Logger) *Client {
	return &Client{
		http:     &http.Client{Timeout: DefaultTimeout},
		baseURL:  watchBase,
		maxBytes: DefaultMaxBytes,
		log:      logger,
	}
}

// WithBaseURL points the client at another watch endpoint; the video id is
// appended verbatim.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = u
	return c
}

// MostReplayed returns the heat markers for videoID. A page without a
// heatmap yields an empty slice and no error.
func (c *Client) MostReplayed(ctx context.Context, videoID string) ([]types.HeatMarker, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+videoID, nil)
	if err != nil {
		return nil, fmt.Errorf("heatmap: invalid url: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("heatmap: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("heatmap: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("heatmap: read body: %w", err)
	}

	markers := ParseMarkers(findMarkersScript(string(body)))
	c.log.Debug().Str("video", videoID).Int("markers", len(markers)).Msg("heatmap parsed")
	return markers, nil
}

// findMarkersScript returns the text of the first <script> that mentions
// markers, or the whole page when none does.
func findMarkersScript(page string) string {
	doc, err := html.Parse(strings.NewReader(page))
	if err != nil {
		return page
	}
	var found string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode && n.DataAtom == atom.Script {
			var b strings.Builder
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.TextNode {
					b.WriteString(c.Data)
				}
			}
			if s := b.String(); strings.Contains(s, `"markers"`) {
				found = s
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	if found == "" {
		return page
	}
	return found
}

type rawMarker struct {
	Renderer       *rawMarker `json:"heatMarkerRenderer"`
	StartMillis    *flexFloat `json:"startMillis"`
	DurationMillis *flexFloat `json:"durationMillis"`
	Intensity      *flexFloat `json:"intensityScoreNormalized"`
}

// ParseMarkers extracts heat markers from page text. Entries may be bare or
// wrapped in heatMarkerRenderer; entries missing start or duration are
// skipped and a missing intensity reads as 0.
func ParseMarkers(text string) []types.HeatMarker {
	m := markersRe.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal([]byte(strings.ReplaceAll(m[1], `\"`, `"`)), &raw); err != nil {
		return nil
	}
	out := make([]types.HeatMarker, 0, len(raw))
	for _, r := range raw {
		var rm rawMarker
		if err := json.Unmarshal(r, &rm); err != nil {
			continue
		}
		if rm.Renderer != nil {
			rm = *rm.Renderer
		}
		if rm.StartMillis == nil || rm.DurationMillis == nil {
			continue
		}
		hm := types.HeatMarker{
			StartMillis:    float64(*rm.StartMillis),
			DurationMillis: float64(*rm.DurationMillis),
		}
		if rm.Intensity != nil {
			hm.Intensity = float64(*rm.Intensity)
		}
		out = append(out, hm)
	}
	return out
}

// flexFloat accepts both JSON numbers and numeric strings.
type flexFloat float64

func (f *flexFloat) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*f = flexFloat(v)
	return nil
}
