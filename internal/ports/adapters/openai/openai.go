package openai

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/rs/zerolog"
	goopenai "github.com/sashabaranov/go-openai"

	"github.com/forPelevin/heatclip/internal/types"
)

type Config struct {
	APIKey       string
	BaseURL      string
	AllowedHosts []string
	Model        string
	Language     string
}

// Adapter transcribes audio through the OpenAI audio API.
type Adapter struct {
	cli      *goopenai.Client
	apiKey   string
	model    string
	language string
	log      zerolog.Logger
}

func New(cfg Config, logger zerolog.Logger) (*Adapter, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("OPENAI_API_KEY is required for the openai transcriber")
	}
	if err := ValidateBaseURL(cfg.BaseURL, cfg.AllowedHosts); err != nil {
		return nil, err
	}
	c := goopenai.DefaultConfig(cfg.APIKey)
	c.BaseURL = normalizeBaseURL(cfg.BaseURL)
	return newWithClientConfig(c, cfg, logger), nil
}

func newWithClientConfig(c goopenai.ClientConfig, cfg Config, logger zerolog.Logger) *Adapter {
	model := cfg.Model
	if model == "" {
		model = goopenai.Whisper1
	}
	return &Adapter{
		cli:      goopenai.NewClientWithConfig(c),
		apiKey:   cfg.APIKey,
		model:    model,
		language: cfg.Language,
		log:      logger,
	}
}

// Transcribe uploads mediaPath and returns its timed segments. The API
// answers in one response, so onSegment fires after the call returns.
func (a *Adapter) Transcribe(ctx context.Context, mediaPath string, onSegment func(types.Segment)) (types.Transcript, error) {
	resp, err := a.cli.CreateTranscription(ctx, goopenai.AudioRequest{
		Model:    a.model,
		FilePath: mediaPath,
		Language: a.language,
		Format:   goopenai.AudioResponseFormatVerboseJSON,
	})
	if err != nil {
		return types.Transcript{}, fmt.Errorf("openai transcription: %s", truncate(redactSecrets(err.Error(), a.apiKey), 500))
	}

	tr := types.Transcript{Language: resp.Language}
	for _, s := range resp.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		seg := types.Segment{Start: s.Start, End: s.End, Text: text}
		tr.Segments = append(tr.Segments, seg)
		if onSegment != nil {
			onSegment(seg)
		}
	}
	if len(tr.Segments) == 0 && strings.TrimSpace(resp.Text) != "" {
		seg := types.Segment{Start: 0, End: resp.Duration, Text: strings.TrimSpace(resp.Text)}
		tr.Segments = append(tr.Segments, seg)
		if onSegment != nil {
			onSegment(seg)
		}
	}
	a.log.Debug().Int("segments", len(tr.Segments)).Str("language", tr.Language).Msg("openai transcription done")
	return tr, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

var (
	bearerTokenRE = regexp.MustCompile(`(?i)\bBearer\s+[A-Za-z0-9._-]+\b`)
	authHeaderRE  = regexp.MustCompile(`(?i)(authorization\s*[:=]\s*)([^\n\r,;]+)`)
	apiKeyFieldRE = regexp.MustCompile(`(?i)(api[_-]?key\s*[:=]\s*)([^\n\r,;]+)`)
)

func redactSecrets(s, apiKey string) string {
	if s == "" {
		return s
	}
	out := s
	if apiKey != "" {
		out = strings.ReplaceAll(out, apiKey, "[REDACTED]")
	}
	out = bearerTokenRE.ReplaceAllString(out, "Bearer [REDACTED]")
	out = authHeaderRE.ReplaceAllString(out, "${1}[REDACTED]")
	out = apiKeyFieldRE.ReplaceAllString(out, "${1}[REDACTED]")
	return out
}
