package whispercpp

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/forPelevin/heatclip/internal/ports"
	"github.com/forPelevin/heatclip/internal/types"
)

// Adapter transcribes media with a local whisper.cpp build. Input is first
// converted to 16 kHz mono WAV through the audio extractor.
type Adapter struct {
	bin     string
	model   string
	audio   ports.AudioExtractor
	workDir string
	log     zerolog.Logger
}

func New(binPath, modelPath string, audio ports.AudioExtractor, workDir string, logger zerolog.Logger) *Adapter {
	return &Adapter{bin: binPath, model: modelPath, audio: audio, workDir: workDir, log: logger}
}

func (a *Adapter) Transcribe(ctx context.Context, mediaPath string, onSegment func(types.Segment)) (types.Transcript, error) {
	tmp, err := os.MkdirTemp(a.workDir, "whisper-*")
	if err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	wav := filepath.Join(tmp, "audio.wav")
	if err := a.audio.ExtractAudioMono16k(ctx, mediaPath, wav); err != nil {
		return types.Transcript{}, err
	}

	outPrefix := filepath.Join(tmp, "whisper")
	args := []string{
		"-m", a.model,
		"-f", wav,
		"-l", "auto",
		"-oj",
		"-of", outPrefix,
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return types.Transcript{}, err
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp start: %w", err)
	}

	streamed := scanSegments(stdout, onSegment)

	if err := cmd.Wait(); err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp failed: %w\n%s", err, stderr.String())
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		if len(streamed) > 0 {
			a.log.Warn().Err(err).Msg("whisper.cpp json missing, using streamed segments")
			return types.Transcript{Segments: streamed}, nil
		}
		return types.Transcript{}, err
	}
	return parseJSON(jb)
}

var lineRe = regexp.MustCompile(`^\[(\d+):(\d{2}):(\d{2})[.,](\d{3}) --> (\d+):(\d{2}):(\d{2})[.,](\d{3})\]\s*(.*)$`)

// scanSegments reads whisper.cpp progress lines from r until EOF.
func scanSegments(r io.Reader, onSegment func(types.Segment)) []types.Segment {
	var out []types.Segment
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		seg, ok := parseLine(sc.Text())
		if !ok {
			continue
		}
		out = append(out, seg)
		if onSegment != nil {
			onSegment(seg)
		}
	}
	return out
}

func parseLine(line string) (types.Segment, bool) {
	m := lineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return types.Segment{}, false
	}
	text := strings.TrimSpace(m[9])
	if text == "" {
		return types.Segment{}, false
	}
	return types.Segment{
		Start: clock(m[1], m[2], m[3], m[4]),
		End:   clock(m[5], m[6], m[7], m[8]),
		Text:  text,
	}, true
}

func clock(h, m, s, ms string) float64 {
	hi, _ := strconv.Atoi(h)
	mi, _ := strconv.Atoi(m)
	si, _ := strconv.Atoi(s)
	msi, _ := strconv.Atoi(ms)
	return float64(hi*3600+mi*60+si) + float64(msi)/1000
}

type whisperJSON struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []struct {
		Offsets struct {
			From int64 `json:"from"`
			To   int64 `json:"to"`
		} `json:"offsets"`
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseJSON(b []byte) (types.Transcript, error) {
	var wj whisperJSON
	if err := json.Unmarshal(b, &wj); err != nil {
		return types.Transcript{}, fmt.Errorf("whisper.cpp json: %w", err)
	}
	tr := types.Transcript{Language: wj.Result.Language}
	for _, s := range wj.Transcription {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		tr.Segments = append(tr.Segments, types.Segment{
			Start: float64(s.Offsets.From) / 1000,
			End:   float64(s.Offsets.To) / 1000,
			Text:  text,
		})
	}
	return tr, nil
}
