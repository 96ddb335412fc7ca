package whispercpp

import (
	"strings"
	"testing"

	"github.com/forPelevin/heatclip/internal/types"
)

func TestParseLine(t *testing.T) {
	seg, ok := parseLine("[00:01:02.500 --> 00:01:05.000]   wow that was insane")
	if !ok {
		t.Fatal("expected segment")
	}
	if seg.Start != 62.5 || seg.End != 65 {
		t.Fatalf("unexpected window %v-%v", seg.Start, seg.End)
	}
	if seg.Text != "wow that was insane" {
		t.Fatalf("unexpected text %q", seg.Text)
	}

	for _, line := range []string{
		"whisper_init_from_file: loading model",
		"[00:00:00.000 --> 00:00:01.000]   ",
		"",
	} {
		if _, ok := parseLine(line); ok {
			t.Fatalf("line %q should be ignored", line)
		}
	}
}

func TestScanSegments_CallsBack(t *testing.T) {
	in := strings.Join([]string{
		"system_info: n_threads = 4",
		"[00:00:00.000 --> 00:00:02.000]  first",
		"[00:00:02.000 --> 00:00:04.000]  second",
	}, "\n")
	var seen []types.Segment
	got := scanSegments(strings.NewReader(in), func(s types.Segment) { seen = append(seen, s) })
	if len(got) != 2 || len(seen) != 2 {
		t.Fatalf("expected 2 segments, got %d / %d", len(got), len(seen))
	}
	if seen[1].Text != "second" || seen[1].Start != 2 {
		t.Fatalf("unexpected %+v", seen[1])
	}
	if got := scanSegments(strings.NewReader(in), nil); len(got) != 2 {
		t.Fatalf("nil callback should still collect segments")
	}
}

func TestParseJSON(t *testing.T) {
	raw := `{
	  "result": {"language": "id"},
	  "transcription": [
	    {"offsets": {"from": 0, "to": 2500}, "text": " halo semua"},
	    {"offsets": {"from": 2500, "to": 3000}, "text": "   "},
	    {"offsets": {"from": 3000, "to": 7250}, "text": " kok bisa?"}
	  ]
	}`
	tr, err := parseJSON([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	if tr.Language != "id" {
		t.Fatalf("language %q", tr.Language)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("expected blank segment dropped, got %d", len(tr.Segments))
	}
	if tr.Segments[1].Start != 3 || tr.Segments[1].End != 7.25 || tr.Segments[1].Text != "kok bisa?" {
		t.Fatalf("unexpected %+v", tr.Segments[1])
	}
	if _, err := parseJSON([]byte("{")); err == nil {
		t.Fatal("expected error on broken json")
	}
}
