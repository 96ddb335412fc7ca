package cli

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strings"
)

// prompter asks questions on an input/output pair. When not interactive,
// or once input is exhausted, every question yields its default.
type prompter struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	eof         bool
}

func newPrompter(in io.Reader, out io.Writer, interactive bool) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out, interactive: interactive}
}

func (p *prompter) Println(s string) {
	if p.interactive {
		fmt.Fprintln(p.out, s)
	}
}

func (p *prompter) Printf(format string, args ...any) {
	if p.interactive {
		fmt.Fprintf(p.out, format, args...)
	}
}

// Line prints q and reads one trimmed line. Source links are always read,
// even in non-interactive mode, since there is no default for them.
func (p *prompter) Line(q string) string {
	if p.eof {
		return ""
	}
	fmt.Fprint(p.out, q)
	s, err := p.in.ReadString('\n')
	if err != nil {
		p.eof = true
	}
	return strings.TrimSpace(s)
}

// YesNo accepts "y" or "yes"; any other answer is no.
func (p *prompter) YesNo(q string, def bool) bool {
	if !p.interactive || p.eof {
		return def
	}
	ans := strings.ToLower(p.Line(q))
	if ans == "" && p.eof {
		return def
	}
	return ans == "y" || ans == "yes"
}

// choose repeats q until the answer is a key of opts.
func choose[T any](p *prompter, q string, opts map[string]T, def T) T {
	if !p.interactive {
		return def
	}
	for !p.eof {
		if v, ok := opts[p.Line(q)]; ok {
			return v
		}
		if !p.eof {
			fmt.Fprintf(p.out, "Invalid choice. Please enter one of %s.\n", strings.Join(sortedKeys(opts), ", "))
		}
	}
	return def
}

func sortedKeys[T any](m map[string]T) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
