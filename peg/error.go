package peg

import (
	"fmt"
	"sort"
	"strings"
)

// SyntaxError reports text that does not match the grammar.
//
// Offset is the farthest byte offset the matcher reached before failing, which
// is where the input stops making sense to the grammar.
type SyntaxError struct {
	Rule     string   // entry rule
	Offset   int      // zero-based byte offset
	Expected []string // what would have matched at Offset, sorted
	Found    string   // text found at Offset, empty at end of input
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: syntax error at offset %d: %s", e.Rule, e.Offset, e.Detail())
}

// Detail describes the mismatch without its location.
func (e *SyntaxError) Detail() string {
	var b strings.Builder
	if e.Found == "" {
		b.WriteString("unexpected end of input")
	} else {
		fmt.Fprintf(&b, "unexpected %q", e.Found)
	}
	if len(e.Expected) > 0 {
		fmt.Fprintf(&b, ", expected %s", strings.Join(e.Expected, " or "))
	}
	return b.String()
}

// GrammarError reports a malformed grammar document.
type GrammarError struct {
	Rule string
	Line int
	Msg  string
}

func (e *GrammarError) Error() string {
	if e.Rule == "" {
		return fmt.Sprintf("grammar:%d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("grammar:%d: rule %s: %s", e.Line, e.Rule, e.Msg)
}

// failure tracks the farthest position any terminal failed to match.
type failure struct {
	offset   int
	expected map[string]struct{}
}

func (f *failure) record(offset int, what string) {
	switch {
	case offset > f.offset:
		f.offset = offset
		f.expected = map[string]struct{}{what: {}}
	case offset == f.offset:
		if f.expected == nil {
			f.expected = make(map[string]struct{})
		}
		f.expected[what] = struct{}{}
	}
}

func (f *failure) list() []string {
	out := make([]string, 0, len(f.expected))
	for what := range f.expected {
		out = append(out, what)
	}
	sort.Strings(out)
	return out
}

func foundAt(text string, offset int) string {
	if offset >= len(text) {
		return ""
	}
	rest := text[offset:]
	if i := strings.IndexAny(rest, " \t\r\n"); i > 0 {
		rest = rest[:i]
	} else if i == 0 {
		rest = rest[:1]
	}
	if len(rest) > 12 {
		rest = rest[:12]
	}
	return rest
}
