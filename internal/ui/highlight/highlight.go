// Package highlight renders SQL with ANSI colours.
package highlight

import (
	"bytes"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/x/ansi"
)

// SQL highlights src with the named chroma style for a 256-colour terminal.
// The input is returned unchanged when highlighting fails.
func SQL(src, style string) string {
	if src == "" {
		return ""
	}
	if style == "" {
		style = "monokai"
	}

	var buf bytes.Buffer
	if err := quick.Highlight(&buf, src, "sql", "terminal256", style); err != nil {
		return src
	}
	out := buf.String()
	// lexers append a newline the source may not have
	if !strings.HasSuffix(src, "\n") && strings.HasSuffix(ansi.Strip(out), "\n") {
		i := strings.LastIndex(out, "\n")
		out = out[:i] + out[i+1:]
	}
	return out
}

// Lines highlights src and splits it into display lines. Line count matches src.
func Lines(src, style string) []string {
	want := strings.Count(src, "\n") + 1
	lines := strings.Split(SQL(src, style), "\n")
	if len(lines) != want {
		return strings.Split(src, "\n")
	}
	return lines
}
