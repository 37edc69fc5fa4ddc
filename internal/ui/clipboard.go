package ui

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

// ErrClipboardUnavailable is returned when neither the native clipboard nor a
// command-line tool can be reached.
var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// Clipboard copies text to the system clipboard. It prefers the native clipboard and
// falls back to pbcopy, xclip, xsel, wl-copy or clip.
type Clipboard struct {
	once   sync.Once
	native bool
	tool   []string

	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
}

// NewClipboard returns a Clipboard. Availability is probed on first use.
func NewClipboard() *Clipboard {
	return &Clipboard{lookPath: exec.LookPath}
}

func (c *Clipboard) probe() {
	c.once.Do(func() {
		if clipboard.Init() == nil {
			c.native = true
			return
		}
		c.tool = fallbackTool(runtime.GOOS, c.lookPath)
	})
}

func fallbackTool(goos string, lookPath func(string) (string, error)) []string {
	var candidates [][]string
	switch goos {
	case "darwin":
		candidates = [][]string{{"pbcopy"}}
	case "windows":
		candidates = [][]string{{"clip"}}
	default:
		candidates = [][]string{
			{"wl-copy"},
			{"xclip", "-selection", "clipboard"},
			{"xsel", "--clipboard", "--input"},
		}
	}
	for _, c := range candidates {
		if _, err := lookPath(c[0]); err == nil {
			return c
		}
	}
	return nil
}

// Available reports whether Write can succeed.
func (c *Clipboard) Available() bool {
	c.probe()
	return c.native || c.tool != nil
}

// Write copies text.
func (c *Clipboard) Write(text string) error {
	c.probe()
	if c.native {
		clipboard.Write(clipboard.FmtText, []byte(text))
		return nil
	}
	if c.tool == nil {
		return ErrClipboardUnavailable
	}

	cmd := exec.Command(c.tool[0], c.tool[1:]...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", c.tool[0], err)
	}
	return nil
}
