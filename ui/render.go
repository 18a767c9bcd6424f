package ui

import (
	"strings"

	"github.com/best8oy/LyricsCMUS/state"
	"github.com/mattn/go-runewidth"
)

// Render draws a whole frame: a title bar, the lyrics body starting at the
// scroll offset, and a status bar. The result has exactly height rows of
// exactly width cells; long lines are cut, never wrapped.
func Render(s state.Snapshot, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	rows := make([]string, 0, height)
	rows = append(rows, barStyle.Render(fit(s.Title, width)))
	if height == 1 {
		return rows[0]
	}
	for i := 0; i < height-2; i++ {
		var line string
		if idx := s.Scroll + i; idx >= 0 && idx < len(s.Body) {
			line = s.Body[idx]
		}
		rows = append(rows, bodyStyle.Render(fit(line, width)))
	}
	rows = append(rows, barStyle.Render(fit(s.Status, width)))
	return strings.Join(rows, "\n")
}

// fit truncates or pads s to exactly width terminal cells.
func fit(s string, width int) string {
	s = runewidth.Truncate(sanitize(s), width, "")
	return runewidth.FillRight(s, width)
}

// sanitize expands tabs and drops control characters that would move the
// cursor and break the grid.
func sanitize(s string) string {
	if strings.IndexFunc(s, isControl) < 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\t':
			b.WriteString("    ")
		case isControl(r):
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}
