package parser

import (
	"strings"

	"github.com/dgallion1/towxml/internal/towxml"
)

// dialect accumulates output lines. Every block becomes exactly one line,
// so embedded newlines are folded into spaces.
type dialect struct {
	lines []string
}

func (d *dialect) heading(level int, s string) {
	s = oneLine(s)
	if s == "" {
		return
	}
	switch {
	case level <= 1:
		d.lines = append(d.lines, "# "+s)
	case level == 2:
		d.lines = append(d.lines, "## "+s)
	default:
		d.lines = append(d.lines, "### "+s)
	}
}

func (d *dialect) item(s string) {
	if s = oneLine(s); s != "" {
		d.lines = append(d.lines, "* "+s)
	}
}

func (d *dialect) para(s string) {
	if s = oneLine(s); s != "" {
		d.lines = append(d.lines, literal(s))
	}
}

// raw appends a line verbatim apart from trailing whitespace. Used for code
// where indentation matters.
func (d *dialect) raw(s string) {
	s = strings.TrimRight(s, " \t\r\n")
	if strings.TrimSpace(s) != "" {
		d.lines = append(d.lines, literal(s))
	}
}

func (d *dialect) rule() {
	d.lines = append(d.lines, "---")
}

func (d *dialect) String() string {
	return strings.Join(d.lines, "\n")
}

// literal stops text that starts like a heading, list item or rule from being
// rendered as one. A leading space defeats every prefix rule and the exact
// "---" match.
func literal(s string) string {
	switch towxml.Classify(s) {
	case "heading1", "heading2", "heading3", "listItem", "rule":
		return " " + s
	}
	return s
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// strong wraps s in bold markers unless it is blank.
func strong(s string) string {
	if strings.TrimSpace(s) == "" {
		return s
	}
	return "**" + s + "**"
}
