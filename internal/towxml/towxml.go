// Package towxml converts Markdown-like text into the node tree consumed by
// the mini-program rich-text component.
//
// The dialect is line oriented: every line is classified on its own and
// yields at most one top-level node. Only bold spans nest, and only inside a
// paragraph line.
package towxml

import (
	"strings"

	"github.com/dgallion1/towxml/internal/doctree"
)

const boldMarker = "**"

// lineRule converts a line into a node when match accepts it.
type lineRule struct {
	name  string
	match func(line string) bool
	build func(line string) doctree.Node
}

// rules is evaluated top to bottom and the first match wins. The order is
// significant: "# **x**" is a heading, not a bold paragraph.
var rules = []lineRule{
	{"heading1", prefixed("# "), stripped(doctree.KindHeading1, "# ")},
	{"heading2", prefixed("## "), stripped(doctree.KindHeading2, "## ")},
	{"heading3", prefixed("### "), stripped(doctree.KindHeading3, "### ")},
	{"listItem", prefixed("* "), stripped(doctree.KindListItem, "* ")},
	{"bold", hasBoldSpan, splitBold},
	{"rule", func(line string) bool { return line == "---" }, func(string) doctree.Node { return doctree.Rule() }},
	{"paragraph", func(line string) bool { return strings.TrimSpace(line) != "" }, plainParagraph},
}

// Render builds the node tree for markdown. It never fails: any input that
// matches no specific rule degrades to a plain paragraph, and blank lines
// are dropped.
func Render(markdown string) doctree.Tree {
	tree := doctree.Empty()
	for _, line := range strings.Split(markdown, "\n") {
		if n, ok := renderLine(line); ok {
			tree.Nodes = append(tree.Nodes, n)
		}
	}
	return tree
}

// Classify returns the name of the rule that handles line, or "" for a
// line that produces no node.
func Classify(line string) string {
	for _, r := range rules {
		if r.match(line) {
			return r.name
		}
	}
	return ""
}

func renderLine(line string) (doctree.Node, bool) {
	for _, r := range rules {
		if r.match(line) {
			return r.build(line), true
		}
	}
	return doctree.Node{}, false
}

func prefixed(prefix string) func(string) bool {
	return func(line string) bool { return strings.HasPrefix(line, prefix) }
}

func stripped(kind doctree.Kind, prefix string) func(string) doctree.Node {
	return func(line string) doctree.Node {
		return doctree.Wrap(kind, doctree.Text(line[len(prefix):]))
	}
}

func hasBoldSpan(line string) bool {
	return strings.Count(line, boldMarker) >= 2
}

// splitBold alternates text and bold by split index. An odd number of
// markers leaves the last segment wrapped as bold even though it has no
// closing marker; callers rely on that output, so it is kept as is.
func splitBold(line string) doctree.Node {
	parts := strings.Split(line, boldMarker)
	children := make([]doctree.Node, 0, len(parts))
	for i, part := range parts {
		if i%2 == 0 {
			children = append(children, doctree.Text(part))
		} else {
			children = append(children, doctree.Wrap(doctree.KindBold, doctree.Text(part)))
		}
	}
	return doctree.Wrap(doctree.KindParagraph, children...)
}

func plainParagraph(line string) doctree.Node {
	return doctree.Wrap(doctree.KindParagraph, doctree.Text(line))
}
