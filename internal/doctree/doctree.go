package doctree

import (
	"encoding/json"
	"strings"
)

// Kind identifies what a Node renders as.
type Kind string

const (
	KindHeading1  Kind = "heading1"
	KindHeading2  Kind = "heading2"
	KindHeading3  Kind = "heading3"
	KindListItem  Kind = "listItem"
	KindParagraph Kind = "paragraph"
	KindRule      Kind = "rule"
	KindText      Kind = "text"
	KindBold      Kind = "bold"
)

// Tree is the ordered list of top-level nodes produced from one Markdown
// string. Each source line contributes at most one entry.
type Tree struct {
	Nodes []Node `json:"nodes"`
}

// Node is one renderable unit. Text is only set on KindText nodes; Children
// is only set on container kinds.
type Node struct {
	Kind     Kind   `json:"kind"`
	Text     string `json:"text,omitempty"`
	Children []Node `json:"children,omitempty"`
}

// Text returns a leaf text node.
func Text(s string) Node {
	return Node{Kind: KindText, Text: s}
}

// Wrap returns a container node of the given kind around children.
func Wrap(kind Kind, children ...Node) Node {
	return Node{Kind: kind, Children: children}
}

// MarshalJSON always writes "text" on text nodes, even when empty. Children
// are only written for container kinds.
func (n Node) MarshalJSON() ([]byte, error) {
	type wire struct {
		Kind     Kind    `json:"kind"`
		Text     *string `json:"text,omitempty"`
		Children []Node  `json:"children,omitempty"`
	}
	w := wire{Kind: n.Kind}
	if n.Kind == KindText {
		w.Text = &n.Text
	}
	if n.Kind.IsContainer() {
		w.Children = n.Children
	}
	return json.Marshal(w)
}

// Rule returns a horizontal divider node.
func Rule() Node {
	return Node{Kind: KindRule}
}

// IsContainer reports whether nodes of this kind carry children.
func (k Kind) IsContainer() bool {
	switch k {
	case KindText, KindRule:
		return false
	}
	return true
}

// PlainText concatenates the text of n and all its descendants.
func (n Node) PlainText() string {
	if n.Kind == KindText {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.PlainText())
	}
	return b.String()
}

// Empty returns a tree with no nodes. It encodes as {"nodes":[]}, not null.
func Empty() Tree {
	return Tree{Nodes: []Node{}}
}
