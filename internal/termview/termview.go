// Package termview paints a towxml node tree to a terminal using lipgloss,
// approximating how the rich-text component lays it out.
package termview

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dgallion1/towxml/internal/doctree"
)

type painter struct {
	h1     lipgloss.Style
	h2     lipgloss.Style
	h3     lipgloss.Style
	bold   lipgloss.Style
	bullet lipgloss.Style
	rule   lipgloss.Style
}

func newPainter() *painter {
	return &painter{
		h1:     lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("5")),
		h2:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		h3:     lipgloss.NewStyle().Bold(true),
		bold:   lipgloss.NewStyle().Bold(true),
		bullet: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		rule:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// Paint renders tree at the given width, one block per top-level node.
func Paint(tree doctree.Tree, width int) string {
	if width <= 0 {
		width = 80
	}
	p := newPainter()
	blocks := make([]string, 0, len(tree.Nodes))
	for _, n := range tree.Nodes {
		blocks = append(blocks, p.block(n, width))
	}
	return strings.Join(blocks, "\n")
}

func (p *painter) block(n doctree.Node, width int) string {
	wrap := lipgloss.NewStyle().Width(width)
	switch n.Kind {
	case doctree.KindHeading1:
		return wrap.Render(p.h1.Render(p.inline(n)))
	case doctree.KindHeading2:
		return wrap.Render(p.h2.Render(p.inline(n)))
	case doctree.KindHeading3:
		return wrap.Render(p.h3.Render(p.inline(n)))
	case doctree.KindListItem:
		const marker = "• "
		body := lipgloss.NewStyle().Width(max(width-len([]rune(marker)), 10)).Render(p.inline(n))
		return lipgloss.JoinHorizontal(lipgloss.Top, p.bullet.Render(marker), body)
	case doctree.KindRule:
		return p.rule.Render(strings.Repeat("─", width))
	default:
		return wrap.Render(p.inline(n))
	}
}

func (p *painter) inline(n doctree.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		switch c.Kind {
		case doctree.KindText:
			b.WriteString(c.Text)
		case doctree.KindBold:
			b.WriteString(p.bold.Render(c.PlainText()))
		default:
			b.WriteString(p.inline(c))
		}
	}
	return b.String()
}
