package parser

import (
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkdownParser normalises CommonMark into the line dialect using goldmark.
// Constructs the dialect lacks (setext headings, "-" bullets, nested lists,
// h4-h6) are mapped onto the nearest form it does have.
type MarkdownParser struct{}

func (p *MarkdownParser) Parse(r io.Reader, filename string) (*Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	doc := md.Parser().Parse(text.NewReader(src))

	var out dialect
	title := ""
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		if h, ok := n.(*ast.Heading); ok && h.Level == 1 && title == "" {
			title = oneLine(plainInline(h, src))
		}
		writeBlock(&out, n, src)
	}
	if title == "" {
		title = titleFromFilename(filename)
	}

	return &Document{Title: title, Markdown: out.String()}, nil
}

func writeBlock(out *dialect, n ast.Node, src []byte) {
	switch node := n.(type) {
	case *ast.Heading:
		// Heading text stays plain; bold markers inside a heading line
		// would be shown literally.
		out.heading(node.Level, plainInline(node, src))
	case *ast.Paragraph, *ast.TextBlock:
		out.para(inlineText(node, src))
	case *ast.List:
		writeList(out, node, src)
	case *ast.ThematicBreak:
		out.rule()
	case *ast.FencedCodeBlock, *ast.CodeBlock:
		lines := node.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			out.raw(string(line.Value(src)))
		}
	case *ast.HTMLBlock:
		// dropped
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			writeBlock(out, c, src)
		}
	}
}

// writeList flattens nested lists: every item at any depth becomes one
// "* " line in document order.
func writeList(out *dialect, list *ast.List, src []byte) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var body []string
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			switch child := c.(type) {
			case *ast.Paragraph, *ast.TextBlock:
				body = append(body, inlineText(child, src))
			case *ast.List:
				if len(body) > 0 {
					out.item(strings.Join(body, " "))
					body = nil
				}
				writeList(out, child, src)
			default:
				body = append(body, plainInline(child, src))
			}
		}
		if len(body) > 0 {
			out.item(strings.Join(body, " "))
		}
	}
}

// inlineText renders inline children, keeping strong emphasis as "**".
func inlineText(n ast.Node, src []byte) string {
	var buf strings.Builder
	writeInline(&buf, n, src, true)
	return buf.String()
}

// plainInline renders inline children with all markup removed.
func plainInline(n ast.Node, src []byte) string {
	var buf strings.Builder
	writeInline(&buf, n, src, false)
	return buf.String()
}

func writeInline(buf *strings.Builder, n ast.Node, src []byte, keepBold bool) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			buf.Write(util.UnescapePunctuations(node.Value(src)))
			if node.SoftLineBreak() || node.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(node.Value)
		case *ast.CodeSpan:
			for t := node.FirstChild(); t != nil; t = t.NextSibling() {
				if seg, ok := t.(*ast.Text); ok {
					buf.Write(seg.Value(src))
				}
			}
		case *ast.AutoLink:
			buf.Write(node.URL(src))
		case *ast.Emphasis:
			if keepBold && node.Level == 2 {
				var inner strings.Builder
				writeInline(&inner, node, src, false)
				buf.WriteString(strong(inner.String()))
			} else {
				writeInline(buf, node, src, keepBold)
			}
		case *ast.RawHTML:
			// dropped
		default:
			writeInline(buf, node, src, keepBold)
		}
	}
	if n.Type() == ast.TypeBlock && n.FirstChild() == nil {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
	}
}
