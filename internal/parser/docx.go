package parser

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fumiama/go-docx"
)

// DOCXParser handles .docx files. Heading styles map to heading lines and
// bold runs keep their emphasis.
type DOCXParser struct{}

func (p *DOCXParser) Parse(r io.Reader, filename string) (*Document, error) {
	// go-docx needs a ReaderAt+size, so write to temp file.
	tmp, err := os.CreateTemp("", "towxml-docx-*.docx")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	size, err := io.Copy(tmp, r)
	if err != nil {
		tmp.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}

	doc, err := docx.Parse(tmp, size)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("parse docx: %w", err)
	}

	title := titleFromFilename(filename)
	var out dialect
	for _, item := range doc.Document.Body.Items {
		para, ok := item.(*docx.Paragraph)
		if !ok {
			continue
		}

		if level := docxHeadingLevel(para); level > 0 {
			out.heading(level, docxParagraphText(para, false))
			continue
		}
		out.para(docxParagraphText(para, true))
	}

	return &Document{Title: title, Markdown: out.String()}, nil
}

func docxHeadingLevel(para *docx.Paragraph) int {
	if para.Properties == nil || para.Properties.Style == nil {
		return 0
	}
	style := strings.ToLower(strings.ReplaceAll(para.Properties.Style.Val, " ", ""))
	switch style {
	case "title", "heading1":
		return 1
	case "heading2":
		return 2
	case "heading3", "heading4", "heading5", "heading6":
		return 3
	}
	return 0
}

// docxParagraphText joins the text of all runs. With keepBold, consecutive
// bold runs are merged and wrapped in a single pair of markers.
func docxParagraphText(para *docx.Paragraph, keepBold bool) string {
	var buf, boldBuf strings.Builder
	flushBold := func() {
		if boldBuf.Len() > 0 {
			buf.WriteString(strong(boldBuf.String()))
			boldBuf.Reset()
		}
	}

	for _, child := range para.Children {
		run, ok := child.(*docx.Run)
		if !ok {
			continue
		}
		var runText strings.Builder
		for _, rc := range run.Children {
			switch t := rc.(type) {
			case *docx.Text:
				runText.WriteString(t.Text)
			case *docx.Tab:
				runText.WriteByte(' ')
			}
		}
		if keepBold && run.RunProperties != nil && run.RunProperties.Bold != nil {
			boldBuf.WriteString(runText.String())
			continue
		}
		flushBold()
		buf.WriteString(runText.String())
	}
	flushBold()
	return strings.TrimSpace(buf.String())
}
