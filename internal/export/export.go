// Package export turns Markdown into a standalone, printable HTML page.
package export

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
body { font-family: "NotoSansSC", "SimHei", sans-serif; line-height: 1.6; }
h1 { font-size: 22pt; border-bottom: 2px solid #333; padding-bottom: 4px; margin-bottom: 0.8em; }
h2 { font-size: 18pt; border-bottom: 1px solid #ccc; padding-bottom: 2px; margin-top: 1.5em; margin-bottom: 0.5em; }
h3 { font-size: 14pt; margin-top: 1.2em; margin-bottom: 0.4em; }
ul { list-style-type: disc; padding-left: 20px; margin-bottom: 1em; }
li { margin-bottom: 0.5em; }
strong { font-weight: bold; }
p { margin-bottom: 1em; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Exporter renders Markdown to HTML pages and stores them under Dir.
type Exporter struct {
	Dir string
	md  goldmark.Markdown
}

func New(dir string) *Exporter {
	return &Exporter{
		Dir: dir,
		md:  goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Render writes a full HTML document for markdown to w. Raw HTML in the
// input is not passed through.
func (e *Exporter) Render(w io.Writer, title, markdown string) error {
	var body bytes.Buffer
	if err := e.md.Convert([]byte(markdown), &body); err != nil {
		return fmt.Errorf("convert markdown: %w", err)
	}
	if title == "" {
		title = "resume"
	}
	return page.Execute(w, struct {
		Title string
		Body  template.HTML
	}{title, template.HTML(body.String())})
}

// Export renders markdown into a new file in Dir and returns its base name.
func (e *Exporter) Export(title, markdown string) (string, error) {
	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	var buf bytes.Buffer
	if err := e.Render(&buf, title, markdown); err != nil {
		return "", err
	}

	name := uuid.NewString() + ".html"
	if err := os.WriteFile(filepath.Join(e.Dir, name), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return name, nil
}
