// Command towxml renders Markdown into node trees from the command line.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/dgallion1/towxml/internal/parser"
	"github.com/dgallion1/towxml/internal/termview"
	"github.com/dgallion1/towxml/internal/towxml"
)

// CLI defines the command-line interface for towxml.
var CLI struct {
	Verbose bool `short:"v" help:"Enable debug logging"`

	Render  RenderCmd  `cmd:"" help:"Render Markdown to a node tree as JSON"`
	Preview PreviewCmd `cmd:"" help:"Render Markdown and paint it to the terminal"`
	Import  ImportCmd  `cmd:"" help:"Convert a document to renderable Markdown"`
}

// RenderCmd prints the node tree of a Markdown file or stdin.
type RenderCmd struct {
	File   string `arg:"" optional:"" help:"Markdown file (default stdin)" type:"existingfile"`
	Indent bool   `help:"Indent JSON output"`
}

func (c *RenderCmd) Run(out io.Writer, logger *log.Logger) error {
	markdown, err := readInput(c.File)
	if err != nil {
		return err
	}
	start := time.Now()
	tree := towxml.Render(markdown)
	logger.Debug("rendered", "nodes", len(tree.Nodes), "bytes", len(markdown), "took", time.Since(start))
	return writeJSON(out, tree, c.Indent)
}

// PreviewCmd paints the node tree with terminal styling.
type PreviewCmd struct {
	File  string `arg:"" optional:"" help:"Markdown file (default stdin)" type:"existingfile"`
	Width int    `default:"80" help:"Line width for rules"`
}

func (c *PreviewCmd) Run(out io.Writer, logger *log.Logger) error {
	markdown, err := readInput(c.File)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, termview.Paint(towxml.Render(markdown), c.Width))
	return err
}

// ImportCmd converts a supported document into the line dialect.
type ImportCmd struct {
	File        string `arg:"" help:"Document to import (.md, .txt, .csv, .html, .pdf, .docx)" type:"existingfile"`
	Render      bool   `help:"Print the rendered node tree instead of Markdown"`
	Indent      bool   `help:"Indent JSON output"`
	NoPdftotext bool   `name:"no-pdftotext" help:"Disable the pdftotext fallback for PDFs"`
}

func (c *ImportCmd) Run(out io.Writer, logger *log.Logger) error {
	p, err := parser.ForFile(c.File, parser.Options{PDFFallbackPdftotext: !c.NoPdftotext})
	if err != nil {
		return err
	}
	f, err := os.Open(c.File)
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := p.Parse(f, c.File)
	if err != nil {
		return fmt.Errorf("import %s: %w", c.File, err)
	}
	logger.Info("imported", "file", c.File, "title", doc.Title)

	if c.Render {
		return writeJSON(out, towxml.Render(doc.Markdown), c.Indent)
	}
	_, err = fmt.Fprintln(out, doc.Markdown)
	return err
}

func readInput(path string) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func writeJSON(w io.Writer, v any, indent bool) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(v)
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.DateTime,
		Level:           level,
	})
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("towxml"),
		kong.Description("Render line-oriented Markdown into node trees"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	)
	logger := newLogger(os.Stderr, CLI.Verbose)
	ctx.BindTo(os.Stdout, (*io.Writer)(nil))
	err := ctx.Run(logger)
	ctx.FatalIfErrorf(err)
}
