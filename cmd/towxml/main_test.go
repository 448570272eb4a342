package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dgallion1/towxml/internal/doctree"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func quietLogger() *log.Logger {
	return newLogger(io.Discard, false)
}

func TestRenderCmd(t *testing.T) {
	path := writeFile(t, "in.md", "# Title\n**a** b")
	var out bytes.Buffer
	require.NoError(t, (&RenderCmd{File: path}).Run(&out, quietLogger()))

	var tree doctree.Tree
	require.NoError(t, json.Unmarshal(out.Bytes(), &tree))
	require.Len(t, tree.Nodes, 2)
	assert.Equal(t, doctree.KindHeading1, tree.Nodes[0].Kind)
	assert.Equal(t, doctree.KindParagraph, tree.Nodes[1].Kind)
}

func TestRenderCmdIndent(t *testing.T) {
	path := writeFile(t, "in.md", "---")
	var out bytes.Buffer
	require.NoError(t, (&RenderCmd{File: path, Indent: true}).Run(&out, quietLogger()))
	assert.Contains(t, out.String(), "\n  \"nodes\"")
}

func TestPreviewCmd(t *testing.T) {
	path := writeFile(t, "in.md", "* item\n---")
	var out bytes.Buffer
	require.NoError(t, (&PreviewCmd{File: path, Width: 10}).Run(&out, quietLogger()))
	assert.Contains(t, out.String(), "item")
	assert.Contains(t, out.String(), strings.Repeat("─", 10))
}

func TestImportCmd(t *testing.T) {
	path := writeFile(t, "notes.txt", "first line\nsecond line\n\nnext paragraph")
	var out bytes.Buffer
	require.NoError(t, (&ImportCmd{File: path}).Run(&out, quietLogger()))
	assert.Equal(t, "first line second line\nnext paragraph\n", out.String())
}

func TestImportCmdRender(t *testing.T) {
	path := writeFile(t, "table.csv", "name,role\nJane,dev\n")
	var out bytes.Buffer
	require.NoError(t, (&ImportCmd{File: path, Render: true}).Run(&out, quietLogger()))

	var tree doctree.Tree
	require.NoError(t, json.Unmarshal(out.Bytes(), &tree))
	require.NotEmpty(t, tree.Nodes)
	assert.Equal(t, doctree.KindHeading2, tree.Nodes[0].Kind)
	assert.Equal(t, "name: Jane, role: dev", tree.Nodes[len(tree.Nodes)-1].PlainText())
}

func TestImportCmdUnsupported(t *testing.T) {
	path := writeFile(t, "image.png", "x")
	err := (&ImportCmd{File: path}).Run(io.Discard, quietLogger())
	assert.Error(t, err)
}
