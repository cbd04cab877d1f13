package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"domrep/report"
)

func TestWriteHTML(t *testing.T) {
	doc, body := report.Document("demo")
	grid, err := report.ItemGrid(2, []any{report.Source("a.png"), report.Source("b.png"), nil})
	require.NoError(t, err)
	body.AppendChild(grid)

	path := filepath.Join(t.TempDir(), "demo.html")
	n, err := WriteHTML(path, doc)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, int64(len(raw)), n)
	assert.True(t, strings.HasPrefix(string(raw), "<!DOCTYPE html>"))
	assert.Contains(t, string(raw), `<img src="b.png"/>`)
	assert.Equal(t, 3, CountImages(doc))
}

func TestWriteHTML_BadPath(t *testing.T) {
	doc, _ := report.Document("x")
	_, err := WriteHTML(filepath.Join(t.TempDir(), "missing", "x.html"), doc)
	assert.Error(t, err)
}

func TestWriteJSON(t *testing.T) {
	m := &Manifest{GeneratedAt: "2026-01-02T03:04:05Z", Seed: 7, Documents: []Entry{{Title: "grid", File: "grid.html", Bytes: 10, Images: 9}}}
	path := filepath.Join(t.TempDir(), "manifest.json")
	require.NoError(t, WriteJSON(path, m))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var got Manifest
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, *m, got)
}

func TestEncodeJSON(t *testing.T) {
	var buf bytes.Buffer
	m := &Manifest{Seed: 3, Documents: []Entry{{Title: "charts", File: "charts.html", Bytes: 2048, Images: 3}}}
	require.NoError(t, EncodeJSON(&buf, m))
	assert.Contains(t, buf.String(), "\n  \"seed\": 3,\n")

	var got Manifest
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *m, got)
}

func TestEncodeJSON_NoDocuments(t *testing.T) {
	var buf bytes.Buffer
	m := &Manifest{}
	require.NoError(t, EncodeJSON(&buf, m))
	assert.Contains(t, buf.String(), `"documents": []`)
	assert.Nil(t, m.Documents, "input is untouched")
}

func TestWriteJSON_BadPath(t *testing.T) {
	err := WriteJSON(filepath.Join(t.TempDir(), "missing", "manifest.json"), &Manifest{})
	assert.Error(t, err)
}

func TestWriteMarkdown(t *testing.T) {
	m := &Manifest{Documents: []Entry{
		{Title: "small", File: "small.html", Bytes: 100, Images: 1},
		{Title: "big", File: "big.html", Bytes: 3 << 20, Images: 20},
	}}
	path := filepath.Join(t.TempDir(), "index.md")
	require.NoError(t, WriteMarkdown(path, m))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "| big | [big.html](big.html) | 20 | 3.0 MiB |")
	assert.Contains(t, out, "| small | [small.html](small.html) | 1 | 100 B |")
	assert.Less(t, strings.Index(out, "big.html"), strings.Index(out, "small.html"))
	assert.Equal(t, "small", m.Documents[0].Title, "input order is untouched")
}

func TestWriteMarkdown_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.md")
	require.NoError(t, WriteMarkdown(path, &Manifest{}))
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "No documents written.")
}
