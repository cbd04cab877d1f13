package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Manifest lists the documents written by one run.
type Manifest struct {
	GeneratedAt string  `json:"generatedAt"`
	Seed        int64   `json:"seed"`
	Documents   []Entry `json:"documents"`
}

// Entry describes one written HTML document.
type Entry struct {
	Title  string `json:"title"`
	File   string `json:"file"`
	Bytes  int64  `json:"bytes"`
	Images int    `json:"images"`
}

// EncodeJSON writes m as indented JSON. A manifest without documents
// encodes them as an empty list, not null.
func EncodeJSON(w io.Writer, m *Manifest) error {
	out := *m
	if out.Documents == nil {
		out.Documents = []Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode manifest: %w", err)
	}
	return nil
}

func WriteJSON(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodeJSON(f, m); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
