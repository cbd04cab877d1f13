package output

import (
	"fmt"
	"os"
	"sort"
)

// WriteMarkdown writes an index of the manifest's documents, largest first.
func WriteMarkdown(path string, m *Manifest) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Fprintf(f, "# Report Index\n\n")
	fmt.Fprintf(f, "Generated %s (seed %d)\n\n", m.GeneratedAt, m.Seed)

	if len(m.Documents) == 0 {
		fmt.Fprintf(f, "No documents written.\n")
		return nil
	}

	docs := append([]Entry(nil), m.Documents...)
	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].Bytes > docs[j].Bytes
	})

	fmt.Fprintf(f, "| Document | File | Images | Size |\n|---|---|---|---|\n")
	for _, d := range docs {
		fmt.Fprintf(f, "| %s | [%s](%s) | %d | %s |\n", d.Title, d.File, d.File, d.Images, humanSize(d.Bytes))
	}
	return nil
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
