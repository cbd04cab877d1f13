package output

import (
	"bufio"
	"os"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// WriteHTML serialises doc to path and returns the number of bytes written.
func WriteHTML(path string, doc *html.Node) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	if err := html.Render(w, doc); err != nil {
		return 0, err
	}
	if err := w.Flush(); err != nil {
		return 0, err
	}
	info, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// CountImages counts the <img> elements under n.
func CountImages(n *html.Node) int {
	count := 0
	if n.Type == html.ElementNode && n.DataAtom == atom.Img {
		count++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		count += CountImages(c)
	}
	return count
}
