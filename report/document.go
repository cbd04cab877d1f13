package report

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document returns an empty HTML page and its <body>, to which fragments
// are appended before rendering with html.Render.
func Document(title string) (doc, body *html.Node) {
	doc = &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, attr("charset", "utf-8")))
	t := element(atom.Title)
	t.AppendChild(text(title))
	head.AppendChild(t)

	body = element(atom.Body)
	root := element(atom.Html)
	root.AppendChild(head)
	root.AppendChild(body)
	doc.AppendChild(root)
	return doc, body
}
