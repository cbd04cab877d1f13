package report

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// Flow is the direction items are laid out in.
type Flow string

const (
	FlowRow    Flow = "row"
	FlowColumn Flow = "column"
)

type layout struct {
	flow      Flow
	style     string
	labels    []string
	labelsSet bool
	prefix    string
	prefixSet bool
	interval  time.Duration
}

// LayoutOption configures Caption, ItemGrid and Slider. Options that do not
// apply to a helper are ignored by it.
type LayoutOption func(*layout)

func WithFlow(f Flow) LayoutOption {
	return func(l *layout) { l.flow = f }
}

// WithStyle appends CSS declarations to the container's style.
func WithStyle(css string) LayoutOption {
	return func(l *layout) { l.style = css }
}

// WithLabels sets one slider label per item.
func WithLabels(labels ...string) LayoutOption {
	return func(l *layout) { l.labels, l.labelsSet = labels, true }
}

// WithLabelPrefix labels slider items "<prefix> 0", "<prefix> 1", ...
func WithLabelPrefix(prefix string) LayoutOption {
	return func(l *layout) { l.prefix, l.prefixSet = prefix, true }
}

// WithInterval sets the slider autoplay interval.
func WithInterval(d time.Duration) LayoutOption {
	return func(l *layout) { l.interval = d }
}

func (r *Renderer) layout(opts []LayoutOption) layout {
	l := layout{flow: FlowRow, interval: r.defaults.SliderInterval}
	for _, opt := range opts {
		opt(&l)
	}
	return l
}

func validateFlow(f Flow, path *field.Path) field.ErrorList {
	switch f {
	case FlowRow, FlowColumn:
		return nil
	}
	return field.ErrorList{field.NotSupported(path.Child("flow"), f, []string{string(FlowRow), string(FlowColumn)})}
}

// Caption wraps items in a <figure> headed by a <figcaption>.
func (r *Renderer) Caption(title string, items []any, opts ...LayoutOption) (*html.Node, error) {
	l := r.layout(opts)
	if err := layoutError(validateFlow(l.flow, field.NewPath("caption"))); err != nil {
		return nil, err
	}
	nodes, err := r.renderItems(items)
	if err != nil {
		return nil, err
	}

	body := element(atom.Div, attr("style", style(
		"display: inline-flex;",
		fmt.Sprintf("flex-direction: %s;", l.flow),
		"border: 1px solid black;",
		l.style,
	)))
	appendAll(body, nodes)

	caption := element(atom.Figcaption)
	caption.AppendChild(text(title))

	fig := element(atom.Figure, attr("style", "margin:5pt;"))
	fig.AppendChild(caption)
	fig.AppendChild(body)
	return fig, nil
}

// ItemGrid lays items out in a CSS grid with columns items per row. With
// FlowColumn, columns is the number of items per column instead.
func (r *Renderer) ItemGrid(columns int, items []any, opts ...LayoutOption) (*html.Node, error) {
	l := r.layout(opts)
	path := field.NewPath("itemGrid")
	var errs field.ErrorList
	if columns <= 0 {
		errs = append(errs, field.Invalid(path.Child("columns"), columns, "must be a positive integer"))
	}
	if len(items) == 0 {
		errs = append(errs, field.Required(path.Child("items"), "at least one item is required"))
	}
	errs = append(errs, validateFlow(l.flow, path)...)
	if err := layoutError(errs); err != nil {
		return nil, err
	}

	nodes, err := r.renderItems(items)
	if err != nil {
		return nil, err
	}

	template := "grid-template-columns"
	if l.flow == FlowColumn {
		template = "grid-template-rows"
	}
	tracks := strings.TrimSpace(strings.Repeat("min-content ", columns))
	grid := element(atom.Div, attr("style", style(
		"display: grid;",
		fmt.Sprintf("%s: %s;", template, tracks),
		fmt.Sprintf("grid-auto-flow: %s;", l.flow),
		l.style,
	)))
	appendAll(grid, nodes)
	r.log.V(3).Info("built item grid", "items", len(nodes), "columns", columns, "flow", l.flow)
	return grid, nil
}

// renderItems plots every item that is not already a fragment. Fragments
// attached elsewhere are detached only once every item has rendered, and a
// fragment listed more than once is deep-copied for each repeat.
func (r *Renderer) renderItems(items []any) ([]*html.Node, error) {
	nodes := make([]*html.Node, len(items))
	for i, item := range items {
		if n, ok := item.(*html.Node); ok && n != nil {
			nodes[i] = n
			continue
		}
		n, err := r.Plot(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		nodes[i] = n
	}

	seen := make(map[*html.Node]bool, len(nodes))
	for i, n := range nodes {
		if seen[n] {
			nodes[i] = cloneTree(n)
			continue
		}
		seen[n] = true
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	return nodes, nil
}

func cloneTree(n *html.Node) *html.Node {
	c := &html.Node{
		Type:      n.Type,
		DataAtom:  n.DataAtom,
		Data:      n.Data,
		Namespace: n.Namespace,
		Attr:      append([]html.Attribute(nil), n.Attr...),
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		c.AppendChild(cloneTree(child))
	}
	return c
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func appendAll(parent *html.Node, children []*html.Node) {
	for _, c := range children {
		parent.AppendChild(c)
	}
}

func style(decls ...string) string {
	parts := decls[:0:0]
	for _, d := range decls {
		if d = strings.TrimSpace(d); d != "" {
			parts = append(parts, d)
		}
	}
	return strings.Join(parts, " ")
}
