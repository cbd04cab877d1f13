// Package report builds HTML report fragments from plots: embedded images,
// captions, grids and sliders. Fragments are golang.org/x/net/html nodes
// that the caller places into a larger document and serialises.
package report

import (
	"time"

	"github.com/go-logr/logr"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/net/html"
)

// Defaults holds the settings used when a call does not override them.
type Defaults struct {
	FigureFormat    string
	ImageFormat     string
	AnimationFormat string
	Colormap        string
	Scale           int
	JPEGQuality     int
	FrameDelay      time.Duration
	SliderInterval  time.Duration
}

// StandardDefaults returns png figures and images, gif animations, viridis,
// no upscaling and a 300ms slider interval.
func StandardDefaults() Defaults {
	return Defaults{
		FigureFormat:    "png",
		ImageFormat:     "png",
		AnimationFormat: "gif",
		Colormap:        "viridis",
		Scale:           1,
		JPEGQuality:     90,
		FrameDelay:      100 * time.Millisecond,
		SliderInterval:  300 * time.Millisecond,
	}
}

// Renderer turns plot inputs into fragments. It is safe for concurrent use.
type Renderer struct {
	defaults  Defaults
	log       logr.Logger
	cacheSize int
	cache     *lru.Cache[string, string]
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithDefaults replaces the standard defaults wholesale.
func WithDefaults(d Defaults) Option {
	return func(r *Renderer) { r.defaults = d }
}

// WithLogger sets the logger; the zero value discards.
func WithLogger(l logr.Logger) Option {
	return func(r *Renderer) { r.log = l }
}

// WithCacheSize keeps the data URIs of up to n recently rendered arrays.
// n <= 0 disables the cache.
func WithCacheSize(n int) Option {
	return func(r *Renderer) { r.cacheSize = n }
}

// New returns a Renderer using StandardDefaults unless overridden.
func New(opts ...Option) *Renderer {
	r := &Renderer{defaults: StandardDefaults(), log: logr.Discard()}
	for _, opt := range opts {
		opt(r)
	}
	if r.cacheSize > 0 {
		// only fails for non-positive sizes
		r.cache, _ = lru.New[string, string](r.cacheSize)
	}
	return r
}

func (r *Renderer) Defaults() Defaults { return r.defaults }

var std = New()

// Plot calls Renderer.Plot on a Renderer with the standard defaults.
func Plot(input any, opts ...PlotOption) (*html.Node, error) {
	return std.Plot(input, opts...)
}

// Caption calls Renderer.Caption on the default Renderer.
func Caption(title string, items []any, opts ...LayoutOption) (*html.Node, error) {
	return std.Caption(title, items, opts...)
}

// ItemGrid calls Renderer.ItemGrid on the default Renderer.
func ItemGrid(columns int, items []any, opts ...LayoutOption) (*html.Node, error) {
	return std.ItemGrid(columns, items, opts...)
}

// Slider calls Renderer.Slider on the default Renderer.
func Slider(items []any, opts ...LayoutOption) (*html.Node, error) {
	return std.Slider(items, opts...)
}
