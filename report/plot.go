package report

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"image"
	"io"
	"math"
	"reflect"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"domrep/internal/colormap"
	"domrep/internal/encode"
	"domrep/internal/raster"
)

type plotConfig struct {
	format   string
	title    string
	attrs    []html.Attribute
	colormap string
	scale    int
}

type PlotOption func(*plotConfig)

// WithFormat overrides the encoding: png or svg for figures, png or jpeg
// for images and arrays, gif for animations.
func WithFormat(f string) PlotOption {
	return func(c *plotConfig) { c.format = f }
}

// WithTitle wraps the image in a Caption with the given title.
func WithTitle(title string) PlotOption {
	return func(c *plotConfig) { c.title = title }
}

// WithAttr adds an attribute to the <img> element.
func WithAttr(key, val string) PlotOption {
	return func(c *plotConfig) { c.attrs = append(c.attrs, attr(key, val)) }
}

// WithColormap colours single-channel arrays; see colormap.Names. An unknown
// name makes Plot fail with ErrUnsupportedInput.
func WithColormap(name string) PlotOption {
	return func(c *plotConfig) { c.colormap = name }
}

// WithScale upscales arrays by an integer factor.
func WithScale(n int) PlotOption {
	return func(c *plotConfig) { c.scale = n }
}

// Plot renders input as an <img> with an embedded data URI.
func (r *Renderer) Plot(input any, opts ...PlotOption) (*html.Node, error) {
	cfg := plotConfig{colormap: r.defaults.Colormap, scale: r.defaults.Scale}
	for _, opt := range opts {
		opt(&cfg)
	}
	src, err := r.source(input, cfg)
	if err != nil {
		return nil, err
	}
	img := element(atom.Img, attr("src", src))
	img.Attr = append(img.Attr, cfg.attrs...)
	if cfg.title != "" {
		return r.Caption(cfg.title, []any{img})
	}
	return img, nil
}

func (r *Renderer) source(input any, cfg plotConfig) (string, error) {
	if isTypedNil(input) {
		return "", unsupported(input, "nil value", nil)
	}
	switch v := input.(type) {
	case nil:
		return "", nil
	case Source:
		return string(v), nil
	case *Animation:
		return r.animation(*v, cfg)
	case Animation:
		return r.animation(v, cfg)
	case *html.Node:
		return "", unsupported(input, "already a fragment", nil)
	case Figure:
		return r.figure(v, cfg)
	case image.Image:
		f, err := r.format(input, cfg.format, r.defaults.ImageFormat, encode.ImageFormats)
		if err != nil {
			return "", err
		}
		return r.encodeImage(input, v, f)
	case Array, *Array, [][]float64:
		return r.array(v, cfg)
	default:
		return "", unsupported(input, "", nil)
	}
}

func (r *Renderer) format(input any, requested, fallback string, allowed []encode.Format) (encode.Format, error) {
	name := requested
	if name == "" {
		name = fallback
	}
	f, err := encode.ParseFormat(name)
	if err != nil {
		return "", unsupported(input, "", err)
	}
	if !encode.Supports(allowed, f) {
		return "", unsupported(input, fmt.Sprintf("cannot encode as %s", f), encode.ErrFormat)
	}
	return f, nil
}

func (r *Renderer) figure(fig Figure, cfg plotConfig) (string, error) {
	f, err := r.format(fig, cfg.format, r.defaults.FigureFormat, encode.FigureFormats)
	if err != nil {
		return "", err
	}
	payload, err := encode.Buffer(func(w io.Writer) error { return encode.Figure(w, fig, f) })
	if err != nil {
		return "", fmt.Errorf("render figure: %w", err)
	}
	r.log.V(2).Info("rendered plot", "kind", "figure", "format", f, "bytes", len(payload))
	return encode.DataURI(f, payload), nil
}

func (r *Renderer) encodeImage(input any, img image.Image, f encode.Format) (string, error) {
	payload, err := encode.Buffer(func(w io.Writer) error {
		return encode.Image(w, img, f, r.defaults.JPEGQuality)
	})
	if err != nil {
		return "", fmt.Errorf("encode %T: %w", input, err)
	}
	r.log.V(2).Info("rendered plot", "kind", "image", "format", f, "bytes", len(payload),
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return encode.DataURI(f, payload), nil
}

func (r *Renderer) array(input any, cfg plotConfig) (string, error) {
	a, err := asArray(input)
	if err != nil {
		return "", unsupported(input, "", err)
	}
	f, err := r.format(input, cfg.format, r.defaults.ImageFormat, encode.ImageFormats)
	if err != nil {
		return "", err
	}
	cmap, err := resolveColormap(input, cfg.colormap)
	if err != nil {
		return "", err
	}

	var key string
	if r.cache != nil {
		key = arrayKey(a, cmap, cfg.scale, f)
		if uri, ok := r.cache.Get(key); ok {
			r.log.V(4).Info("array cache hit", "key", key[:12])
			return uri, nil
		}
	}

	img, err := raster.ToImage(a, cmap, cfg.scale)
	if err != nil {
		return "", unsupported(input, "", err)
	}
	uri, err := r.encodeImage(input, img, f)
	if err != nil {
		return "", err
	}
	if r.cache != nil {
		r.cache.Add(key, uri)
	}
	return uri, nil
}

func (r *Renderer) animation(anim Animation, cfg plotConfig) (string, error) {
	if len(anim.Frames) == 0 {
		return "", unsupported(anim, "animation has no frames", nil)
	}
	f, err := r.format(anim, cfg.format, r.defaults.AnimationFormat, encode.AnimationFormats)
	if err != nil {
		return "", err
	}
	frames := make([]image.Image, 0, len(anim.Frames))
	for i, frame := range anim.Frames {
		img, err := r.frameImage(frame, cfg)
		if err != nil {
			return "", fmt.Errorf("frame %d: %w", i, err)
		}
		frames = append(frames, img)
	}
	delay := anim.Delay
	if delay <= 0 {
		delay = r.defaults.FrameDelay
	}
	payload, err := encode.Buffer(func(w io.Writer) error {
		return encode.Animation(w, frames, delay, anim.LoopCount)
	})
	if err != nil {
		return "", fmt.Errorf("encode animation: %w", err)
	}
	r.log.V(2).Info("rendered plot", "kind", "animation", "format", f, "frames", len(frames), "bytes", len(payload))
	return encode.DataURI(f, payload), nil
}

func (r *Renderer) frameImage(frame any, cfg plotConfig) (image.Image, error) {
	if frame == nil || isTypedNil(frame) {
		return nil, unsupported(frame, "nil frame", nil)
	}
	switch v := frame.(type) {
	case Figure:
		img, err := encode.FigureImage(v)
		if err != nil {
			return nil, fmt.Errorf("render figure: %w", err)
		}
		return img, nil
	case image.Image:
		return v, nil
	case Array, *Array, [][]float64:
		a, err := asArray(v)
		if err != nil {
			return nil, unsupported(frame, "", err)
		}
		cmap, err := resolveColormap(frame, cfg.colormap)
		if err != nil {
			return nil, err
		}
		img, err := raster.ToImage(a, cmap, cfg.scale)
		if err != nil {
			return nil, unsupported(frame, "", err)
		}
		return img, nil
	default:
		return nil, unsupported(frame, "not usable as an animation frame", nil)
	}
}

// isTypedNil catches typed nils such as (*image.RGBA)(nil), which match
// interface cases in a type switch but panic once used.
func isTypedNil(v any) bool {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// resolveColormap treats an empty name as the default ramp and rejects
// anything else it does not know.
func resolveColormap(input any, name string) (colormap.Name, error) {
	if strings.TrimSpace(name) == "" {
		return colormap.Viridis, nil
	}
	if !colormap.Known(name) {
		return "", unsupported(input, fmt.Sprintf("unknown colormap %q (want one of %s)",
			name, strings.Join(colormap.Names(), ", ")), nil)
	}
	return colormap.Normalize(name), nil
}

func asArray(input any) (Array, error) {
	switch v := input.(type) {
	case Array:
		return v, v.Validate()
	case *Array:
		if v == nil {
			return Array{}, fmt.Errorf("%w: nil array", raster.ErrShape)
		}
		return *v, v.Validate()
	case [][]float64:
		return raster.FromMatrix(v)
	default:
		return Array{}, fmt.Errorf("%T is not an array", input)
	}
}

func arrayKey(a Array, cmap colormap.Name, scale int, f encode.Format) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%s|%d|%d|%d|%d|", cmap, f, scale, a.Rows, a.Cols, a.Channels)
	if a.Limits != nil {
		fmt.Fprintf(h, "%g|%g|", a.Limits.Min, a.Limits.Max)
	}
	var buf [8]byte
	for _, v := range a.Data {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(v))
		h.Write(buf[:])
	}
	return hex.EncodeToString(h.Sum(nil))
}
