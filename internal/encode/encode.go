package encode

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/color/palette"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/draw"
)

var ErrFormat = errors.New("unsupported format")

type Format string

const (
	PNG  Format = "png"
	JPEG Format = "jpeg"
	SVG  Format = "svg"
	GIF  Format = "gif"
)

// ParseFormat normalises a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "png":
		return PNG, nil
	case "jpeg", "jpg":
		return JPEG, nil
	case "svg":
		return SVG, nil
	case "gif":
		return GIF, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrFormat, s)
	}
}

func (f Format) MIME() string {
	switch f {
	case SVG:
		return "image/svg+xml"
	default:
		return "image/" + string(f)
	}
}

// Formats accepted per input kind.
var (
	FigureFormats    = []Format{PNG, SVG}
	ImageFormats     = []Format{PNG, JPEG}
	AnimationFormats = []Format{GIF}
)

func Supports(list []Format, f Format) bool {
	for _, v := range list {
		if v == f {
			return true
		}
	}
	return false
}

// Renderable is anything go-chart can draw: chart.Chart, chart.BarChart,
// chart.PieChart and friends.
type Renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func Figure(w io.Writer, fig Renderable, f Format) error {
	switch f {
	case PNG:
		return fig.Render(chart.PNG, w)
	case SVG:
		return fig.Render(chart.SVG, w)
	default:
		return fmt.Errorf("%w: %q for figure", ErrFormat, f)
	}
}

// FigureImage rasterises fig without going through an encoded PNG.
func FigureImage(fig Renderable) (image.Image, error) {
	collector := &chart.ImageWriter{}
	if err := fig.Render(chart.PNG, collector); err != nil {
		return nil, err
	}
	return collector.Image()
}

func Image(w io.Writer, img image.Image, f Format, quality int) error {
	switch f {
	case PNG:
		return png.Encode(w, img)
	case JPEG:
		if quality <= 0 {
			quality = jpeg.DefaultQuality
		}
		return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	default:
		return fmt.Errorf("%w: %q for image", ErrFormat, f)
	}
}

// Animation writes frames as a looping GIF. LoopCount follows image/gif:
// 0 loops forever, -1 plays once.
func Animation(w io.Writer, frames []image.Image, delay time.Duration, loopCount int) error {
	if len(frames) == 0 {
		return errors.New("animation has no frames")
	}
	centis := int(delay / (10 * time.Millisecond))
	if centis < 1 {
		centis = 1
	}
	anim := &gif.GIF{LoopCount: loopCount}
	for _, frame := range frames {
		b := frame.Bounds()
		p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
		draw.FloydSteinberg.Draw(p, p.Bounds(), frame, b.Min)
		anim.Image = append(anim.Image, p)
		anim.Delay = append(anim.Delay, centis)
		anim.Config.Width = max(anim.Config.Width, b.Dx())
		anim.Config.Height = max(anim.Config.Height, b.Dy())
	}
	return gif.EncodeAll(w, anim)
}

// DataURI embeds payload as a base64 data URI.
func DataURI(f Format, payload []byte) string {
	var sb strings.Builder
	sb.Grow(len(payload)*4/3 + 32)
	sb.WriteString("data:")
	sb.WriteString(f.MIME())
	sb.WriteString(";base64,")
	sb.WriteString(base64.StdEncoding.EncodeToString(payload))
	return sb.String()
}

// Buffer runs fn against an in-memory buffer and returns the bytes.
func Buffer(fn func(w io.Writer) error) ([]byte, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
