package report

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/gif"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/net/html"
)

func testChart() chart.Chart {
	return chart.Chart{
		Width:  160,
		Height: 100,
		Series: []chart.Series{
			chart.ContinuousSeries{XValues: []float64{0, 1, 2}, YValues: []float64{2, 0, 1}},
		},
	}
}

func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 6, 4))
	for x := 0; x < 6; x++ {
		img.Set(x, 1, color.NRGBA{R: 0xff, A: 0xff})
	}
	return img
}

func testMatrix(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		for j := range m[i] {
			m[i][j] = float64(i*n + j)
		}
	}
	return m
}

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, html.Render(&buf, n))
	return buf.String()
}

func getAttr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// payload splits a data URI and decodes its base64 body.
func payload(t *testing.T, src string) (string, []byte) {
	t.Helper()
	head, body, ok := strings.Cut(src, ";base64,")
	require.True(t, ok, "not a base64 data URI: %.40s", src)
	raw, err := base64.StdEncoding.DecodeString(body)
	require.NoError(t, err)
	return strings.TrimPrefix(head, "data:"), raw
}

func TestPlot_SupportedVariants(t *testing.T) {
	tests := []struct {
		name  string
		input any
		opts  []PlotOption
		mime  string
	}{
		{"figure", testChart(), nil, "image/png"},
		{"figure svg", testChart(), []PlotOption{WithFormat("svg")}, "image/svg+xml"},
		{"pie chart", chart.PieChart{Width: 120, Height: 120, Values: []chart.Value{{Value: 1, Label: "a"}, {Value: 2, Label: "b"}}}, nil, "image/png"},
		{"image", testImage(), nil, "image/png"},
		{"image jpeg", testImage(), []PlotOption{WithFormat("jpg")}, "image/jpeg"},
		{"matrix", testMatrix(5), nil, "image/png"},
		{"array", Array{Data: []float64{0, 1, 2, 3}, Rows: 2, Cols: 2}, nil, "image/png"},
		{"array pointer", &Array{Data: []float64{0, 0.5, 1, 1, 0, 0}, Rows: 1, Cols: 2, Channels: 3}, nil, "image/png"},
		{"animation", Animation{Frames: []any{testMatrix(4), testMatrix(4)}}, nil, "image/gif"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := Plot(tt.input, tt.opts...)
			require.NoError(t, err)
			assert.Equal(t, "img", n.Data)

			mime, raw := payload(t, getAttr(n, "src"))
			assert.Equal(t, tt.mime, mime)
			assert.NotEmpty(t, raw)
		})
	}
}

func TestPlot_AnimationFrames(t *testing.T) {
	anim := &Animation{
		Frames: []any{testChart(), testChart(), testChart()},
		Delay:  50 * time.Millisecond,
	}
	n, err := Plot(anim)
	require.NoError(t, err)

	_, raw := payload(t, getAttr(n, "src"))
	g, err := gif.DecodeAll(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Len(t, g.Image, 3)
	assert.Equal(t, 5, g.Delay[0])
}

func TestPlot_ArrayScale(t *testing.T) {
	n, err := Plot(testMatrix(3), WithScale(10), WithColormap("gray"))
	require.NoError(t, err)

	_, raw := payload(t, getAttr(n, "src"))
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, 30, cfg.Width)
	assert.Equal(t, 30, cfg.Height)
}

func TestPlot_SourceAndNil(t *testing.T) {
	n, err := Plot(Source("figures/loss.png"))
	require.NoError(t, err)
	assert.Equal(t, "figures/loss.png", getAttr(n, "src"))

	n, err = Plot(nil)
	require.NoError(t, err)
	assert.Equal(t, `<img src=""/>`, render(t, n))
}

func TestPlot_Attributes(t *testing.T) {
	n, err := Plot(testImage(), WithAttr("width", "300"), WithAttr("class", "thumb"))
	require.NoError(t, err)
	assert.Equal(t, "300", getAttr(n, "width"))
	assert.Equal(t, "thumb", getAttr(n, "class"))
}

func TestPlot_Title(t *testing.T) {
	n, err := Plot(testImage(), WithTitle("loss curve"))
	require.NoError(t, err)
	assert.Equal(t, "figure", n.Data)
	out := render(t, n)
	assert.Contains(t, out, "<figcaption>loss curve</figcaption>")
	assert.Contains(t, out, "data:image/png;base64,")
}

func TestPlot_Unsupported(t *testing.T) {
	tests := []struct {
		name  string
		input any
		opts  []PlotOption
	}{
		{"plain string", "not a plot", nil},
		{"int", 42, nil},
		{"fragment", &html.Node{Type: html.ElementNode, Data: "div"}, nil},
		{"ragged matrix", [][]float64{{1, 2}, {3}}, nil},
		{"bad array", Array{Data: []float64{1}, Rows: 2, Cols: 2}, nil},
		{"empty animation", Animation{}, nil},
		{"bad frame", Animation{Frames: []any{"frame"}}, nil},
		{"figure as gif", testChart(), []PlotOption{WithFormat("gif")}},
		{"image as svg", testImage(), []PlotOption{WithFormat("svg")}},
		{"unknown format", testImage(), []PlotOption{WithFormat("tiff")}},
		{"nil image pointer", (*image.RGBA)(nil), nil},
		{"nil chart pointer", (*chart.Chart)(nil), nil},
		{"nil animation pointer", (*Animation)(nil), nil},
		{"nil frame", Animation{Frames: []any{nil}}, nil},
		{"nil image frame", Animation{Frames: []any{(*image.RGBA)(nil)}}, nil},
		{"unknown colormap", testMatrix(3), []PlotOption{WithColormap("jet")}},
		{"unknown colormap frame", Animation{Frames: []any{testMatrix(3)}}, []PlotOption{WithColormap("jet")}},
		{"oversized array", Array{Data: make([]float64, 4), Rows: 1 << 62, Cols: 4}, nil},
		{"oversized scale", testMatrix(1), []PlotOption{WithScale(1 << 40)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plot(tt.input, tt.opts...)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrUnsupportedInput)
			assert.NotErrorIs(t, err, ErrInvalidLayout)

			var uerr *UnsupportedInputError
			assert.ErrorAs(t, err, &uerr)
		})
	}
}

func TestPlot_ColormapNames(t *testing.T) {
	m := testMatrix(3)
	plain, err := Plot(m)
	require.NoError(t, err)
	empty, err := Plot(m, WithColormap(""))
	require.NoError(t, err)
	viridis, err := Plot(m, WithColormap("viridis"))
	require.NoError(t, err)
	assert.Equal(t, getAttr(plain, "src"), getAttr(empty, "src"))
	assert.Equal(t, getAttr(plain, "src"), getAttr(viridis, "src"))

	gray, err := Plot(m, WithColormap("gray"))
	require.NoError(t, err)
	grey, err := Plot(m, WithColormap(" Grey "))
	require.NoError(t, err)
	assert.Equal(t, getAttr(gray, "src"), getAttr(grey, "src"))
	assert.NotEqual(t, getAttr(plain, "src"), getAttr(gray, "src"))

	_, err = Plot(m, WithColormap("jet"))
	var uerr *UnsupportedInputError
	require.ErrorAs(t, err, &uerr)
	assert.Contains(t, uerr.Reason, `"jet"`)
}

func TestPlot_UnsupportedNamesType(t *testing.T) {
	_, err := Plot("x")
	var uerr *UnsupportedInputError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, "string", uerr.Type)
}

func TestRenderer_Defaults(t *testing.T) {
	d := StandardDefaults()
	d.FigureFormat = "svg"
	r := New(WithDefaults(d))

	n, err := r.Plot(testChart())
	require.NoError(t, err)
	mime, _ := payload(t, getAttr(n, "src"))
	assert.Equal(t, "image/svg+xml", mime)
	assert.Equal(t, "svg", r.Defaults().FigureFormat)
}

func TestRenderer_ArrayCache(t *testing.T) {
	r := New(WithCacheSize(4))
	m := testMatrix(4)

	first, err := r.Plot(m)
	require.NoError(t, err)
	second, err := r.Plot(m)
	require.NoError(t, err)
	assert.Equal(t, getAttr(first, "src"), getAttr(second, "src"))
	assert.Equal(t, 1, r.cache.Len())

	_, err = r.Plot(m, WithColormap("magma"))
	require.NoError(t, err)
	assert.Equal(t, 2, r.cache.Len())
}
