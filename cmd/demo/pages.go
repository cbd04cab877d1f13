package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/net/html"

	"domrep/report"
)

var pages = []page{
	{"Captioned grid", "grid.html", (*demo).captionedGrid},
	{"Captioned slider", "caption-slider.html", (*demo).captionedSlider},
	{"Fast slider", "fast-slider.html", (*demo).fastSlider},
	{"Built slider", "built-slider.html", (*demo).builtSlider},
	{"Charts", "charts.html", (*demo).charts},
}

// captionedGrid lays nine captioned noise images out three per column.
func (d *demo) captionedGrid(body *html.Node) error {
	items := make([]any, 0, 9)
	for i := 0; i < 9; i++ {
		img, err := d.r.Plot(d.data.noise(50, 50), report.WithScale(4))
		if err != nil {
			return err
		}
		fig, err := d.r.Caption("hello", []any{img})
		if err != nil {
			return err
		}
		items = append(items, fig)
	}
	grid, err := d.r.ItemGrid(3, items, report.WithFlow(report.FlowColumn))
	if err != nil {
		return err
	}
	body.AppendChild(grid)
	return nil
}

func (d *demo) captionedSlider(body *html.Node) error {
	items, err := d.noiseFrames(d.frames, 50, 4)
	if err != nil {
		return err
	}
	s, err := d.r.Slider(items)
	if err != nil {
		return err
	}
	fig, err := d.r.Caption("testing", []any{s})
	if err != nil {
		return err
	}
	body.AppendChild(fig)
	return nil
}

func (d *demo) fastSlider(body *html.Node) error {
	items, err := d.noiseFrames(10, 10, 20)
	if err != nil {
		return err
	}
	s, err := d.r.Slider(items, report.WithInterval(50*time.Millisecond))
	if err != nil {
		return err
	}
	body.AppendChild(s)
	return nil
}

// builtSlider collects raw arrays one at a time and leaves the plotting to
// Slider, using a renderer that upscales them like fastSlider does.
func (d *demo) builtSlider(body *html.Node) error {
	def := d.r.Defaults()
	def.Scale = 20
	r := report.New(report.WithDefaults(def), report.WithLogger(d.log))

	var items []any
	for i := 0; i < 10; i++ {
		a := d.data.noise(10, 10)
		items = append(items, &a)
	}
	s, err := r.Slider(items, report.WithInterval(50*time.Millisecond), report.WithLabelPrefix("frame"))
	if err != nil {
		return err
	}
	body.AppendChild(s)
	return nil
}

// charts shows a static figure, an SVG bar chart and an animated figure.
func (d *demo) charts(body *html.Node) error {
	anim := report.Animation{Delay: 80 * time.Millisecond}
	for i := 0; i < 12; i++ {
		anim.Frames = append(anim.Frames, sineChart(float64(i)*math.Pi/6))
	}

	bars := chart.BarChart{
		Title:    "Column means",
		Width:    480,
		Height:   240,
		BarWidth: 40,
	}
	sample := d.data.noise(8, 5)
	for c := 0; c < sample.Cols; c++ {
		sum := 0.0
		for r := 0; r < sample.Rows; r++ {
			sum += sample.Data[r*sample.Cols+c]
		}
		bars.Bars = append(bars.Bars, chart.Value{Label: fmt.Sprintf("c%d", c), Value: sum / float64(sample.Rows)})
	}

	items := make([]any, 0, 3)
	for _, p := range []struct {
		title string
		input any
		opts  []report.PlotOption
	}{
		{"sine", sineChart(0), nil},
		{"column means", bars, []report.PlotOption{report.WithFormat("svg")}},
		{"phase sweep", anim, nil},
	} {
		img, err := d.r.Plot(p.input, append(p.opts, report.WithTitle(p.title))...)
		if err != nil {
			return fmt.Errorf("%s: %w", p.title, err)
		}
		items = append(items, img)
	}
	grid, err := d.r.ItemGrid(2, items)
	if err != nil {
		return err
	}
	body.AppendChild(grid)
	return nil
}

func (d *demo) noiseFrames(n, size, scale int) ([]any, error) {
	items := make([]any, 0, n)
	for i := 0; i < n; i++ {
		img, err := d.r.Plot(d.data.noise(size, size), report.WithScale(scale))
		if err != nil {
			return nil, err
		}
		items = append(items, img)
	}
	return items, nil
}

func sineChart(phase float64) chart.Chart {
	xs := make([]float64, 64)
	ys := make([]float64, len(xs))
	for i := range xs {
		xs[i] = float64(i) / float64(len(xs)-1) * 2 * math.Pi
		ys[i] = math.Sin(xs[i] + phase)
	}
	return chart.Chart{
		Width:  320,
		Height: 200,
		YAxis:  chart.YAxis{Range: &chart.ContinuousRange{Min: -1.1, Max: 1.1}},
		Series: []chart.Series{
			chart.ContinuousSeries{Name: "sin", XValues: xs, YValues: ys},
		},
	}
}

type sampler struct {
	rng *rand.Rand
}

func newSampler(seed int64) *sampler {
	return &sampler{rng: rand.New(rand.NewPCG(uint64(seed), 0x9e3779b97f4a7c15))}
}

// noise returns a rows x cols array of uniform values in [0,1).
func (s *sampler) noise(rows, cols int) report.Array {
	data := make([]float64, rows*cols)
	for i := range data {
		data[i] = s.rng.Float64()
	}
	return report.Array{Data: data, Rows: rows, Cols: cols, Channels: 1}
}
