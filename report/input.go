package report

import (
	"time"

	"domrep/internal/encode"
	"domrep/internal/raster"
)

// Figure is any go-chart chart: chart.Chart, chart.BarChart, chart.PieChart, ...
type Figure = encode.Renderable

// Array is a numeric pixel array. See raster.Array.
type Array = raster.Array

type Limits = raster.Limits

// Source is an image URL or path used as the src attribute verbatim.
type Source string

// Animation is a sequence of frames encoded as an animated image. Frames
// may be figures, images, arrays or [][]float64 matrices.
type Animation struct {
	Frames []any
	// Delay between frames. Zero uses the renderer default.
	Delay time.Duration
	// LoopCount follows image/gif: 0 loops forever, -1 plays once.
	LoopCount int
}
