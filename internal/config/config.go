package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"k8s.io/apimachinery/pkg/util/validation/field"
	"sigs.k8s.io/yaml"

	"domrep/internal/colormap"
	"domrep/internal/encode"
	"domrep/report"
)

type Config struct {
	Plot   Plot   `toml:"plot" json:"plot"`
	Slider Slider `toml:"slider" json:"slider"`
	Cache  Cache  `toml:"cache" json:"cache"`
}

type Plot struct {
	FigureFormat    string `toml:"figure_format" json:"figureFormat"`
	ImageFormat     string `toml:"image_format" json:"imageFormat"`
	AnimationFormat string `toml:"animation_format" json:"animationFormat"`
	Colormap        string `toml:"colormap" json:"colormap"`
	Scale           int    `toml:"scale" json:"scale"`
	JPEGQuality     int    `toml:"jpeg_quality" json:"jpegQuality"`
	FrameDelayMS    int    `toml:"frame_delay_ms" json:"frameDelayMs"`
}

type Slider struct {
	IntervalMS int `toml:"interval_ms" json:"intervalMs"`
}

// Cache sizes the renderer's array cache. Zero disables it.
type Cache struct {
	Size int `toml:"size" json:"size"`
}

func Default() Config {
	d := report.StandardDefaults()
	return Config{
		Plot: Plot{
			FigureFormat:    d.FigureFormat,
			ImageFormat:     d.ImageFormat,
			AnimationFormat: d.AnimationFormat,
			Colormap:        d.Colormap,
			Scale:           d.Scale,
			JPEGQuality:     d.JPEGQuality,
			FrameDelayMS:    int(d.FrameDelay.Milliseconds()),
		},
		Slider: Slider{IntervalMS: int(d.SliderInterval.Milliseconds())},
	}
}

// Load reads a TOML, YAML or JSON file over the defaults and validates it.
// An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("parse %s: unknown keys %v", path, undecoded)
		}
	case ".yaml", ".yml", ".json":
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		if err := yaml.UnmarshalStrict(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		return Config{}, fmt.Errorf("config %s: unsupported extension %q", path, ext)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c Config) Validate() error {
	var errs field.ErrorList
	plot := field.NewPath("plot")

	checkFormat := func(p *field.Path, v string, allowed []encode.Format) {
		f, err := encode.ParseFormat(v)
		if err == nil && encode.Supports(allowed, f) {
			return
		}
		valid := make([]string, len(allowed))
		for i, a := range allowed {
			valid[i] = string(a)
		}
		errs = append(errs, field.NotSupported(p, v, valid))
	}
	checkFormat(plot.Child("figureFormat"), c.Plot.FigureFormat, encode.FigureFormats)
	checkFormat(plot.Child("imageFormat"), c.Plot.ImageFormat, encode.ImageFormats)
	checkFormat(plot.Child("animationFormat"), c.Plot.AnimationFormat, encode.AnimationFormats)

	if !colormap.Known(c.Plot.Colormap) {
		errs = append(errs, field.NotSupported(plot.Child("colormap"), c.Plot.Colormap, colormap.Names()))
	}
	if c.Plot.Scale < 1 {
		errs = append(errs, field.Invalid(plot.Child("scale"), c.Plot.Scale, "must be at least 1"))
	}
	if c.Plot.JPEGQuality < 1 || c.Plot.JPEGQuality > 100 {
		errs = append(errs, field.Invalid(plot.Child("jpegQuality"), c.Plot.JPEGQuality, "must be between 1 and 100"))
	}
	if c.Plot.FrameDelayMS < 10 {
		errs = append(errs, field.Invalid(plot.Child("frameDelayMs"), c.Plot.FrameDelayMS, "must be at least 10"))
	}
	if c.Slider.IntervalMS <= 0 {
		errs = append(errs, field.Invalid(field.NewPath("slider", "intervalMs"), c.Slider.IntervalMS, "must be positive"))
	}
	if c.Cache.Size < 0 {
		errs = append(errs, field.Invalid(field.NewPath("cache", "size"), c.Cache.Size, "must not be negative"))
	}
	return errs.ToAggregate()
}

func (c Config) Defaults() report.Defaults {
	return report.Defaults{
		FigureFormat:    c.Plot.FigureFormat,
		ImageFormat:     c.Plot.ImageFormat,
		AnimationFormat: c.Plot.AnimationFormat,
		Colormap:        string(colormap.Normalize(c.Plot.Colormap)),
		Scale:           c.Plot.Scale,
		JPEGQuality:     c.Plot.JPEGQuality,
		FrameDelay:      time.Duration(c.Plot.FrameDelayMS) * time.Millisecond,
		SliderInterval:  time.Duration(c.Slider.IntervalMS) * time.Millisecond,
	}
}

// Renderer builds a report.Renderer from the config.
func (c Config) Renderer(opts ...report.Option) *report.Renderer {
	base := []report.Option{report.WithDefaults(c.Defaults()), report.WithCacheSize(c.Cache.Size)}
	return report.New(append(base, opts...)...)
}
