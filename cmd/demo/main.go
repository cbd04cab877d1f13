package main

import (
	goflag "flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-logr/logr"
	flag "github.com/spf13/pflag"
	"golang.org/x/net/html"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"

	"domrep/internal/config"
	"domrep/internal/output"
	"domrep/report"
)

func main() {
	var (
		outDir     = flag.String("out", "./out", "Output directory")
		configPath = flag.String("config", "", "Renderer config file (.toml, .yaml or .json)")
		seed       = flag.Int64("seed", time.Now().UnixNano(), "Random seed for the sample arrays")
		frames     = flag.Int("frames", 20, "Number of slider frames")
		interval   = flag.Duration("interval", 0, "Slider autoplay interval (0 = config default)")
	)
	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	flag.CommandLine.AddGoFlagSet(klogFlags)
	flag.Parse()
	defer klog.Flush()

	if *frames < 1 {
		klog.ErrorS(nil, "--frames must be positive", "frames", *frames)
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		klog.ErrorS(err, "load config")
		os.Exit(1)
	}
	if *interval > 0 {
		cfg.Slider.IntervalMS = int(interval.Milliseconds())
	}

	if err := os.MkdirAll(*outDir, 0755); err != nil {
		klog.ErrorS(err, "mkdir failed", "dir", *outDir)
		os.Exit(1)
	}

	log := klog.NewKlogr().WithName("report")
	d := &demo{
		r:      cfg.Renderer(report.WithLogger(log)),
		log:    log,
		data:   newSampler(*seed),
		frames: *frames,
	}
	manifest := &output.Manifest{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Seed:        *seed,
	}

	var errs []error
	for _, p := range pages {
		entry, err := d.write(*outDir, p)
		if err != nil {
			klog.ErrorS(err, "write document", "file", p.file)
			errs = append(errs, fmt.Errorf("%s: %w", p.file, err))
			continue
		}
		klog.InfoS("wrote document", "file", entry.File, "images", entry.Images, "bytes", entry.Bytes)
		manifest.Documents = append(manifest.Documents, entry)
	}

	if err := output.WriteJSON(filepath.Join(*outDir, "manifest.json"), manifest); err != nil {
		errs = append(errs, fmt.Errorf("write manifest: %w", err))
	}
	if err := output.WriteMarkdown(filepath.Join(*outDir, "index.md"), manifest); err != nil {
		errs = append(errs, fmt.Errorf("write index: %w", err))
	}

	if agg := utilerrors.NewAggregate(errs); agg != nil {
		klog.ErrorS(agg, "demo finished with errors", "failed", len(agg.Errors()))
		klog.Flush()
		os.Exit(1)
	}
	fmt.Println("Documents:", len(manifest.Documents))
	fmt.Println("Manifest:", filepath.Join(*outDir, "manifest.json"))
}

type page struct {
	title string
	file  string
	build func(d *demo, body *html.Node) error
}

type demo struct {
	r      *report.Renderer
	log    logr.Logger
	data   *sampler
	frames int
}

// write builds one page into a fresh document and writes it under outDir.
func (d *demo) write(outDir string, p page) (output.Entry, error) {
	doc, body := report.Document(p.title)
	if err := p.build(d, body); err != nil {
		return output.Entry{}, err
	}
	path := filepath.Join(outDir, p.file)
	n, err := output.WriteHTML(path, doc)
	if err != nil {
		return output.Entry{}, err
	}
	return output.Entry{Title: p.title, File: p.file, Bytes: n, Images: output.CountImages(doc)}, nil
}
