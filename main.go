package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"

	"github.com/google/uuid"

	"github.com/df07/go-sphere-raytracer/pkg/log"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

type options struct {
	scenePath string
	format    string
	out       string
	width     int
	samples   int
	workers   int
	seed      int64
	logLevel  string
	progress  int
}

func main() {
	opts := options{}
	help := flag.Bool("help", false, "Show help information")
	flag.StringVar(&opts.scenePath, "scene", "", "YAML scene file (default: built-in reference scene)")
	flag.StringVar(&opts.format, "format", "ppm", "Output format: 'ppm' or 'png'")
	flag.StringVar(&opts.out, "out", "", "Output file (default: stdout)")
	flag.IntVar(&opts.width, "width", 0, "Override image width")
	flag.IntVar(&opts.samples, "samples", 0, "Override samples per pixel")
	flag.IntVar(&opts.workers, "workers", 1, "Parallel scanline workers (0 = one per CPU)")
	flag.Int64Var(&opts.seed, "seed", renderer.DefaultSeed, "Random seed")
	flag.StringVar(&opts.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.IntVar(&opts.progress, "progress-every", 1, "Log every n-th scanline")
	flag.Parse()

	if *help {
		fmt.Println("Sphere Raytracer")
		fmt.Println("Usage: raytracer [options] > image.ppm")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		return
	}

	level, err := log.ParseLevel(opts.logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := log.New(level).With(log.String("run_id", uuid.NewString()))
	defer logger.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		logger.Error("render failed", log.Err(err))
		stop()
		os.Exit(1)
	}
}

// run loads the scene, renders it and writes the encoded image
func run(ctx context.Context, opts options, stdout io.Writer, logger *log.Logger) error {
	s, err := loadScene(opts)
	if err != nil {
		return err
	}

	workers := opts.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	rt, err := renderer.NewRaytracer(s, renderer.Config{
		SamplesPerPixel: opts.samples,
		Workers:         workers,
		Seed:            opts.seed,
	})
	if err != nil {
		return err
	}
	rt.SetProgress(log.NewProgressLogger(logger, opts.progress))

	dst := stdout
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		dst = f
	}

	w, err := output.NewWriter(opts.format, dst)
	if err != nil {
		return err
	}

	width, height := rt.Size()
	logger.Info("render started",
		log.Int("width", width),
		log.Int("height", height),
		log.Int("samples", rt.Config().SamplesPerPixel),
		log.Int("workers", workers),
		log.Int("objects", s.Len()),
	)

	stats, err := rt.Render(ctx, w)
	if err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("encode %s: %w", opts.format, err)
	}

	logger.Info("render completed",
		log.Duration("elapsed", stats.Duration),
		log.Int("pixels", stats.TotalPixels),
		log.Int("total_samples", stats.TotalSamples),
	)
	return nil
}

// loadScene returns the scene file's scene or the reference scene, with any
// command line overrides applied
func loadScene(opts options) (*scene.Scene, error) {
	cfg := scene.DefaultConfig()
	if opts.scenePath != "" {
		loaded, err := scene.LoadFile(opts.scenePath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if opts.width < 0 || opts.samples < 0 {
		return nil, errors.New("width and samples overrides must not be negative")
	}
	if opts.width > 0 {
		cfg.Image.Width = opts.width
	}
	if opts.samples > 0 {
		cfg.Image.SamplesPerPixel = opts.samples
	}
	return cfg.Build()
}
