package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"

	"DigitalWhiteboard/internal/export"
	"DigitalWhiteboard/internal/session"
)

type exportOptions struct {
	format string
	outDir string
	width  int
	height int
}

func runExport(args []string, stdout io.Writer, logger *slog.Logger) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	opts := exportOptions{}
	fs.StringVar(&opts.format, "format", "png", "output format: png or pdf")
	fs.StringVar(&opts.outDir, "out", "", "output directory (default: next to each session)")
	fs.IntVar(&opts.width, "width", 800, "page width in pixels")
	fs.IntVar(&opts.height, "height", 600, "page height in pixels")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.format = strings.ToLower(opts.format)
	if opts.format != "png" && opts.format != "pdf" {
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	if opts.width <= 0 || opts.height <= 0 {
		return errors.New("width and height must be positive")
	}
	files := fs.Args()
	if len(files) == 0 {
		return errors.New("no session files given")
	}
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return err
		}
	}

	outputs := make([]string, len(files))
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i, path := range files {
		g.Go(func() error {
			out, err := exportOne(path, opts, logger)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			outputs[i] = out
			return nil
		})
	}
	err := g.Wait()
	for _, out := range outputs {
		if out != "" {
			fmt.Fprintln(stdout, out)
		}
	}
	return err
}

func outputPath(path string, opts exportOptions) string {
	dir := filepath.Dir(path)
	if opts.outDir != "" {
		dir = opts.outDir
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(dir, base+"."+opts.format)
}

func exportOne(path string, opts exportOptions, logger *slog.Logger) (string, error) {
	items, err := session.Load(path)
	if err != nil {
		return "", err
	}
	out := outputPath(path, opts)
	f, err := os.Create(out)
	if err != nil {
		return "", err
	}
	if opts.format == "pdf" {
		err = export.PDF(f, items, float64(opts.width), float64(opts.height))
	} else {
		err = export.PNG(f, items, opts.width, opts.height)
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(out)
		return "", err
	}
	logger.Info("exported session", "path", path, "out", out, "items", len(items))
	return out, nil
}
