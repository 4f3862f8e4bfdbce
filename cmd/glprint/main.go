// Command glprint probes a WebGL host and prints its fingerprint report.
//
// Usage:
//
//	glprint [-host soft|wgpu|browser] [-format text|html|yaml|json] [-output file]
//	glprint -serve :8080
//
// Every flag can also be set through a GLPRINT_* environment variable,
// optionally from a .env file in the working directory.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/gogpu/glprint"
	_ "github.com/gogpu/glprint/host/browser"
	_ "github.com/gogpu/glprint/host/soft"
	_ "github.com/gogpu/glprint/host/wgpu"
	"github.com/gogpu/glprint/report"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := run(ctx, os.Args[1:], nil, os.Stdout, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("glprint: %v", err)
	}
}

// run is main without the process globals.
func run(ctx context.Context, args []string, environ map[string]string, stdout, stderr io.Writer) error {
	cfg, err := loadConfig(args, environ, stderr)
	if err != nil {
		return err
	}
	level, err := cfg.level()
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})).
		With("run", uuid.Must(uuid.NewV7()).String())
	glprint.SetLogger(logger)

	opts, err := cfg.probeOptions()
	if err != nil {
		return err
	}

	host, err := openHost(cfg.Host)
	if err != nil {
		return err
	}
	defer closeHost(host, logger)

	if cfg.Serve != "" {
		return serve(ctx, cfg, host, opts, logger)
	}
	return printReport(ctx, cfg, host, opts, stdout)
}

func printReport(ctx context.Context, cfg config, host glprint.Host, opts []glprint.Option, stdout io.Writer) error {
	res, err := glprint.Probe(ctx, host, opts...)
	if err != nil {
		return err
	}

	if cfg.Canvas != "" {
		if err := savePNG(cfg.Canvas, res); err != nil {
			return err
		}
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	out := stdout
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return report.New(res).Write(out, format)
}

func savePNG(path string, res *glprint.Result) error {
	if res.Canvas == nil {
		return fmt.Errorf("no canvas to save: %v", res.RenderErr)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, res.Canvas); err != nil {
		_ = f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func closeHost(host glprint.Host, logger *slog.Logger) {
	c, ok := host.(io.Closer)
	if !ok {
		return
	}
	if err := c.Close(); err != nil {
		logger.Warn("close host", "err", err)
	}
}
