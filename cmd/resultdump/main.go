// Command resultdump loads a query result fixture, walks it with one of the
// result iterators and prints every element as a JSON line.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"golang.org/x/term"
	"google.golang.org/grpc"

	"github.com/INLOpen/nexusgraph/config"
	"github.com/INLOpen/nexusgraph/core"
	"github.com/INLOpen/nexusgraph/iterator"
	"github.com/INLOpen/nexusgraph/sys"
)

// createLogger creates a slog.Logger based on the provided configuration.
func createLogger(cfg config.LoggingConfig) (*slog.Logger, io.Closer, error) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return nil, nil, fmt.Errorf("invalid log level: %s", cfg.Level)
	}

	var output io.Writer
	var closer io.Closer
	switch strings.ToLower(cfg.Output) {
	case "stdout":
		// Elements go to stdout, so logs do not.
		output = os.Stderr
	case "file":
		if cfg.File == "" {
			return nil, nil, fmt.Errorf("log output is 'file' but no file path is specified")
		}
		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
		}
		output = file
		closer = file
	case "none":
		output = io.Discard
	default:
		return nil, nil, fmt.Errorf("invalid log output: %s", cfg.Output)
	}

	logger := slog.New(slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level}))
	return logger, closer, nil
}

// initTracerProvider creates and configures an OpenTelemetry TracerProvider.
func initTracerProvider(cfg config.TracingConfig, logger *slog.Logger) (*sdktrace.TracerProvider, func(), error) {
	if !cfg.Enabled {
		logger.Debug("Distributed tracing is disabled.")
		return sdktrace.NewTracerProvider(), func() {}, nil
	}

	logger.Info("Initializing distributed tracing...", "protocol", cfg.Protocol, "endpoint", cfg.Endpoint)

	ctx := context.Background()
	var exporter sdktrace.SpanExporter
	var err error

	switch strings.ToLower(cfg.Protocol) {
	case "http":
		exporter, err = otlptrace.New(ctx, otlptracehttp.NewClient(otlptracehttp.WithEndpoint(cfg.Endpoint), otlptracehttp.WithInsecure()))
	case "grpc":
		exporter, err = otlptrace.New(ctx, otlptracegrpc.NewClient(
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
			otlptracegrpc.WithInsecure(),
			otlptracegrpc.WithDialOption(grpc.WithUserAgent("nexusgraph-resultdump")),
		))
	default:
		return nil, nil, fmt.Errorf("unsupported tracing protocol: %q", cfg.Protocol)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceNameKey.String("nexusgraph-resultdump")))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create trace resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down tracer provider", "error", err)
		}
	}
	return tp, cleanup, nil
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to the configuration file")
	inputPaths := flag.String("input", "", "Comma-separated YAML result fixtures, optionally .sz/.lz4/.zst/.xz compressed (stdin if empty)")
	outputPath := flag.String("output", "", "Write elements to this file instead of stdout, compressed by its extension")
	prettyFlag := flag.String("pretty", "auto", "Indent each element: auto (when stdout is a terminal), always or never")
	kindFlag := flag.String("kind", "getneighbors", "Iterator kind: getneighbors, sequential or prop")
	modeFlag := flag.String("mode", "rows", "What to print per element: rows, vertices or edges")
	selectFlag := flag.String("select", "", "Keep only the window offset,count before printing")
	sampleFlag := flag.Int("sample", 0, "Keep a random sample of at most n elements before printing")
	flag.Parse()

	args := runArgs{
		configPath: *configPath,
		inputPaths: *inputPaths,
		outputPath: *outputPath,
		kind:       *kindFlag,
		mode:       *modeFlag,
		window:     *selectFlag,
		sample:     *sampleFlag,
		pretty:     *prettyFlag,
	}
	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "resultdump: %v\n", err)
		os.Exit(1)
	}
}

type runArgs struct {
	configPath string
	inputPaths string
	outputPath string
	kind       string
	mode       string
	window     string
	sample     int
	pretty     string
}

// prettyOutput decides whether elements are indented.
func prettyOutput(flagValue, outputPath string) (bool, error) {
	switch strings.ToLower(flagValue) {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		return outputPath == "" && term.IsTerminal(int(os.Stdout.Fd())), nil
	default:
		return false, fmt.Errorf("invalid pretty mode: %q", flagValue)
	}
}

func run(args runArgs) error {
	cfg, err := config.LoadConfig(args.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, logCloser, err := createLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	if logCloser != nil {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)

	opts := dumpOptions{sample: args.sample}
	if opts.kind, err = parseKind(args.kind); err != nil {
		return err
	}
	if opts.mode, err = parseMode(args.mode); err != nil {
		return err
	}
	if opts.window, err = parseSelect(args.window); err != nil {
		return err
	}
	if opts.pretty, err = prettyOutput(args.pretty, args.outputPath); err != nil {
		return err
	}

	tp, cleanup, err := initTracerProvider(cfg.Tracing, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer cleanup()

	watcher := sys.NewMemoryWatcher(sys.MemoryWatcherOptions{
		HighWatermarkRatio: cfg.Memory.HighWatermarkRatio,
		Interval:           config.ParseDuration(cfg.Memory.CheckInterval, time.Second, logger),
		PublishGlobal:      true,
		Logger:             logger,
	})
	watcher.Start()
	defer watcher.Stop()

	ctx := context.Background()
	var datasets []*core.DataSet
	if args.inputPaths == "" {
		datasets, err = loadFixture(os.Stdin)
	} else {
		datasets, err = loadFixtures(ctx, strings.Split(args.inputPaths, ","))
	}
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if args.outputPath != "" {
		f, err := createOutput(args.outputPath)
		if err != nil {
			return err
		}
		defer func() {
			if err := f.Close(); err != nil {
				logger.Error("Failed to close output", "path", args.outputPath, "error", err)
			}
		}()
		out = f
	}

	itOpts := iterator.OptionsFromConfig(cfg.Iterator, logger)
	n, err := dump(ctx, out, datasets, opts, itOpts, tp.Tracer("resultdump"))
	if err != nil {
		return err
	}
	logger.Info("Dump finished", "elements", n, "iterator", opts.kind.String(), "mode", opts.mode)
	return nil
}
