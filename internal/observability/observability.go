// Package observability configures the process-wide slog logger.
package observability

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

const instrumentationName = "github.com/florianilch/authkeep"

// Options controls Instrument.
type Options struct {
	Level  slog.Level
	Format string // text, json or otel

	// AddSource attaches source locations to records (text and json formats).
	AddSource bool

	// Writer receives text, json and stdout-exported otel records. Defaults to os.Stderr.
	Writer io.Writer

	// Getenv reads OTEL_* variables. Defaults to os.Getenv.
	Getenv func(string) string
}

// Instrument installs the default slog logger and returns a shutdown function that
// flushes pending records.
func Instrument(ctx context.Context, opts Options) (func(context.Context) error, error) {
	if opts.Writer == nil {
		opts.Writer = os.Stderr
	}
	if opts.Getenv == nil {
		opts.Getenv = os.Getenv
	}

	noop := func(context.Context) error { return nil }
	handlerOpts := &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource}

	switch opts.Format {
	case "", "text":
		slog.SetDefault(slog.New(slog.NewTextHandler(opts.Writer, handlerOpts)))
		return noop, nil
	case "json":
		slog.SetDefault(slog.New(slog.NewJSONHandler(opts.Writer, handlerOpts)))
		return noop, nil
	case "otel":
		processor, err := newProcessor(ctx, opts)
		if err != nil {
			return nil, err
		}
		provider := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(minsev.NewLogProcessor(processor, severity(opts.Level))),
		)
		global.SetLoggerProvider(provider)
		slog.SetDefault(otelslog.NewLogger(instrumentationName, otelslog.WithLoggerProvider(provider)))
		return provider.Shutdown, nil
	default:
		return nil, fmt.Errorf("unsupported log format: %s", opts.Format)
	}
}

// newProcessor picks an exporter following the OTEL_LOGS_EXPORTER and
// OTEL_EXPORTER_OTLP_PROTOCOL conventions. Console export is the default.
func newProcessor(ctx context.Context, opts Options) (sdklog.Processor, error) {
	switch exporter := opts.Getenv("OTEL_LOGS_EXPORTER"); exporter {
	case "", "console":
		exp, err := stdoutlog.New(stdoutlog.WithWriter(opts.Writer))
		if err != nil {
			return nil, fmt.Errorf("creating stdout log exporter: %w", err)
		}
		return sdklog.NewSimpleProcessor(exp), nil
	case "otlp":
		var exp sdklog.Exporter
		var err error
		switch protocol := opts.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"); protocol {
		case "grpc":
			exp, err = otlploggrpc.New(ctx)
		case "", "http/protobuf":
			exp, err = otlploghttp.New(ctx)
		default:
			return nil, fmt.Errorf("unsupported otlp protocol: %s", protocol)
		}
		if err != nil {
			return nil, fmt.Errorf("creating otlp log exporter: %w", err)
		}
		return sdklog.NewBatchProcessor(exp), nil
	default:
		return nil, fmt.Errorf("unsupported logs exporter: %s", exporter)
	}
}

// severity maps a slog level onto the closest OTel severity.
func severity(level slog.Level) minsev.Severity {
	switch {
	case level < slog.LevelInfo:
		return minsev.SeverityDebug
	case level < slog.LevelWarn:
		return minsev.SeverityInfo
	case level < slog.LevelError:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}
