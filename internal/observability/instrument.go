package observability

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"go.opentelemetry.io/contrib/bridges/otelslog"
	"go.opentelemetry.io/contrib/processors/minsev"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploghttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// instrumentationName identifies log records emitted through the OpenTelemetry bridge.
const instrumentationName = "github.com/florianilch/hootsweet"

// Options configures Instrument.
type Options struct {
	Level slog.Level
	// Format of the stdout handler: text or json.
	Format string
	// Exporter additionally ships records via OpenTelemetry:
	// none, stdout, otlp-http or otlp-grpc.
	Exporter string
	// Endpoint overrides the OTLP exporter endpoint (host:port).
	Endpoint string
	// Output defaults to os.Stdout.
	Output io.Writer
}

// Instrument installs the default slog logger and the W3C trace-context
// propagator. The returned function flushes and stops the OpenTelemetry
// pipeline; it is a no-op when no exporter is configured.
func Instrument(ctx context.Context, opts Options) (shutdown func(context.Context) error, err error) {
	out := opts.Output
	if out == nil {
		out = os.Stdout
	}

	handler, err := newStdoutHandler(out, opts.Level, opts.Format)
	if err != nil {
		return nil, err
	}

	shutdown = func(context.Context) error { return nil }

	exporter, err := newExporter(ctx, opts)
	if err != nil {
		return nil, err
	}
	if exporter != nil {
		provider := sdklog.NewLoggerProvider(
			sdklog.WithProcessor(
				minsev.NewLogProcessor(sdklog.NewBatchProcessor(exporter), severity(opts.Level)),
			),
		)
		shutdown = provider.Shutdown

		handler = newFanoutHandler(
			handler,
			otelslog.NewHandler(instrumentationName, otelslog.WithLoggerProvider(provider)),
		)
	}

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	slog.SetDefault(slog.New(newTraceContextHandler(handler)))

	return shutdown, nil
}

// newStdoutHandler creates a handler for human-readable logs.
func newStdoutHandler(out io.Writer, level slog.Level, logFormat string) (slog.Handler, error) {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	switch strings.ToLower(logFormat) {
	case "json":
		handler = slog.NewJSONHandler(out, opts)
	case "text", "":
		handler = slog.NewTextHandler(out, opts)
	default:
		return nil, fmt.Errorf("unsupported log format %q (expected: json, text)", logFormat)
	}

	return handler, nil
}

// newExporter creates the OpenTelemetry log exporter, or nil for "none".
func newExporter(ctx context.Context, opts Options) (sdklog.Exporter, error) {
	switch strings.ToLower(opts.Exporter) {
	case "", "none":
		return nil, nil
	case "stdout":
		return stdoutlog.New(stdoutlog.WithWriter(os.Stderr))
	case "otlp-http":
		var httpOpts []otlploghttp.Option
		if opts.Endpoint != "" {
			httpOpts = append(httpOpts, otlploghttp.WithEndpoint(opts.Endpoint))
		}
		return otlploghttp.New(ctx, httpOpts...)
	case "otlp-grpc":
		var grpcOpts []otlploggrpc.Option
		if opts.Endpoint != "" {
			grpcOpts = append(grpcOpts, otlploggrpc.WithEndpoint(opts.Endpoint))
		}
		return otlploggrpc.New(ctx, grpcOpts...)
	default:
		return nil, fmt.Errorf("unsupported log exporter %q (expected: none, stdout, otlp-http, otlp-grpc)", opts.Exporter)
	}
}

// severity maps the slog level onto the minimum severity forwarded to the exporter.
func severity(level slog.Level) minsev.Severity {
	switch {
	case level <= slog.LevelDebug:
		return minsev.SeverityDebug
	case level <= slog.LevelInfo:
		return minsev.SeverityInfo
	case level <= slog.LevelWarn:
		return minsev.SeverityWarn
	default:
		return minsev.SeverityError
	}
}

// ParseLevel parses a level name such as "debug" or "warn".
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return 0, errors.Join(fmt.Errorf("invalid log level %q", name), err)
	}
	return level, nil
}
