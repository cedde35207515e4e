package obs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Trace exporter names accepted by TracingConfig.
const (
	TraceExporterNone   = "none"
	TraceExporterStdout = "stdout"
	TraceExporterFile   = "file"
)

const defaultServiceName = "pom-e2e"

// TracingConfig selects where page-step spans go.
type TracingConfig struct {
	Exporter    string
	FilePath    string
	ServiceName string
}

// StartTracing installs a global tracer provider for cfg and returns its
// shutdown func. With the none exporter the global no-op provider is left in
// place and shutdown does nothing.
func StartTracing(cfg TracingConfig) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	var (
		w       io.Writer
		closer  io.Closer
		options []stdouttrace.Option
	)
	switch cfg.Exporter {
	case "", TraceExporterNone:
		return noop, nil
	case TraceExporterStdout:
		w = os.Stdout
		options = append(options, stdouttrace.WithPrettyPrint())
	case TraceExporterFile:
		if cfg.FilePath == "" {
			return nil, fmt.Errorf("file path required for %s trace exporter", TraceExporterFile)
		}
		if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0o750); err != nil {
			return nil, fmt.Errorf("create trace directory: %w", err)
		}
		f, err := os.OpenFile(filepath.Clean(cfg.FilePath), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
		if err != nil {
			return nil, fmt.Errorf("open trace file: %w", err)
		}
		w, closer = f, f
	default:
		return nil, fmt.Errorf("unsupported trace exporter %q", cfg.Exporter)
	}

	exporter, err := stdouttrace.New(append(options, stdouttrace.WithWriter(w))...)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = defaultServiceName
	}
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(resource.NewSchemaless(attribute.String("service.name", serviceName))),
		sdktrace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(provider)

	return func(ctx context.Context) error {
		err := provider.Shutdown(ctx)
		if closer != nil {
			if cerr := closer.Close(); err == nil {
				err = cerr
			}
		}
		return err
	}, nil
}

// Tracer returns a tracer from the current global provider.
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}
