// Package telemetry wires OpenTelemetry metrics and tracing for the
// command-line tools, exporting metrics in the Prometheus format.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.34.0"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/dacapoday/bplus/bptree"
)

// Config holds the telemetry settings.
type Config struct {
	// Enabled toggles metrics and tracing.
	Enabled bool `yaml:"enabled"`
	// ServiceName names the service in metrics and traces.
	ServiceName string `yaml:"service_name"`
	// PrometheusPort is where /metrics is served; 0 disables the listener.
	PrometheusPort int `yaml:"prometheus_port"`
}

// Telemetry holds the active providers.
type Telemetry struct {
	Tracer  trace.Tracer
	Meter   metric.Meter
	Metrics *Metrics

	registry *promclient.Registry
	shutdown []func(context.Context) error
}

// New sets up metrics and tracing. A disabled config yields no-op providers.
func New(config Config) (*Telemetry, error) {
	if !config.Enabled {
		tel := &Telemetry{
			Tracer: nooptrace.NewTracerProvider().Tracer(""),
			Meter:  noop.NewMeterProvider().Meter(""),
		}
		metrics, err := NewMetrics(tel.Meter)
		if err != nil {
			return nil, err
		}
		tel.Metrics = metrics
		return tel, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(config.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	registry := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.AlwaysSample()),
	)

	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)

	tel := &Telemetry{
		Tracer:   tracerProvider.Tracer(config.ServiceName),
		Meter:    meterProvider.Meter(config.ServiceName),
		registry: registry,
		shutdown: []func(context.Context) error{tracerProvider.Shutdown, meterProvider.Shutdown},
	}
	tel.Metrics, err = NewMetrics(tel.Meter)
	if err != nil {
		return nil, err
	}

	if config.PrometheusPort > 0 {
		if err := tel.serve(fmt.Sprintf(":%d", config.PrometheusPort)); err != nil {
			return nil, err
		}
	}
	return tel, nil
}

// Handler serves the collected metrics. It returns 404 when telemetry is disabled.
func (tel *Telemetry) Handler() http.Handler {
	if tel.registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(tel.registry, promhttp.HandlerOpts{})
}

func (tel *Telemetry) serve(addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", tel.Handler())
	server := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			otel.Handle(fmt.Errorf("metrics server: %w", err))
		}
	}()
	tel.shutdown = append(tel.shutdown, server.Shutdown)
	return nil
}

// Shutdown stops the metrics listener and flushes the providers.
func (tel *Telemetry) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var errs []error
	for i := len(tel.shutdown) - 1; i >= 0; i-- {
		if err := tel.shutdown[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	tel.shutdown = nil
	return errors.Join(errs...)
}

// Metrics counts tree operations and structural changes.
// It implements bptree.Observer.
type Metrics struct {
	operations      metric.Int64Counter
	splits          metric.Int64Counter
	merges          metric.Int64Counter
	redistributions metric.Int64Counter
	grows           metric.Int64Counter
	shrinks         metric.Int64Counter
	height          metric.Int64Gauge
}

var _ bptree.Observer = (*Metrics)(nil)

var (
	leafKind     = metric.WithAttributes(attribute.String("kind", "leaf"))
	internalKind = metric.WithAttributes(attribute.String("kind", "internal"))
)

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	var m Metrics
	var err error
	counters := []struct {
		counter *metric.Int64Counter
		name    string
		desc    string
	}{
		{&m.operations, "bplus.tree.operations", "Tree operations by kind."},
		{&m.splits, "bplus.tree.splits", "Node splits."},
		{&m.merges, "bplus.tree.merges", "Sibling merges."},
		{&m.redistributions, "bplus.tree.redistributions", "Slots borrowed from a sibling."},
		{&m.grows, "bplus.tree.root_grows", "New roots created by a split."},
		{&m.shrinks, "bplus.tree.root_shrinks", "Roots collapsed into their only child."},
	}
	for _, c := range counters {
		*c.counter, err = meter.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("create counter %s: %w", c.name, err)
		}
	}
	m.height, err = meter.Int64Gauge("bplus.tree.height", metric.WithDescription("Tree height after the last structural change."))
	if err != nil {
		return nil, fmt.Errorf("create gauge bplus.tree.height: %w", err)
	}
	return &m, nil
}

// Operation counts one tree operation such as "insert" or "remove".
func (m *Metrics) Operation(ctx context.Context, op string) {
	m.operations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

func kind(leaf bool) metric.AddOption {
	if leaf {
		return leafKind
	}
	return internalKind
}

func (m *Metrics) Split(leaf bool) {
	m.splits.Add(context.Background(), 1, kind(leaf))
}

func (m *Metrics) Merge(leaf bool) {
	m.merges.Add(context.Background(), 1, kind(leaf))
}

func (m *Metrics) Redistribute(leaf bool) {
	m.redistributions.Add(context.Background(), 1, kind(leaf))
}

func (m *Metrics) Grow(height int) {
	m.grows.Add(context.Background(), 1)
	m.height.Record(context.Background(), int64(height))
}

func (m *Metrics) Shrink(height int) {
	m.shrinks.Add(context.Background(), 1)
	m.height.Record(context.Background(), int64(height))
}
