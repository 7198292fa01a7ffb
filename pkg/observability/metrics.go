package observability

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// MetricsConfig holds metrics configuration.
type MetricsConfig struct {
	ServiceName string
	// RuntimeCollectors adds Go runtime and process metrics to the scrape.
	RuntimeCollectors bool
}

// Metrics ties an OpenTelemetry meter provider to a private Prometheus
// registry. Handler serves that registry only, so separate Metrics values
// never see each other's instruments.
type Metrics struct {
	Provider *sdkmetric.MeterProvider
	Handler  http.Handler
	service  string
}

// InitMetrics builds the provider and its scrape handler.
func InitMetrics(cfg MetricsConfig) (*Metrics, error) {
	registry := prometheus.NewRegistry()
	if cfg.RuntimeCollectors {
		if err := registry.Register(collectors.NewGoCollector()); err != nil {
			return nil, fmt.Errorf("register go collector: %w", err)
		}
		if err := registry.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return nil, fmt.Errorf("register process collector: %w", err)
		}
	}

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &Metrics{
		Provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
		Handler:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		service:  cfg.ServiceName,
	}, nil
}

// Meter returns a meter scoped to the configured service name.
func (m *Metrics) Meter() metric.Meter {
	return m.Provider.Meter(m.service)
}

// Shutdown flushes and stops the provider.
func (m *Metrics) Shutdown(ctx context.Context) error {
	if err := m.Provider.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown meter provider: %w", err)
	}
	return nil
}
