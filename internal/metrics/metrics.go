package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/electrohub/backend/internal/config"
)

const serviceName = "electrohub-backend"

// Metrics holds the business counters recorded by the handlers.
type Metrics struct {
	OrdersCreated  metric.Int64Counter
	OrderFailures  metric.Int64Counter
	RevenueTotal   metric.Float64Counter
	ProductsViewed metric.Int64Counter
}

// Init sets up an OTLP/HTTP meter provider exporting every 10 seconds
// and registers the business counters.
func Init(ctx context.Context, cfg *config.Config) (*Metrics, *sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTLP_ENDPOINT),
	}
	if cfg.OTLP_INSECURE == "true" {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("otlp exporter: %w", err)
	}

	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
	)

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))),
	)
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	ordersCreated, err := meter.Int64Counter(
		"orders_created_total",
		metric.WithDescription("Total number of orders created"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, err
	}

	orderFailures, err := meter.Int64Counter(
		"order_failures_total",
		metric.WithDescription("Total number of rejected order attempts"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, err
	}

	revenueTotal, err := meter.Float64Counter(
		"revenue_total",
		metric.WithDescription("Total revenue across created orders"),
		metric.WithUnit("USD"),
	)
	if err != nil {
		return nil, nil, err
	}

	productsViewed, err := meter.Int64Counter(
		"products_viewed_total",
		metric.WithDescription("Total number of product detail views"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, nil, err
	}

	return &Metrics{
		OrdersCreated:  ordersCreated,
		OrderFailures:  orderFailures,
		RevenueTotal:   revenueTotal,
		ProductsViewed: productsViewed,
	}, provider, nil
}
