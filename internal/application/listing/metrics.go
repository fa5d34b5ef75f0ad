package listing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rezkam/newsdesk/internal/domain"
)

const instrumentationName = "github.com/rezkam/newsdesk/internal/application/listing"

// metrics counts retrievals per facet. Instruments that fail to register are
// left nil and skipped.
type metrics struct {
	dispatched metric.Int64Counter
	discarded  metric.Int64Counter
	failed     metric.Int64Counter
	mutations  metric.Int64Counter
}

func newMetrics(meter metric.Meter) *metrics {
	if meter == nil {
		meter = otel.Meter(instrumentationName)
	}

	m := &metrics{}
	m.dispatched, _ = meter.Int64Counter("newsdesk.listing.dispatched",
		metric.WithDescription("Listing retrievals dispatched"))
	m.discarded, _ = meter.Int64Counter("newsdesk.listing.discarded",
		metric.WithDescription("Listing results discarded because a newer query superseded them"))
	m.failed, _ = meter.Int64Counter("newsdesk.listing.failed",
		metric.WithDescription("Listing retrievals that failed"))
	m.mutations, _ = meter.Int64Counter("newsdesk.listing.mutations",
		metric.WithDescription("Mutations observed by the listing, by outcome"))
	return m
}

func facetAttr(f domain.Facet) metric.AddOption {
	return metric.WithAttributes(attribute.String("facet", string(f)))
}

func mutationAttrs(kind domain.MutationKind, err error) metric.AddOption {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	return metric.WithAttributes(
		attribute.String("mutation", string(kind)),
		attribute.String("outcome", outcome),
	)
}

func (m *metrics) add(ctx context.Context, c metric.Int64Counter, opts ...metric.AddOption) {
	if c == nil {
		return
	}
	c.Add(ctx, 1, opts...)
}
