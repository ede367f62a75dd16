package jinhx

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/pthm/jinhx"

// metrics holds the Prometheus collectors of one renderer. A nil *metrics
// records nothing.
type metrics struct {
	rendersTotal     *prometheus.CounterVec
	renderDuration   *prometheus.HistogramVec
	resolutionsTotal *prometheus.CounterVec
	assetFailures    *prometheus.CounterVec
	componentsPerRun prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)
	return &metrics{
		rendersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jinhx",
			Name:      "renders_total",
			Help:      "Total number of top-level renders",
		}, []string{"entry", "status"}),

		renderDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "jinhx",
			Name:      "render_duration_seconds",
			Help:      "Top-level render duration in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"entry"}),

		resolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jinhx",
			Name:      "resolutions_total",
			Help:      "Component tags resolved, by strategy",
		}, []string{"strategy"}),

		assetFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "jinhx",
			Name:      "asset_failures_total",
			Help:      "Assets that could not be located or read",
		}, []string{"kind"}),

		componentsPerRun: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "jinhx",
			Name:      "components_per_render",
			Help:      "Components rendered per top-level render",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
	}
}

func (m *metrics) observeRender(entry string, start time.Time, components int, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.rendersTotal.WithLabelValues(entry, status).Inc()
	m.renderDuration.WithLabelValues(entry).Observe(time.Since(start).Seconds())
	if err == nil {
		m.componentsPerRun.Observe(float64(components))
	}
}

func (m *metrics) resolved(s Strategy) {
	if m == nil {
		return
	}
	m.resolutionsTotal.WithLabelValues(s.String()).Inc()
}

func (m *metrics) assetFailed(kind string) {
	if m == nil {
		return
	}
	m.assetFailures.WithLabelValues(kind).Inc()
}

// startRenderSpan opens the span covering one top-level render.
func startRenderSpan(ctx context.Context, tracer trace.Tracer, entry, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "jinhx.Render",
		trace.WithAttributes(
			attribute.String("jinhx.entry", entry),
			attribute.String("jinhx.component", name),
		),
	)
}

// endRenderSpan records the outcome of a render on span.
func endRenderSpan(span trace.Span, out *Output, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(
			attribute.Int("jinhx.css_assets", len(out.CSS)),
			attribute.Int("jinhx.js_assets", len(out.JS)),
		)
	}
	span.End()
}

func defaultTracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}
