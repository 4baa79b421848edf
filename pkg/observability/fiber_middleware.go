package observability

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.27.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Alijeyrad/klinik_backend/pkg/reqctx"
)

const scope = "github.com/Alijeyrad/klinik_backend/pkg/observability"

const HeaderTraceID = "X-Trace-Id"

type httpInstruments struct {
	requests metric.Int64Counter
	latency  metric.Float64Histogram
}

func newHTTPInstruments() httpInstruments {
	meter := otel.Meter(scope)
	// errors only come from invalid names
	requests, _ := meter.Int64Counter("klinik.http.requests",
		metric.WithDescription("HTTP requests served"),
		metric.WithUnit("{request}"))
	latency, _ := meter.Float64Histogram("klinik.http.duration",
		metric.WithDescription("HTTP request latency"),
		metric.WithUnit("s"))
	return httpInstruments{requests: requests, latency: latency}
}

// FiberMiddleware opens a server span per request, continuing any W3C trace
// context the caller sent, and records request count and latency by route.
// The span is renamed once routing has matched.
func FiberMiddleware(serviceName string) fiber.Handler {
	tracer := otel.Tracer(scope)
	inst := newHTTPInstruments()

	return func(c fiber.Ctx) error {
		parent := otel.GetTextMapPropagator().Extract(c.Context(), propagation.HeaderCarrier(c.GetReqHeaders()))
		ctx, span := tracer.Start(parent, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				semconv.ServiceName(serviceName),
				semconv.HTTPRequestMethodKey.String(c.Method()),
				semconv.URLPath(c.Path()),
				semconv.ClientAddress(c.IP()),
				semconv.UserAgentOriginal(c.Get(fiber.HeaderUserAgent)),
			),
		)
		defer span.End()

		c.SetContext(ctx)
		if sc := span.SpanContext(); sc.HasTraceID() {
			c.Set(HeaderTraceID, sc.TraceID().String())
		}

		began := time.Now()
		err := c.Next()
		elapsed := time.Since(began).Seconds()

		route := c.Route().Path
		status := c.Response().StatusCode()
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(semconv.HTTPRoute(route), semconv.HTTPResponseStatusCode(status))

		// The staff scope is set further down the chain by ClinicHeader.
		if staff, found := reqctx.StaffFromContext(c.Context()); found {
			span.SetAttributes(
				attribute.String("klinik.clinic_id", staff.ClinicID.String()),
				attribute.String("klinik.staff_role", staff.Role),
			)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
			if err != nil {
				span.RecordError(err)
			}
		default:
			span.SetStatus(codes.Unset, "")
		}

		attrs := metric.WithAttributes(
			semconv.HTTPRequestMethodKey.String(c.Method()),
			semconv.HTTPRoute(route),
			semconv.HTTPResponseStatusCode(status),
		)
		inst.requests.Add(ctx, 1, attrs)
		inst.latency.Record(ctx, elapsed, attrs)

		return err
	}
}
