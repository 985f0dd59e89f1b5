package middleware

import (
	"heartline/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// TraceHeader echoes the trace id of sampled requests.
const TraceHeader = "X-Trace-ID"

// TracingMiddleware opens the server span of a request and seeds the user
// context with it and the request id. Must run after requestid.
//
// The span is renamed to the matched route template once routing is done,
// so /api/likes/7 and /api/likes/9 share the name "POST /api/likes/:targetUserId".
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(),
			propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.Tracer.Start(ctx, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.OriginalURL()),
				attribute.String("net.peer.ip", c.IP()),
			),
		)
		defer span.End()

		if id, ok := c.Locals("requestid").(string); ok && id != "" {
			span.SetAttributes(attribute.String("request.id", id))
			ctx = WithRequestID(ctx, id)
		}
		if sc := span.SpanContext(); sc.IsSampled() {
			c.Set(TraceHeader, sc.TraceID().String())
		}
		c.SetUserContext(ctx)

		err := c.Next()

		route := c.Route().Path
		status := c.Response().StatusCode()
		span.SetName(c.Method() + " " + route)
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)
		if err != nil {
			span.RecordError(err)
		}
		if err != nil || status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, "")
		}
		return err
	}
}
