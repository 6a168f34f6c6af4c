package telemetry

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const (
	tracerName = "github.com/jaennil/guide_helper/tilemap"
)

// Tracer returns the tracer shared by the service packages.
func Tracer() trace.Tracer {
	return otel.Tracer(tracerName)
}

// GinMiddleware returns a Gin middleware that creates a server span per request.
// Tile route parameters are recorded as span attributes.
func GinMiddleware(serviceName string) gin.HandlerFunc {
	tracer := Tracer()

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasSuffix(path, "/healthz") || path == "/metrics" {
			c.Next()
			return
		}

		ctx := otel.GetTextMapPropagator().Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

		attrs := []attribute.KeyValue{
			semconv.ServiceName(serviceName),
			semconv.HTTPRequestMethodKey.String(c.Request.Method),
			semconv.URLPath(path),
			semconv.HTTPRoute(c.FullPath()),
			semconv.ClientAddress(c.ClientIP()),
		}
		for _, p := range c.Params {
			attrs = append(attrs, attribute.String("tile."+p.Key, p.Value))
		}

		ctx, span := tracer.Start(ctx, c.Request.Method+" "+c.FullPath(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(c.Writer.Header()))

		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(
			semconv.HTTPResponseStatusCode(status),
			attribute.Int("http.response.size", c.Writer.Size()),
		)
		if status >= 500 {
			span.SetStatus(codes.Error, c.Errors.String())
			if len(c.Errors) > 0 {
				span.RecordError(c.Errors.Last())
			}
			return
		}
		span.SetStatus(codes.Ok, "")
	}
}
