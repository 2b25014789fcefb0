package telemetry

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation name floatkit spans are reported under.
const TracerName = "floatkit"

// Tracer returns the floatkit tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(TracerName)
}
