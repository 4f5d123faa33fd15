// Package telemetry wraps OpenTelemetry SDK initialization for voiceflow.
// When telemetry is disabled no exporters are created and the global
// tracer provider remains noop.
package telemetry
