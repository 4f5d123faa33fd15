// Package server exposes the narrator over a websocket ingest protocol:
// one connection is one narrator session. HTTP endpoints cover health and
// Prometheus metrics.
package server
