// Package telemetry holds the observability surface of the daemon.
// Today that is the Prometheus metrics in the metrics subpackage;
// structured logging lives with each component via log/slog.
package telemetry
