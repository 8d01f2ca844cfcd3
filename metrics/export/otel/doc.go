// Package otel exports signet's process counters through OpenTelemetry
// observable instruments. The exporter reads SnapshotMetrics on each
// collection; it adds no overhead to the sign/verify hot path.
package otel
