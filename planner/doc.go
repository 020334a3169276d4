// Package planner runs one routing episode end to end:
//
//	graph ──decompose──▶ alternatives ──assign.Counts──▶ per-path counts
//	                                   ──assign.Units───▶ per-unit paths
//
// Planner.Plan is a pure function of its inputs: the graph is cloned, every
// path identity lives in a fresh paths.Session, and the only state kept
// between calls is the configuration and the observability hooks.
//
// Ambient concerns:
//
//   - Config is loaded from YAML (LoadConfig) on top of DefaultConfig.
//   - Anomalies (clamped flow, cover fallbacks, frozen alternatives, bracket
//     widenings, iteration bounds) are logged at Warn through log/slog.
//   - Metrics, when given, are Prometheus collectors registered through
//     NewMetrics.
//   - Every phase runs in an OpenTelemetry span (no-op tracer by default).
//
// Board publishes finished plans atomically to concurrent readers.
package planner
