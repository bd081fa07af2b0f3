// Package logging provides the structured logging used throughout the
// provisioner daemon, built on log/slog.
//
// Logs are organized by subsystem (Bootstrap, Catalog, Store, Reconciler,
// Footprinter, ControlPlane, RunDriver, ...) passed as the first argument to
// each of Debug/Info/Warn/Error. Audit logs security-sensitive events
// (bearer-token failures, footprint admission) with a distinct [AUDIT] line
// prefix so they can be filtered independently of ordinary operational logs.
package logging
