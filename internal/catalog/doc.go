// Package catalog loads the declarative service catalog (§6.1) and computes
// the per-instance effective definition by layering base, variety, and
// profile fields (§3). It performs no I/O beyond the initial load: the
// catalog is read once at process start and is immutable thereafter, so
// reloading it requires a process restart.
package catalog
