// Package reconciler implements the Reconciler Loop (C6): a single-threaded
// cooperative loop with a 2-second base period that drives instances
// through the STARTING/STOPPING transitions, enforces the idempotency
// window, elides terminal instances, and persists outcomes (§4.6).
//
// The loop does not watch for change events; it polls the desired-state
// document each period, matching a single-host, single-writer-per-transition
// system (§4.6).
package reconciler
