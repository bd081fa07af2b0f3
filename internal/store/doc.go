// Package store implements the desired-state cache (C2) and footprint queue
// (C3) over a Redis-wire key-value service, using github.com/valkey-io/valkey-go.
// Both are single JSON-serialized documents guarded by a non-blocking SET-NX
// style lock with a short TTL (§4.2, §4.3): writers that fail to acquire the
// lock observe WriteCollision rather than blocking, and the document itself
// is the linearization point — there is no compare-and-swap, by design
// (§9 "Shared last-writer-wins state").
package store
