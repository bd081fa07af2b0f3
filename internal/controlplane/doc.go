// Package controlplane implements the Control-Plane Adapter (C8): a stateless
// HTTP surface in front of the catalog (C1) and the key-value store (C2/C3),
// gated by a shared bearer-token secret (§4.8, §6.3).
//
// Routing uses the standard library's net/http.ServeMux method+path patterns
// rather than a third-party router: the route table is small and fixed, and
// nothing here needs middleware chaining beyond the single auth gate.
package controlplane
