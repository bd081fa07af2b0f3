// Package registry implements the Service Registry (C4): a table from a
// catalog service's `type` tag to the implementation that knows how to
// start and stop it, filled once during application bootstrap and safe for
// concurrent reads thereafter. Unknown tags at
// runtime yield NoImplementationError rather than a late-binding failure.
package registry
