// Package footprinter implements the Footprinter (C7): the single-tenant
// workflow that measures a service variant's resource footprint by driving
// it through a real start/sleep/stop cycle and recording the pre/post
// resource delta (§4.7).
//
// RunOne is called synchronously from the reconciler loop (C6) when the
// desired-state list is empty and a footprint request is pending; there is
// no separate footprinter goroutine or background thread.
package footprinter
