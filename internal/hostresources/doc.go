// Package hostresources inspects the local host's CPU, memory, and GPU
// capacity. It backs the footprinter's pre/post snapshots (§4.7) and the
// control-plane's GET /srv/resources/available/ endpoint (§6.3). Most of
// what it does errs toward best-effort rather than hard failure: no
// resource should crash the daemon when a GPU is absent or gopsutil returns
// a partial read.
package hostresources
