// Package api exposes the administrative HTTP surface of the loopcast
// server: virtual host creation and deletion, topology listing, and the
// effective-configuration dump.
//
// The package owns the transport taxonomy. Reconfiguration outcomes from
// the orchestrator map onto HTTP statuses here; the orchestrator itself
// knows nothing about HTTP.
package api
