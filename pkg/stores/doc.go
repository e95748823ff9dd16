// Package stores persists the reconfiguration audit trail: one event per
// administrative operation and periodic effective-configuration snapshots.
package stores
