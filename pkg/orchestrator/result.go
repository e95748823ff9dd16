// Package orchestrator manages the live virtual host topology of the
// loopcast server. It is the only writer of the topology: administrative
// create and delete requests flow through it, while request-handling
// goroutines hold non-owning references obtained from lookups.
package orchestrator

// Result is the outcome of a reconfiguration operation. The set is closed;
// administrative callers translate it to their own transport taxonomy.
type Result int

const (
	// ResultSucceeded indicates the operation was fully applied.
	ResultSucceeded Result = iota

	// ResultAlreadyExists indicates a create conflicted with an existing
	// virtual host of the same name. The topology is unchanged.
	ResultAlreadyExists

	// ResultNotFound indicates a delete named a virtual host that is not
	// in the topology.
	ResultNotFound

	// ResultFailed indicates the construction or removal step errored.
	// The topology is unchanged: operations are atomic.
	ResultFailed
)

// String returns the outcome name for logs and audit records.
func (r Result) String() string {
	switch r {
	case ResultSucceeded:
		return "succeeded"
	case ResultAlreadyExists:
		return "already_exists"
	case ResultNotFound:
		return "not_found"
	case ResultFailed:
		return "failed"
	default:
		return "unknown"
	}
}
