package stores

import (
	"context"
	"time"
)

// Event is one row of the reconfiguration audit trail.
type Event struct {
	// ID is the unique event identifier (UUID).
	ID string `json:"id"`

	// Operation is the reconfiguration operation (create, delete, reload).
	Operation string `json:"operation"`

	// VirtualHost is the virtual host the operation targeted.
	VirtualHost string `json:"virtual_host"`

	// Outcome is the operation outcome (succeeded, already_exists,
	// not_found, failed).
	Outcome string `json:"outcome"`

	// Actor identifies who requested the operation, when known.
	Actor string `json:"actor,omitempty"`

	// Error is the failure detail for failed operations.
	Error string `json:"error,omitempty"`

	// CreatedAt is when the event was recorded.
	CreatedAt time.Time `json:"created_at"`
}

// Snapshot is a rendered effective-configuration dump kept for diagnostics.
type Snapshot struct {
	// ID is the unique snapshot identifier (UUID).
	ID string `json:"id"`

	// Source describes where the configuration came from (file path or
	// "api").
	Source string `json:"source"`

	// Content is the serialized configuration.
	Content string `json:"content"`

	// CreatedAt is when the snapshot was taken.
	CreatedAt time.Time `json:"created_at"`
}

// Store persists the reconfiguration audit trail. Writers treat it as
// best-effort: an unavailable store never blocks a reconfiguration.
type Store interface {
	// Init opens the underlying database.
	Init(ctx context.Context) error

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error

	// Close releases the underlying database.
	Close() error

	// RecordEvent appends one audit event. Missing ID and CreatedAt are
	// filled in.
	RecordEvent(ctx context.Context, event *Event) error

	// ListEvents returns events newest first.
	ListEvents(ctx context.Context, limit, offset int) ([]*Event, error)

	// ListEventsForHost returns events for one virtual host, newest first.
	ListEventsForHost(ctx context.Context, virtualHost string, limit, offset int) ([]*Event, error)

	// SaveSnapshot stores a configuration dump. Missing ID and CreatedAt
	// are filled in.
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error

	// LatestSnapshot returns the most recent snapshot, or nil when none
	// has been taken.
	LatestSnapshot(ctx context.Context) (*Snapshot, error)
}
