package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/loopcast/loopcast/pkg/config"
	"github.com/loopcast/loopcast/pkg/stores"
	"github.com/loopcast/loopcast/pkg/telemetry"
)

// Orchestrator is the reconfiguration gateway of the server. It owns the
// virtual host topology under a single-writer, multiple-reader discipline:
// create and delete are mutually exclusive, lookups never block each other
// and never observe a partially admitted or partially removed host.
//
// One Orchestrator is constructed at startup and passed to every component
// that needs it.
type Orchestrator struct {
	logger   zerolog.Logger
	validate *validator.Validate

	store   stores.Store
	metrics *telemetry.Metrics
	events  *telemetry.EventPublisher
	tracer  *telemetry.Tracer

	mu    sync.RWMutex
	hosts map[string]*VirtualHost
	order []string
}

// Options are the optional collaborators of an Orchestrator. Any field may
// be nil; the corresponding concern is then skipped.
type Options struct {
	// Store receives the reconfiguration audit trail, best-effort.
	Store stores.Store

	// Metrics receives operation counters and the topology gauge.
	Metrics *telemetry.Metrics

	// Events receives reconfiguration events.
	Events *telemetry.EventPublisher

	// Tracer receives per-operation spans.
	Tracer *telemetry.Tracer
}

// New creates an orchestrator with an empty topology.
func New(logger zerolog.Logger, opts Options) *Orchestrator {
	return &Orchestrator{
		logger:   logger.With().Str("component", "orchestrator").Logger(),
		validate: validator.New(),
		store:    opts.Store,
		metrics:  opts.Metrics,
		events:   opts.Events,
		tracer:   opts.Tracer,
		hosts:    make(map[string]*VirtualHost),
	}
}

// CreateVirtualHost admits a new virtual host built from a fresh, mutable
// configuration node. The orchestrator takes its own frozen copy of the
// definition; the caller's node is left untouched.
//
// Passing a frozen node is a programming error and panics: definitions are
// always built fresh, never recycled from a published tree.
func (o *Orchestrator) CreateVirtualHost(ctx context.Context, node *config.Node) (Result, error) {
	return o.create(ctx, node, false)
}

// SeedFromServer admits every virtual host declared in a bound server
// configuration tree as a static host. Static hosts cannot be deleted
// through the administrative surface. Returns the number of hosts admitted.
func (o *Orchestrator) SeedFromServer(ctx context.Context, server *config.Node) (int, error) {
	vhosts, ok := server.Child("VirtualHosts")
	if !ok {
		return 0, nil
	}
	list, ok := vhosts.GetList("VirtualHost")
	if !ok {
		return 0, nil
	}

	admitted := 0
	for _, item := range list.Items() {
		node, ok := item.(*config.Node)
		if !ok {
			continue
		}
		res, err := o.create(ctx, node, true)
		switch res {
		case ResultSucceeded:
			admitted++
		case ResultAlreadyExists:
			// Reload with an unchanged host set lands here; not an error.
		case ResultFailed:
			return admitted, err
		}
	}
	return admitted, nil
}

func (o *Orchestrator) create(ctx context.Context, node *config.Node, static bool) (Result, error) {
	if node.Frozen() {
		panic("orchestrator: create requires a mutable virtual host definition")
	}

	start := time.Now()
	spec := specFromNode(node)

	ctx, span := o.startSpan(ctx, "vhost.create", spec.Name)
	defer span.End()

	if err := o.validate.Struct(spec); err != nil {
		rerr := NewPermanentError("invalid virtual host specification", err).
			WithCode(ErrCodeValidation).
			WithVirtualHost(spec.Name).
			WithOperation("create")
		o.record(ctx, "create", spec.Name, ResultFailed, rerr, start)
		return ResultFailed, rerr
	}

	// Take an owned copy so the topology is the sole owner of the entry.
	owned := node.CloneSchema()
	if err := owned.ParseFromValue(node); err != nil {
		rerr := NewPermanentError("failed to copy virtual host definition", err).
			WithCode(ErrCodeInternal).
			WithVirtualHost(spec.Name).
			WithOperation("create")
		o.record(ctx, "create", spec.Name, ResultFailed, rerr, start)
		return ResultFailed, rerr
	}
	owned.Freeze()
	vh := newVirtualHost(spec, owned, static)

	o.mu.Lock()
	if _, exists := o.hosts[spec.Name]; exists {
		o.mu.Unlock()
		o.record(ctx, "create", spec.Name, ResultAlreadyExists, nil, start)
		return ResultAlreadyExists, nil
	}
	o.hosts[spec.Name] = vh
	o.order = append(o.order, spec.Name)
	count := len(o.hosts)
	o.mu.Unlock()

	o.setGauge(count)
	o.record(ctx, "create", spec.Name, ResultSucceeded, nil, start)
	return ResultSucceeded, nil
}

// DeleteVirtualHost removes the named virtual host. Static hosts and hosts
// with active dependents fail without mutating the topology.
func (o *Orchestrator) DeleteVirtualHost(ctx context.Context, name string) (Result, error) {
	start := time.Now()

	ctx, span := o.startSpan(ctx, "vhost.delete", name)
	defer span.End()

	o.mu.Lock()
	vh, ok := o.hosts[name]
	if !ok {
		o.mu.Unlock()
		o.record(ctx, "delete", name, ResultNotFound, nil, start)
		return ResultNotFound, nil
	}
	if vh.static {
		o.mu.Unlock()
		rerr := NewConflictError("virtual host is statically configured", nil).
			WithCode(ErrCodeProtected).
			WithVirtualHost(name).
			WithOperation("delete")
		o.record(ctx, "delete", name, ResultFailed, rerr, start)
		return ResultFailed, rerr
	}
	if deps := vh.Dependents(); deps > 0 {
		o.mu.Unlock()
		rerr := NewConflictError("virtual host has active dependents", nil).
			WithCode(ErrCodeInUse).
			WithVirtualHost(name).
			WithOperation("delete")
		o.record(ctx, "delete", name, ResultFailed, rerr, start)
		return ResultFailed, rerr
	}

	delete(o.hosts, name)
	for i, n := range o.order {
		if n == name {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	count := len(o.hosts)
	o.mu.Unlock()

	o.setGauge(count)
	o.record(ctx, "delete", name, ResultSucceeded, nil, start)
	return ResultSucceeded, nil
}

// Lookup returns the named virtual host. The returned entry is frozen and
// safe for unsynchronized reads; it stays valid after a concurrent delete.
func (o *Orchestrator) Lookup(name string) (*VirtualHost, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	vh, ok := o.hosts[name]
	return vh, ok
}

// List returns the virtual hosts in admission order.
func (o *Orchestrator) List() []*VirtualHost {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]*VirtualHost, 0, len(o.order))
	for _, name := range o.order {
		out = append(out, o.hosts[name])
	}
	return out
}

// Count returns the number of virtual hosts in the topology.
func (o *Orchestrator) Count() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.hosts)
}

func (o *Orchestrator) startSpan(ctx context.Context, operation, name string) (context.Context, telemetry.Span) {
	if o.tracer == nil {
		return ctx, telemetry.NoopSpan()
	}
	return o.tracer.StartReconfigurationSpan(ctx, operation, name)
}

func (o *Orchestrator) setGauge(count int) {
	if o.metrics != nil {
		o.metrics.SetVirtualHostCount(float64(count))
	}
}

// record emits the audit trail of one operation: structured log, metric,
// event, and audit store row. Store failures are logged, never surfaced;
// the operation outcome is already committed.
func (o *Orchestrator) record(ctx context.Context, operation, name string, res Result, opErr error, start time.Time) {
	elapsed := time.Since(start)

	evt := o.logger.Info()
	if res == ResultFailed {
		evt = o.logger.Error().Err(opErr)
	}
	evt.Str("operation", operation).
		Str("vhost", name).
		Str("outcome", res.String()).
		Dur("elapsed", elapsed).
		Msg("Reconfiguration operation")

	if o.metrics != nil {
		o.metrics.RecordReconfiguration(operation, res.String(), elapsed)
	}

	if o.events != nil {
		switch {
		case res == ResultSucceeded && operation == "create":
			_ = o.events.PublishVirtualHostCreated(name)
		case res == ResultSucceeded && operation == "delete":
			_ = o.events.PublishVirtualHostDeleted(name)
		case res == ResultFailed:
			_ = o.events.PublishReconfigurationFailed(operation, name, opErr)
		}
	}

	if o.store != nil {
		record := &stores.Event{
			Operation:   operation,
			VirtualHost: name,
			Outcome:     res.String(),
		}
		if opErr != nil {
			record.Error = opErr.Error()
		}
		if err := o.store.RecordEvent(ctx, record); err != nil {
			o.logger.Warn().Err(err).Msg("Failed to record audit event")
		}
	}
}
