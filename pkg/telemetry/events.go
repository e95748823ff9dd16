package telemetry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event represents a telemetry event in the Loopcast system.
type Event struct {
	// ID is the unique identifier for this event.
	ID string `json:"id"`

	// Timestamp is when the event occurred.
	Timestamp time.Time `json:"timestamp"`

	// Type is the event type.
	Type string `json:"type"`

	// Source identifies where the event originated.
	Source string `json:"source"`

	// VirtualHost is the associated virtual host name, if applicable.
	VirtualHost string `json:"virtual_host,omitempty"`

	// Operation is the associated reconfiguration operation, if applicable.
	Operation string `json:"operation,omitempty"`

	// Message is a human-readable event message.
	Message string `json:"message"`

	// Level is the event severity level (info, warning, error).
	Level string `json:"level"`

	// Data contains additional event-specific data.
	Data map[string]interface{} `json:"data,omitempty"`
}

// EventType constants for common event types.
const (
	EventTypeVirtualHostCreated    = "vhost.created"
	EventTypeVirtualHostDeleted    = "vhost.deleted"
	EventTypeReconfigurationFailed = "reconfig.failed"
	EventTypeConfigBound           = "config.bound"
	EventTypeConfigReloaded        = "config.reloaded"
	EventTypeError                 = "error"
)

// EventLevel constants for event severity.
const (
	EventLevelInfo    = "info"
	EventLevelWarning = "warning"
	EventLevelError   = "error"
)

// EventSubscriber is a function that handles events.
type EventSubscriber func(event Event)

// EventFilter determines if an event should be processed.
type EventFilter func(event Event) bool

// EventPublisher manages event publishing and subscriptions.
type EventPublisher struct {
	config      EventsConfig
	buffer      chan Event
	subscribers []subscriberEntry
	filters     []EventFilter
	wg          sync.WaitGroup
	mu          sync.RWMutex
	ctx         context.Context
	cancel      context.CancelFunc
}

type subscriberEntry struct {
	subscriber EventSubscriber
	filter     EventFilter
}

// NewEventPublisher creates a new event publisher with the given configuration.
func NewEventPublisher(cfg EventsConfig) (*EventPublisher, error) {
	if !cfg.Enabled {
		return &EventPublisher{config: cfg}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())

	ep := &EventPublisher{
		config:      cfg,
		buffer:      make(chan Event, cfg.BufferSize),
		subscribers: make([]subscriberEntry, 0),
		filters:     make([]EventFilter, 0),
		ctx:         ctx,
		cancel:      cancel,
	}

	// Start the event processing goroutine
	if cfg.EnableAsync {
		ep.wg.Add(1)
		go ep.processEvents()
	}

	// Start the periodic flush goroutine
	if cfg.FlushInterval > 0 {
		ep.wg.Add(1)
		go ep.periodicFlush()
	}

	return ep, nil
}

// Publish publishes an event to all subscribers.
func (ep *EventPublisher) Publish(event Event) error {
	if !ep.config.Enabled {
		return nil
	}

	// Set ID and timestamp if not already set
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	// Apply global filters
	ep.mu.RLock()
	for _, filter := range ep.filters {
		if !filter(event) {
			ep.mu.RUnlock()
			return nil // Event filtered out
		}
	}
	ep.mu.RUnlock()

	// Send to buffer if async, otherwise process immediately
	if ep.config.EnableAsync {
		select {
		case ep.buffer <- event:
			return nil
		case <-ep.ctx.Done():
			return fmt.Errorf("event publisher stopped")
		default:
			// Buffer full, drop event or log warning
			return fmt.Errorf("event buffer full, event dropped")
		}
	}

	// Synchronous publishing
	ep.deliverEvent(event)
	return nil
}

// PublishVirtualHostCreated publishes a virtual host created event.
func (ep *EventPublisher) PublishVirtualHostCreated(name string) error {
	return ep.Publish(Event{
		Type:        EventTypeVirtualHostCreated,
		Source:      "orchestrator",
		VirtualHost: name,
		Operation:   "create",
		Message:     fmt.Sprintf("Virtual host %s created", name),
		Level:       EventLevelInfo,
	})
}

// PublishVirtualHostDeleted publishes a virtual host deleted event.
func (ep *EventPublisher) PublishVirtualHostDeleted(name string) error {
	return ep.Publish(Event{
		Type:        EventTypeVirtualHostDeleted,
		Source:      "orchestrator",
		VirtualHost: name,
		Operation:   "delete",
		Message:     fmt.Sprintf("Virtual host %s deleted", name),
		Level:       EventLevelInfo,
	})
}

// PublishReconfigurationFailed publishes a failed reconfiguration event.
func (ep *EventPublisher) PublishReconfigurationFailed(operation, name string, err error) error {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	return ep.Publish(Event{
		Type:        EventTypeReconfigurationFailed,
		Source:      "orchestrator",
		VirtualHost: name,
		Operation:   operation,
		Message:     fmt.Sprintf("Reconfiguration %s failed for virtual host %s: %s", operation, name, reason),
		Level:       EventLevelError,
		Data: map[string]interface{}{
			"reason": reason,
		},
	})
}

// PublishConfigBound publishes a configuration bound event.
func (ep *EventPublisher) PublishConfigBound(source string, diagnostics int) error {
	level := EventLevelInfo
	if diagnostics > 0 {
		level = EventLevelWarning
	}
	return ep.Publish(Event{
		Type:    EventTypeConfigBound,
		Source:  "binder",
		Message: fmt.Sprintf("Configuration bound from %s (%d diagnostics)", source, diagnostics),
		Level:   level,
		Data: map[string]interface{}{
			"source":      source,
			"diagnostics": diagnostics,
		},
	})
}

// PublishConfigReloaded publishes a configuration reloaded event.
func (ep *EventPublisher) PublishConfigReloaded(source, status string) error {
	level := EventLevelInfo
	if status != "succeeded" {
		level = EventLevelError
	}
	return ep.Publish(Event{
		Type:    EventTypeConfigReloaded,
		Source:  "watcher",
		Message: fmt.Sprintf("Configuration reload from %s: %s", source, status),
		Level:   level,
		Data: map[string]interface{}{
			"source": source,
			"status": status,
		},
	})
}

// Subscribe adds a new event subscriber.
func (ep *EventPublisher) Subscribe(subscriber EventSubscriber, filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.subscribers = append(ep.subscribers, subscriberEntry{
		subscriber: subscriber,
		filter:     filter,
	})
}

// AddFilter adds a global event filter.
func (ep *EventPublisher) AddFilter(filter EventFilter) {
	ep.mu.Lock()
	defer ep.mu.Unlock()

	ep.filters = append(ep.filters, filter)
}

// processEvents processes events from the buffer asynchronously.
func (ep *EventPublisher) processEvents() {
	defer ep.wg.Done()

	batch := make([]Event, 0, ep.config.MaxBatchSize)

	for {
		select {
		case event := <-ep.buffer:
			batch = append(batch, event)

			// Flush batch if it reaches max size
			if len(batch) >= ep.config.MaxBatchSize {
				ep.flushBatch(batch)
				batch = make([]Event, 0, ep.config.MaxBatchSize)
			}

		case <-ep.ctx.Done():
			// Flush remaining events before shutting down
			if len(batch) > 0 {
				ep.flushBatch(batch)
			}
			return
		}
	}
}

// periodicFlush flushes events periodically.
func (ep *EventPublisher) periodicFlush() {
	defer ep.wg.Done()

	ticker := time.NewTicker(ep.config.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Trigger flush by draining buffer
			// This is handled by the processEvents goroutine
		case <-ep.ctx.Done():
			return
		}
	}
}

// flushBatch delivers a batch of events to subscribers.
func (ep *EventPublisher) flushBatch(events []Event) {
	for _, event := range events {
		ep.deliverEvent(event)
	}
}

// deliverEvent delivers an event to all subscribers.
func (ep *EventPublisher) deliverEvent(event Event) {
	ep.mu.RLock()
	defer ep.mu.RUnlock()

	for _, entry := range ep.subscribers {
		// Apply subscriber-specific filter
		if entry.filter != nil && !entry.filter(event) {
			continue
		}

		// Call subscriber in a goroutine to avoid blocking
		go entry.subscriber(event)
	}
}

// Shutdown gracefully shuts down the event publisher.
func (ep *EventPublisher) Shutdown(ctx context.Context) error {
	if !ep.config.Enabled {
		return nil
	}

	// Signal shutdown
	ep.cancel()

	// Wait for processing to complete with timeout
	done := make(chan struct{})
	go func() {
		ep.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("event publisher shutdown timeout")
	}
}

// Common event filters.

// FilterByLevel creates a filter that only allows events of a specific level or higher.
func FilterByLevel(minLevel string) EventFilter {
	levels := map[string]int{
		EventLevelInfo:    0,
		EventLevelWarning: 1,
		EventLevelError:   2,
	}

	minLevelValue := levels[minLevel]

	return func(event Event) bool {
		return levels[event.Level] >= minLevelValue
	}
}

// FilterByType creates a filter that only allows events of specific types.
func FilterByType(types ...string) EventFilter {
	typeSet := make(map[string]bool)
	for _, t := range types {
		typeSet[t] = true
	}

	return func(event Event) bool {
		return typeSet[event.Type]
	}
}

// FilterByVirtualHost creates a filter that only allows events for a specific virtual host.
func FilterByVirtualHost(name string) EventFilter {
	return func(event Event) bool {
		return event.VirtualHost == name
	}
}
