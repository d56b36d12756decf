package engine

// Event represents an engine lifecycle event.
// Minimal and stable: name + pipeline ID and optional fields via key/values.
type Event struct {
	Name     string
	Pipeline string
	Fields   map[string]any
}

// EventPublisher receives events from the engine. Implementations should be
// lightweight and non-blocking; Publish must not panic.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
