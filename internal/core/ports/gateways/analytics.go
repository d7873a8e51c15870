package gateways

// EventTracker records product analytics events. Implementations must not block.
type EventTracker interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}
