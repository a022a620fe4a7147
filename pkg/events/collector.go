package events

import "slices"

// EventCollector buffers the events an aggregate raises until they are
// drained for publishing. The zero value is ready to use.
type EventCollector struct {
	pending []DomainEvent
}

func (c *EventCollector) Record(evts ...DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// Pending returns a copy of the buffered events.
func (c *EventCollector) Pending() []DomainEvent { return slices.Clone(c.pending) }

// Drain returns the buffered events in the order they were recorded and
// empties the buffer.
func (c *EventCollector) Drain() []DomainEvent {
	out := c.pending
	c.pending = nil
	return out
}
