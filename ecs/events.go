package ecs

// Event is a generic ECS event payload.
type Event struct {
	Seq  uint64
	Type string
	Data any
}

const (
	EventEntityAdded     = "entity_added"
	EventEntityRemoved   = "entity_removed"
	EventPropertyChanged = "property_changed"
)

// EntityEvent is the payload of entity lifecycle events.
type EntityEvent struct {
	Entity Entity
}

// PropertyEvent is the payload of EventPropertyChanged.
type PropertyEvent struct {
	Ref PropRef
}

// EventQueue is a simple FIFO queue. Every pushed event gets a sequence
// number one higher than the previous one.
type EventQueue struct {
	items   []Event
	nextSeq uint64
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.nextSeq++
	evt.Seq = q.nextSeq
	q.items = append(q.items, evt)
}

// Items returns the queued events without removing them.
func (q *EventQueue) Items() []Event {
	if q == nil {
		return nil
	}
	return q.items
}

// Len reports the number of queued events.
func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// discard drops the n oldest events.
func (q *EventQueue) discard(n int) {
	if q == nil || n <= 0 {
		return
	}
	if n >= len(q.items) {
		q.items = nil
		return
	}
	q.items = append([]Event(nil), q.items[n:]...)
}
