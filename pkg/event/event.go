package event

// EventType classifies queued events.
type EventType int

const (
	EventNone EventType = iota
	EventMsg
	EventSignal
)

func (t EventType) String() string {
	switch t {
	case EventNone:
		return "NONE"
	case EventMsg:
		return "MSG"
	case EventSignal:
		return "SIGNAL"
	}
	return "INVALID"
}

// Event is a tagged message carrying a memory payload. Events queue
// FIFO on the VM; the step loop never drains the queue itself, the
// surrounding driver decides when and how to deliver.
type Event struct {
	Type EventType
	Tag  Tag
	Msg  Memory
}

// QueueEvent appends an event to the queue. Enqueue never fails.
func (vm *VM) QueueEvent(e Event) { vm.events = append(vm.events, e) }

// DequeueEvent pops the oldest queued event. The second return is
// false when the queue is empty.
func (vm *VM) DequeueEvent() (Event, bool) {
	if len(vm.events) == 0 {
		return Event{}, false
	}
	e := vm.events[0]
	vm.events = vm.events[1:]
	return e, true
}

// EventQueueSize returns the number of queued events.
func (vm *VM) EventQueueSize() int { return len(vm.events) }

// DeliverEvent dispatches an event by tag: the best-matching function
// is spawned on a fresh core with the event's payload as input
// memory. This is the driver-facing delivery hook; nothing calls it
// from the step loop.
func (vm *VM) DeliverEvent(e Event) {
	fID := vm.MatchFunction(e.Tag)
	if fID < 0 {
		return
	}
	vm.SpawnCore(fID, e.Msg)
}
