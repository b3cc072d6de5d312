package panel

// EventType identifies a panel notification.
type EventType int

const (
	EventStateChanged EventType = iota
	EventOpened
	EventClosed
)

func (t EventType) String() string {
	switch t {
	case EventStateChanged:
		return "PanelStateChanged"
	case EventOpened:
		return "PanelOpened"
	case EventClosed:
		return "PanelClosed"
	default:
		return "Unknown"
	}
}

// Event carries the panel identity and, for state changes, both states.
type Event struct {
	Type     EventType
	ID       string
	Template string
	Group    string
	State    State
	Previous State
}

// Listener receives notifications synchronously on the frame goroutine.
type Listener func(Event)

type subscription struct {
	id uint64
	fn Listener
}

// Bus fans notifications out to listeners in registration order.
// Listeners may open or close panels re-entrantly.
type Bus struct {
	handlers map[EventType][]subscription
	nextID   uint64
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{handlers: make(map[EventType][]subscription)}
}

// Subscribe registers fn for the given event types, or all types when
// none are given. The returned function removes the registration.
func (b *Bus) Subscribe(fn Listener, types ...EventType) (unsubscribe func()) {
	if len(types) == 0 {
		types = []EventType{EventStateChanged, EventOpened, EventClosed}
	}
	b.nextID++
	id := b.nextID
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], subscription{id: id, fn: fn})
	}
	return func() {
		for _, t := range types {
			subs := b.handlers[t]
			for i, s := range subs {
				if s.id == id {
					b.handlers[t] = append(subs[:i:i], subs[i+1:]...)
					break
				}
			}
		}
	}
}

// Emit delivers e to every listener registered for its type. The
// listener list is snapshotted so subscriptions made during delivery
// take effect from the next event.
func (b *Bus) Emit(e Event) {
	subs := b.handlers[e.Type]
	for _, s := range subs {
		s.fn(e)
	}
}

// HandlerCount returns the number of listeners for t.
func (b *Bus) HandlerCount(t EventType) int {
	return len(b.handlers[t])
}
