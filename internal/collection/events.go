package collection

// EventKind identifies what changed in a Collection.
type EventKind int

const (
	// EventInserted reports items appended to the active view.
	EventInserted EventKind = iota

	// EventRemoved reports a single positional removal.
	EventRemoved

	// EventReset reports that the active view was rebuilt.
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventInserted:
		return "inserted"
	case EventRemoved:
		return "removed"
	case EventReset:
		return "reset"
	default:
		return "unknown"
	}
}

// Event describes one change. From and To are inclusive; an insertion
// whose items all fail the filter has To == From-1.
type Event struct {
	Kind EventKind
	From int
	To   int
}

// Empty reports whether the event's range covers no index.
func (e Event) Empty() bool {
	return e.To < e.From
}

// Listener receives change events.
type Listener func(Event)

type subscription struct {
	id int
	fn Listener
}

type listeners struct {
	subs   []subscription
	nextID int
}

func (l *listeners) add(fn Listener) func() {
	id := l.nextID
	l.nextID++
	l.subs = append(l.subs, subscription{id: id, fn: fn})

	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

// emit calls every listener registered when the event fires. Listeners
// may unsubscribe while it runs.
func (l *listeners) emit(e Event) {
	subs := append([]subscription(nil), l.subs...)
	for _, s := range subs {
		s.fn(e)
	}
}
