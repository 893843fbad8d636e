package tracks

// EventKind identifies what changed on a Layer.
type EventKind int

const (
	EventData EventKind = iota
	EventProperties
	EventGraph
	EventColorBy
	EventColors
	EventLength
	EventWarning
)

func (k EventKind) String() string {
	switch k {
	case EventData:
		return "data"
	case EventProperties:
		return "properties"
	case EventGraph:
		return "graph"
	case EventColorBy:
		return "color_by"
	case EventColors:
		return "colors"
	case EventLength:
		return "length"
	case EventWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Event is passed to listeners after a change has been committed.
type Event struct {
	Kind    EventKind
	Warning *Warning // set for EventWarning only
}

// Listener receives layer events synchronously.
type Listener interface {
	OnEvent(Event)
}

// ListenerFunc adapts a plain function to Listener.
type ListenerFunc func(Event)

// OnEvent calls f(e).
func (f ListenerFunc) OnEvent(e Event) { f(e) }

type subscription struct {
	id       int
	listener Listener
}

// Subscribe registers l and returns a function that removes it again.
// Listeners are called in subscription order.
func (l *Layer) Subscribe(listener Listener) (cancel func()) {
	l.nextSubID++
	id := l.nextSubID
	l.subs = append(l.subs, subscription{id: id, listener: listener})
	return func() {
		for i, s := range l.subs {
			if s.id == id {
				l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
				return
			}
		}
	}
}

func (l *Layer) emit(kinds ...EventKind) {
	for _, k := range kinds {
		for _, s := range l.subs {
			s.listener.OnEvent(Event{Kind: k})
		}
	}
}

func (l *Layer) warn(msg string) {
	w := &Warning{Msg: msg}
	l.logger.Warn(msg, "layer", l.name)
	for _, s := range l.subs {
		s.listener.OnEvent(Event{Kind: EventWarning, Warning: w})
	}
}
