package rowdata

// Event identifies the row a mutation applied to.
type Event struct {
	Source RowData
	Row    int
}

// Listener is notified after rows are added, changed or removed.
type Listener interface {
	RowAdded(e Event)
	RowChanged(e Event)
	RowRemoved(e Event)
}

// ListenerFuncs adapts plain functions to a Listener; nil members are
// skipped.
type ListenerFuncs struct {
	Added   func(Event)
	Changed func(Event)
	Removed func(Event)
}

func (f ListenerFuncs) RowAdded(e Event) {
	if f.Added != nil {
		f.Added(e)
	}
}

func (f ListenerFuncs) RowChanged(e Event) {
	if f.Changed != nil {
		f.Changed(e)
	}
}

func (f ListenerFuncs) RowRemoved(e Event) {
	if f.Removed != nil {
		f.Removed(e)
	}
}

// AddRowDataListener registers listener and returns a function that
// unregisters it.
func (l *list) AddRowDataListener(listener Listener) (remove func()) {
	l.nextListenerID++
	id := l.nextListenerID
	l.listeners = append(l.listeners, registration{id: id, listener: listener})
	return func() {
		for i := range l.listeners {
			if l.listeners[i].id == id {
				l.listeners = append(l.listeners[:i], l.listeners[i+1:]...)
				return
			}
		}
	}
}

type registration struct {
	id       int
	listener Listener
}

type eventKind int

const (
	rowAdded eventKind = iota
	rowChanged
	rowRemoved
)

func (l *list) fire(source RowData, kind eventKind, row int) {
	e := Event{Source: source, Row: row}
	for _, r := range l.listeners {
		switch kind {
		case rowAdded:
			r.listener.RowAdded(e)
		case rowChanged:
			r.listener.RowChanged(e)
		case rowRemoved:
			r.listener.RowRemoved(e)
		}
	}
}
