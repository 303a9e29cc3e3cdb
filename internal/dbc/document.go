package dbc

import (
	"fmt"
	"sort"
	"strings"
)

// Listener receives change notifications from a Store.
// Signals are delivered by value; identity is (MessageID, Name).
type Listener interface {
	// DocumentReset is sent when the whole document was replaced.
	DocumentReset()
	// MessageUpdated is sent after a message was created, renamed or resized.
	MessageUpdated(id MessageID)
	// MessageRemoved is sent after a message was deleted.
	MessageRemoved(id MessageID)
	// SignalAdded is sent after sig was inserted into message id.
	SignalAdded(id MessageID, sig Signal)
	// SignalUpdated is sent after the signal formerly named oldName was replaced by sig.
	SignalUpdated(id MessageID, oldName string, sig Signal)
	// SignalRemoved is sent after sig was deleted from message id.
	SignalRemoved(id MessageID, sig Signal)
}

// Store is the mutation and lookup API that editors and undo commands
// work against.
type Store interface {
	Message(id MessageID) (Message, bool)
	Signal(id MessageID, name string) (Signal, bool)
	UpdateMessage(id MessageID, name string, size uint32, comment string) error
	RemoveMessage(id MessageID) error
	AddSignal(id MessageID, sig Signal) error
	RemoveSignal(id MessageID, name string) error
	UpdateSignal(id MessageID, name string, sig Signal) error
	NewMessageName(id MessageID) string
	NewSignalName(id MessageID) string
	SignalCount(id MessageID) int
	SignalNames() []string
	Subscribe(l Listener) (unsubscribe func())
}

// Document is an in-memory Store. It is not safe for concurrent
// mutation; all writes happen on the editor's single logical thread.
type Document struct {
	Name      string
	msgs      map[MessageID]*Message
	listeners map[int]Listener
	nextID    int
}

// NewDocument creates an empty document.
func NewDocument(name string) *Document {
	return &Document{
		Name:      name,
		msgs:      make(map[MessageID]*Message),
		listeners: make(map[int]Listener),
	}
}

var _ Store = (*Document)(nil)

// Subscribe registers l and returns a function that removes it.
func (d *Document) Subscribe(l Listener) func() {
	id := d.nextID
	d.nextID++
	d.listeners[id] = l
	return func() { delete(d.listeners, id) }
}

func (d *Document) notify(fn func(Listener)) {
	ids := make([]int, 0, len(d.listeners))
	for id := range d.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		if l, ok := d.listeners[id]; ok {
			fn(l)
		}
	}
}

// Reset replaces all messages and notifies listeners with DocumentReset.
func (d *Document) Reset(messages map[MessageID]Message) {
	d.msgs = make(map[MessageID]*Message, len(messages))
	for id, m := range messages {
		c := m.Clone()
		c.Address = id.Address
		d.msgs[id] = &c
	}
	d.notify(func(l Listener) { l.DocumentReset() })
}

// IDs returns all message ids in ascending order.
func (d *Document) IDs() []MessageID {
	ids := make([]MessageID, 0, len(d.msgs))
	for id := range d.msgs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Messages returns copies of all messages keyed by id.
func (d *Document) Messages() map[MessageID]Message {
	out := make(map[MessageID]Message, len(d.msgs))
	for id, m := range d.msgs {
		out[id] = m.Clone()
	}
	return out
}

// Message returns a copy of the message.
func (d *Document) Message(id MessageID) (Message, bool) {
	m, ok := d.msgs[id]
	if !ok {
		return Message{}, false
	}
	return m.Clone(), true
}

// MessageName returns the message name or Untitled.
func (d *Document) MessageName(id MessageID) string {
	if m, ok := d.msgs[id]; ok {
		return m.Name
	}
	return Untitled
}

// Signal returns a copy of the named signal.
func (d *Document) Signal(id MessageID, name string) (Signal, bool) {
	m, ok := d.msgs[id]
	if !ok {
		return Signal{}, false
	}
	s, ok := m.Signal(name)
	if !ok {
		return Signal{}, false
	}
	return s.Clone(), true
}

// UpdateMessage creates or updates the message header. Signals are kept.
func (d *Document) UpdateMessage(id MessageID, name string, size uint32, comment string) error {
	m, ok := d.msgs[id]
	if !ok {
		m = &Message{Address: id.Address}
		d.msgs[id] = m
	}
	m.Name = name
	m.Size = size
	m.Comment = comment
	d.notify(func(l Listener) { l.MessageUpdated(id) })
	return nil
}

// RemoveMessage deletes the message and its signals.
func (d *Document) RemoveMessage(id MessageID) error {
	if _, ok := d.msgs[id]; !ok {
		return fmt.Errorf("remove message %s: %w", id, ErrMessageNotFound)
	}
	delete(d.msgs, id)
	d.notify(func(l Listener) { l.MessageRemoved(id) })
	return nil
}

// AddSignal appends sig to message id.
func (d *Document) AddSignal(id MessageID, sig Signal) error {
	m, ok := d.msgs[id]
	if !ok {
		return fmt.Errorf("add signal %s to %s: %w", sig.Name, id, ErrMessageNotFound)
	}
	if _, exists := m.Signal(sig.Name); exists {
		return fmt.Errorf("add signal %s to %s: %w", sig.Name, id, ErrDuplicateSignal)
	}
	m.Signals = append(m.Signals, sig.Clone())
	added := sig.Clone()
	d.notify(func(l Listener) { l.SignalAdded(id, added) })
	return nil
}

// RemoveSignal deletes the named signal.
func (d *Document) RemoveSignal(id MessageID, name string) error {
	m, ok := d.msgs[id]
	if !ok {
		return fmt.Errorf("remove signal %s from %s: %w", name, id, ErrMessageNotFound)
	}
	for i := range m.Signals {
		if m.Signals[i].Name == name {
			removed := m.Signals[i]
			m.Signals = append(m.Signals[:i], m.Signals[i+1:]...)
			d.notify(func(l Listener) { l.SignalRemoved(id, removed) })
			return nil
		}
	}
	return fmt.Errorf("remove signal %s from %s: %w", name, id, ErrSignalNotFound)
}

// UpdateSignal replaces the signal currently named name with sig.
func (d *Document) UpdateSignal(id MessageID, name string, sig Signal) error {
	m, ok := d.msgs[id]
	if !ok {
		return fmt.Errorf("update signal %s in %s: %w", name, id, ErrMessageNotFound)
	}
	s, ok := m.Signal(name)
	if !ok {
		return fmt.Errorf("update signal %s in %s: %w", name, id, ErrSignalNotFound)
	}
	if sig.Name != name {
		if _, taken := m.Signal(sig.Name); taken {
			return fmt.Errorf("rename signal %s to %s in %s: %w", name, sig.Name, id, ErrDuplicateSignal)
		}
	}
	*s = sig.Clone()
	updated := sig.Clone()
	d.notify(func(l Listener) { l.SignalUpdated(id, name, updated) })
	return nil
}

// NewMessageName generates the default name for a new message.
func (d *Document) NewMessageName(id MessageID) string {
	return "NEW_MSG_" + strings.ToUpper(fmt.Sprintf("%x", id.Address))
}

// NewSignalName returns the first unused NEW_SIGNAL_<n> in the message.
func (d *Document) NewSignalName(id MessageID) string {
	m := d.msgs[id]
	for i := 1; ; i++ {
		name := fmt.Sprintf("NEW_SIGNAL_%d", i)
		if m == nil {
			return name
		}
		if _, taken := m.Signal(name); !taken {
			return name
		}
	}
}

// SignalCount returns the number of signals in message id.
func (d *Document) SignalCount(id MessageID) int {
	if m, ok := d.msgs[id]; ok {
		return len(m.Signals)
	}
	return 0
}

// SignalNames returns the sorted, de-duplicated names of all signals.
func (d *Document) SignalNames() []string {
	seen := make(map[string]struct{})
	for _, m := range d.msgs {
		for _, s := range m.Signals {
			seen[s.Name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
