// Package undo holds the reversible document edits and the history
// stack that applies them.
package undo

import (
	"fmt"

	"github.com/cristianoliveira/cansig/internal/dbc"
)

// Command is one reversible document edit. Redo applies it, Undo
// restores the state captured when the command was built.
type Command interface {
	Redo() error
	Undo() error
	Text() string
}

func messageName(store dbc.Store, id dbc.MessageID) string {
	if m, ok := store.Message(id); ok {
		return m.Name
	}
	return ""
}

// EditMessage creates or updates a message header.
type EditMessage struct {
	store   dbc.Store
	id      dbc.MessageID
	existed bool
	old     dbc.Message
	name    string
	size    uint32
	comment string
	text    string
}

// NewEditMessage captures the current header of id, if any.
func NewEditMessage(store dbc.Store, id dbc.MessageID, name string, size uint32, comment string) *EditMessage {
	c := &EditMessage{store: store, id: id, name: name, size: size, comment: comment}
	if m, ok := store.Message(id); ok {
		c.existed = true
		c.old = m
		c.text = fmt.Sprintf("edit message %s:%d", name, id.Address)
	} else {
		c.text = fmt.Sprintf("new message %s:%d", name, id.Address)
	}
	return c
}

func (c *EditMessage) Redo() error {
	return c.store.UpdateMessage(c.id, c.name, c.size, c.comment)
}

func (c *EditMessage) Undo() error {
	if !c.existed {
		return c.store.RemoveMessage(c.id)
	}
	return c.store.UpdateMessage(c.id, c.old.Name, c.old.Size, c.old.Comment)
}

func (c *EditMessage) Text() string { return c.text }

// RemoveMessage deletes a message with all of its signals.
type RemoveMessage struct {
	store   dbc.Store
	id      dbc.MessageID
	existed bool
	message dbc.Message
	text    string
}

// NewRemoveMessage snapshots the message. When id does not exist the
// command does nothing in either direction.
func NewRemoveMessage(store dbc.Store, id dbc.MessageID) *RemoveMessage {
	c := &RemoveMessage{store: store, id: id}
	if m, ok := store.Message(id); ok {
		c.existed = true
		c.message = m
		c.text = fmt.Sprintf("remove message %s:%d", m.Name, id.Address)
	}
	return c
}

func (c *RemoveMessage) Redo() error {
	if !c.existed {
		return nil
	}
	return c.store.RemoveMessage(c.id)
}

func (c *RemoveMessage) Undo() error {
	if !c.existed {
		return nil
	}
	if err := c.store.UpdateMessage(c.id, c.message.Name, c.message.Size, c.message.Comment); err != nil {
		return err
	}
	for _, sig := range c.message.Signals {
		if err := c.store.AddSignal(c.id, sig); err != nil {
			return err
		}
	}
	return nil
}

func (c *RemoveMessage) Text() string { return c.text }

// AddSignal inserts a signal into an existing message.
type AddSignal struct {
	store  dbc.Store
	id     dbc.MessageID
	signal dbc.Signal
	text   string
}

// NewAddSignal records sig for insertion into message id.
func NewAddSignal(store dbc.Store, id dbc.MessageID, sig dbc.Signal) *AddSignal {
	return &AddSignal{
		store:  store,
		id:     id,
		signal: sig.Clone(),
		text:   fmt.Sprintf("add signal %s to %s:%d", sig.Name, messageName(store, id), id.Address),
	}
}

func (c *AddSignal) Redo() error  { return c.store.AddSignal(c.id, c.signal) }
func (c *AddSignal) Undo() error  { return c.store.RemoveSignal(c.id, c.signal.Name) }
func (c *AddSignal) Text() string { return c.text }

// RemoveSignal deletes a signal, keeping a copy to restore it.
type RemoveSignal struct {
	store  dbc.Store
	id     dbc.MessageID
	signal dbc.Signal
	text   string
}

// NewRemoveSignal keeps a copy of sig so undo can restore it.
func NewRemoveSignal(store dbc.Store, id dbc.MessageID, sig dbc.Signal) *RemoveSignal {
	return &RemoveSignal{
		store:  store,
		id:     id,
		signal: sig.Clone(),
		text:   fmt.Sprintf("remove signal %s from %s:%d", sig.Name, messageName(store, id), id.Address),
	}
}

func (c *RemoveSignal) Redo() error { return c.store.RemoveSignal(c.id, c.signal.Name) }

// Undo re-adds the signal. It is already back when a later
// RemoveMessage restored the whole message.
func (c *RemoveSignal) Undo() error {
	if cur, ok := c.store.Signal(c.id, c.signal.Name); ok && cur.Equal(c.signal) {
		return nil
	}
	return c.store.AddSignal(c.id, c.signal)
}

func (c *RemoveSignal) Text() string { return c.text }

// EditSignal replaces a signal definition, possibly renaming it.
type EditSignal struct {
	store dbc.Store
	id    dbc.MessageID
	old   dbc.Signal
	new   dbc.Signal
	text  string
}

// NewEditSignal replaces old with updated; undo restores old.
func NewEditSignal(store dbc.Store, id dbc.MessageID, old, updated dbc.Signal) *EditSignal {
	return &EditSignal{
		store: store,
		id:    id,
		old:   old.Clone(),
		new:   updated.Clone(),
		text:  fmt.Sprintf("edit signal %s in %s:%d", old.Name, messageName(store, id), id.Address),
	}
}

func (c *EditSignal) Redo() error  { return c.store.UpdateSignal(c.id, c.old.Name, c.new) }
func (c *EditSignal) Undo() error  { return c.store.UpdateSignal(c.id, c.new.Name, c.old) }
func (c *EditSignal) Text() string { return c.text }
