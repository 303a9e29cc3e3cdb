package main

import (
	"context"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/stream"
)

// memoryClient is an in-memory stand-in for the sqlite storage.
type memoryClient struct {
	msgs   map[dbc.MessageID]dbc.Message
	events map[dbc.MessageID][]stream.Event
	saves  int
	err    error
}

func newMemoryClient() *memoryClient {
	return &memoryClient{
		msgs:   make(map[dbc.MessageID]dbc.Message),
		events: make(map[dbc.MessageID][]stream.Event),
	}
}

func (c *memoryClient) LoadDocument(ctx context.Context, name string) (*dbc.Document, error) {
	if c.err != nil {
		return nil, c.err
	}
	doc := dbc.NewDocument(name)
	doc.Reset(c.msgs)
	return doc, nil
}

func (c *memoryClient) SaveDocument(ctx context.Context, doc *dbc.Document) error {
	if c.err != nil {
		return c.err
	}
	c.msgs = doc.Messages()
	c.saves++
	return nil
}

func (c *memoryClient) AppendEvents(ctx context.Context, id dbc.MessageID, events []stream.Event) error {
	if c.err != nil {
		return c.err
	}
	c.events[id] = append(c.events[id], events...)
	return nil
}

func (c *memoryClient) LoadReplay(ctx context.Context) (*stream.Replay, error) {
	if c.err != nil {
		return nil, c.err
	}
	r := stream.NewReplay()
	for id, evs := range c.events {
		for _, ev := range evs {
			r.Append(id, ev)
		}
	}
	return r, nil
}
