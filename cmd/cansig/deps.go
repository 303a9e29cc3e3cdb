package main

import (
	"context"
	"sync"

	"github.com/cristianoliveira/cansig/internal/config"
	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/storage/sqlite"
	"github.com/cristianoliveira/cansig/internal/stream"
	"github.com/spf13/cobra"
)

// storageClient opens the configured database on first use, after the
// root command loaded the configuration.
type storageClient struct {
	once    sync.Once
	storage *sqlite.Storage
	err     error
}

var dbClient = &storageClient{}

func init() {
	cobra.OnFinalize(dbClient.close)
}

func (c *storageClient) open() (*sqlite.Storage, error) {
	c.once.Do(func() {
		c.storage, c.err = sqlite.Open(config.Get("db_path", ""))
	})
	return c.storage, c.err
}

func (c *storageClient) LoadDocument(ctx context.Context, name string) (*dbc.Document, error) {
	s, err := c.open()
	if err != nil {
		return nil, err
	}
	return s.LoadDocument(ctx, name)
}

func (c *storageClient) SaveDocument(ctx context.Context, doc *dbc.Document) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	return s.SaveDocument(ctx, doc)
}

func (c *storageClient) AppendEvents(ctx context.Context, id dbc.MessageID, events []stream.Event) error {
	s, err := c.open()
	if err != nil {
		return err
	}
	return s.AppendEvents(ctx, id, events)
}

func (c *storageClient) LoadReplay(ctx context.Context) (*stream.Replay, error) {
	s, err := c.open()
	if err != nil {
		return nil, err
	}
	return s.LoadReplay(ctx)
}

func (c *storageClient) close() {
	if c.storage != nil {
		_ = c.storage.Close()
	}
}
