// Package sqlite persists DBC documents and recorded CAN events in a
// SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/logging"
	"github.com/cristianoliveira/cansig/internal/stream"
	_ "modernc.org/sqlite"
)

// Storage is a SQLite-backed document and event store.
type Storage struct {
	db     *sql.DB
	logger logging.Logger
}

// Open opens or creates the database at dbPath.
func Open(dbPath string) (*Storage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}
	// One connection keeps the foreign_keys pragma in effect.
	db.SetMaxOpenConns(1)

	s := &Storage{db: db, logger: logging.With("component", "sqlite", "path", dbPath)}
	if err := s.init(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying SQLite connection.
func (s *Storage) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Storage) init() error {
	for _, pragma := range []string{"PRAGMA busy_timeout = 5000", "PRAGMA foreign_keys = ON"} {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("sqlite storage: %s: %w", pragma, err)
		}
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}
	return nil
}

// SaveDocument replaces the stored messages with those of doc in one
// transaction.
func (s *Storage) SaveDocument(ctx context.Context, doc *dbc.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite storage: begin transaction: %w", err)
	}
	if err := saveMessages(ctx, tx, doc.Messages()); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite storage: commit transaction: %w", err)
	}
	s.logger.Info("document saved", "messages", len(doc.IDs()))
	return nil
}

func saveMessages(ctx context.Context, tx *sql.Tx, msgs map[dbc.MessageID]dbc.Message) error {
	for _, table := range []string{"value_descriptions", "signals", "messages"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("sqlite storage: clear %s: %w", table, err)
		}
	}
	for id, m := range msgs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO messages (source, address, name, size, comment) VALUES (?, ?, ?, ?, ?)`,
			id.Source, id.Address, m.Name, m.Size, m.Comment); err != nil {
			return fmt.Errorf("sqlite storage: insert message %s: %w", id, err)
		}
		for pos, sig := range m.Signals {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO signals (source, address, position, name, start_bit, size, little_endian, signed,
					factor, value_offset, min, max, unit, comment)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
				id.Source, id.Address, pos, sig.Name, sig.StartBit, sig.Size, sig.IsLittleEndian, sig.IsSigned,
				sig.Factor, sig.Offset, sig.Min, sig.Max, sig.Unit, sig.Comment); err != nil {
				return fmt.Errorf("sqlite storage: insert signal %s of %s: %w", sig.Name, id, err)
			}
			for i, vd := range sig.ValueDescriptions {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO value_descriptions (source, address, signal, position, value, description)
					VALUES (?, ?, ?, ?, ?, ?)`,
					id.Source, id.Address, sig.Name, i, vd.Value, vd.Description); err != nil {
					return fmt.Errorf("sqlite storage: insert value description of %s: %w", sig.Name, err)
				}
			}
		}
	}
	return nil
}

// LoadDocument reads every stored message. Signal bit positions and
// display precision are derived again on load.
func (s *Storage) LoadDocument(ctx context.Context, name string) (*dbc.Document, error) {
	msgs := make(map[dbc.MessageID]dbc.Message)

	rows, err := s.db.QueryContext(ctx, `SELECT source, address, name, size, comment FROM messages`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list messages: %w", err)
	}
	for rows.Next() {
		var id dbc.MessageID
		var m dbc.Message
		if err := rows.Scan(&id.Source, &id.Address, &m.Name, &m.Size, &m.Comment); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite storage: scan message: %w", err)
		}
		m.Address = id.Address
		msgs[id] = m
	}
	if err := closeRows(rows, "list messages"); err != nil {
		return nil, err
	}

	descs, err := s.loadValueDescriptions(ctx)
	if err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx, `SELECT source, address, name, start_bit, size, little_endian, signed,
		factor, value_offset, min, max, unit, comment FROM signals ORDER BY source, address, position`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list signals: %w", err)
	}
	for rows.Next() {
		var id dbc.MessageID
		var sig dbc.Signal
		if err := rows.Scan(&id.Source, &id.Address, &sig.Name, &sig.StartBit, &sig.Size, &sig.IsLittleEndian,
			&sig.IsSigned, &sig.Factor, &sig.Offset, &sig.Min, &sig.Max, &sig.Unit, &sig.Comment); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite storage: scan signal: %w", err)
		}
		m, ok := msgs[id]
		if !ok {
			continue
		}
		sig.ValueDescriptions = descs[signalKey{id, sig.Name}]
		dbc.UpdateMSBLSB(&sig)
		sig.UpdatePrecision()
		m.Signals = append(m.Signals, sig)
		msgs[id] = m
	}
	if err := closeRows(rows, "list signals"); err != nil {
		return nil, err
	}

	doc := dbc.NewDocument(name)
	doc.Reset(msgs)
	s.logger.Debug("document loaded", "messages", len(msgs))
	return doc, nil
}

type signalKey struct {
	id   dbc.MessageID
	name string
}

func (s *Storage) loadValueDescriptions(ctx context.Context) (map[signalKey][]dbc.ValueDescription, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, address, signal, value, description
		FROM value_descriptions ORDER BY source, address, signal, position`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list value descriptions: %w", err)
	}
	out := make(map[signalKey][]dbc.ValueDescription)
	for rows.Next() {
		var key signalKey
		var vd dbc.ValueDescription
		if err := rows.Scan(&key.id.Source, &key.id.Address, &key.name, &vd.Value, &vd.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite storage: scan value description: %w", err)
		}
		out[key] = append(out[key], vd)
	}
	return out, closeRows(rows, "list value descriptions")
}

// AppendEvents records payloads received for id.
func (s *Storage) AppendEvents(ctx context.Context, id dbc.MessageID, events []stream.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite storage: begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO can_events (source, address, mono_time, data) VALUES (?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite storage: prepare insert event: %w", err)
	}
	defer stmt.Close()
	for _, ev := range events {
		if _, err := stmt.ExecContext(ctx, id.Source, id.Address, ev.Timestamp, ev.Data); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("sqlite storage: insert event for %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("sqlite storage: commit transaction: %w", err)
	}
	return nil
}

// LoadReplay reads every recorded event into a new replay.
func (s *Storage) LoadReplay(ctx context.Context) (*stream.Replay, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT source, address, mono_time, data FROM can_events ORDER BY mono_time, id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list events: %w", err)
	}
	replay := stream.NewReplay()
	n := 0
	for rows.Next() {
		var id dbc.MessageID
		var ev stream.Event
		if err := rows.Scan(&id.Source, &id.Address, &ev.Timestamp, &ev.Data); err != nil {
			rows.Close()
			return nil, fmt.Errorf("sqlite storage: scan event: %w", err)
		}
		replay.Append(id, ev)
		n++
	}
	if err := closeRows(rows, "list events"); err != nil {
		return nil, err
	}
	s.logger.Debug("replay loaded", "events", n)
	return replay, nil
}

func closeRows(rows *sql.Rows, op string) error {
	err := rows.Err()
	if cerr := rows.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("sqlite storage: %s: %w", op, err)
	}
	return nil
}
