package signaltree

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/cansig/internal/dbc"
	"github.com/cristianoliveira/cansig/internal/undo"
)

// SetData parses value for the property row it and saves the edited
// signal. Boolean rows take "true" or "false".
func (m *Model) SetData(it *Item, value string) error {
	if !m.Editable(it) {
		return ErrNotEditable
	}
	orig, ok := m.Signal(it)
	if !ok {
		return fmt.Errorf("set %s: %w", it.Kind, dbc.ErrSignalNotFound)
	}
	s := orig.Clone()
	var err error
	switch it.Kind {
	case KindName:
		s.Name = strings.TrimSpace(value)
		if s.Name == "" {
			err = &ValidationError{Field: "name", Err: fmt.Errorf("empty name")}
		}
	case KindSize:
		s.Size, err = parseInt("size", value)
		if err == nil && (s.Size < 1 || s.Size > dbc.MaxSignalSize) {
			err = &ValidationError{Field: "size", Value: value, Err: dbc.ErrInvalidRange}
		}
	case KindEndian:
		s.IsLittleEndian, err = parseBool("little endian", value)
	case KindSigned:
		s.IsSigned, err = parseBool("signed", value)
	case KindOffset:
		s.Offset, err = parseFloat("offset", value)
	case KindFactor:
		s.Factor, err = parseFloat("factor", value)
	case KindUnit:
		s.Unit = value
	case KindComment:
		s.Comment = value
	case KindMin:
		s.Min, err = parseFloat("minimum value", value)
	case KindMax:
		s.Max, err = parseFloat("maximum value", value)
	case KindDesc:
		s.ValueDescriptions, err = dbc.ParseValueDescriptions(value)
		if err != nil {
			err = &ValidationError{Field: "value descriptions", Value: value, Err: err}
		}
	}
	if err != nil {
		return err
	}
	s.UpdatePrecision()
	if err := m.SaveSignal(orig.Name, s); err != nil {
		return err
	}
	m.emit(func(o Observer) { o.DataChanged(it) })
	return nil
}

// SaveSignal replaces the signal named origName with s through an
// EditSignal command. When the endianness changed the start bit is
// moved so the signal keeps its bytes.
func (m *Model) SaveSignal(origName string, s dbc.Signal) error {
	msg, ok := m.message()
	if !ok {
		return ErrNoMessage
	}
	orig, ok := msg.Signal(origName)
	if !ok {
		return fmt.Errorf("save signal %s: %w", origName, dbc.ErrSignalNotFound)
	}
	if s.Name != orig.Name {
		if _, taken := msg.Signal(s.Name); taken {
			return &ValidationError{Field: "name", Value: s.Name, Err: ErrNameCollision}
		}
	}
	if s.IsLittleEndian != orig.IsLittleEndian {
		dbc.FlipEndianStartBit(&s)
	}
	dbc.UpdateMSBLSB(&s)
	m.logger.Debug("save signal", "message", m.msgID.String(), "signal", origName, "new_name", s.Name)
	return m.stack.Push(undo.NewEditSignal(m.store, m.msgID, *orig, s))
}

// AddSignal adds a signal covering the sequential bit range
// [startBit, startBit+size). The message is created first when it does
// not exist yet, sized to the last payload seen for it.
func (m *Model) AddSignal(startBit, size int, littleEndian bool) error {
	if !m.hasMessage {
		return ErrNoMessage
	}
	if err := m.validateRange(startBit, size); err != nil {
		return err
	}
	if _, ok := m.store.Message(m.msgID); !ok {
		name := m.store.NewMessageName(m.msgID)
		payload := uint32(len(m.source.LastMessage(m.msgID).Data))
		if err := m.stack.Push(undo.NewEditMessage(m.store, m.msgID, name, payload, "")); err != nil {
			return err
		}
	}
	sig := dbc.Signal{
		Name:           m.store.NewSignalName(m.msgID),
		IsLittleEndian: littleEndian,
		Factor:         1,
		Min:            0,
		Max:            dbc.MaxRawValue(size),
	}
	dbc.UpdateSizeParamsFromRange(&sig, startBit, size)
	sig.UpdatePrecision()
	m.logger.Debug("add signal", "message", m.msgID.String(), "signal", sig.Name, "start_bit", sig.StartBit, "size", size)
	return m.stack.Push(undo.NewAddSignal(m.store, m.msgID, sig))
}

// ResizeSignal moves the named signal to a new sequential bit range.
func (m *Model) ResizeSignal(name string, startBit, size int) error {
	if !m.hasMessage {
		return ErrNoMessage
	}
	if err := m.validateRange(startBit, size); err != nil {
		return err
	}
	sig, ok := m.store.Signal(m.msgID, name)
	if !ok {
		return fmt.Errorf("resize signal %s: %w", name, dbc.ErrSignalNotFound)
	}
	dbc.UpdateSizeParamsFromRange(&sig, startBit, size)
	return m.SaveSignal(name, sig)
}

// validateRange checks a selection against the message size, or the
// last payload length while the message is not defined yet.
func (m *Model) validateRange(startBit, size int) error {
	payload := len(m.source.LastMessage(m.msgID).Data)
	if msg, ok := m.store.Message(m.msgID); ok {
		payload = int(msg.Size)
	}
	if err := dbc.ValidatePayloadRange(startBit, size, payload); err != nil {
		return &ValidationError{Field: "range", Err: err}
	}
	return nil
}

// RemoveSignal removes the named signal. Removing the last signal also
// pushes a message removal; undoing that one restores the message with
// the signal.
func (m *Model) RemoveSignal(name string) error {
	if !m.hasMessage {
		return ErrNoMessage
	}
	sig, ok := m.store.Signal(m.msgID, name)
	if !ok {
		return fmt.Errorf("remove signal %s: %w", name, dbc.ErrSignalNotFound)
	}
	// Snapshot the message while it still holds the signal.
	var removeMsg *undo.RemoveMessage
	if m.store.SignalCount(m.msgID) == 1 {
		removeMsg = undo.NewRemoveMessage(m.store, m.msgID)
	}
	if err := m.stack.Push(undo.NewRemoveSignal(m.store, m.msgID, sig)); err != nil {
		return err
	}
	if removeMsg != nil {
		return m.stack.Push(removeMsg)
	}
	return nil
}

func parseInt(field, value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, &ValidationError{Field: field, Value: value, Err: err}
	}
	return n, nil
}

func parseFloat(field, value string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return 0, &ValidationError{Field: field, Value: value, Err: err}
	}
	return f, nil
}

func parseBool(field, value string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return false, &ValidationError{Field: field, Value: value, Err: err}
	}
	return b, nil
}
