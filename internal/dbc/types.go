// Package dbc holds the in-memory CAN database model: messages, the
// bit-packed signals inside them and the document that owns both.
package dbc

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Untitled is shown for messages that are not defined in the document.
const Untitled = "untitled"

// MessageID identifies a message by bus source and address.
type MessageID struct {
	Source  uint8
	Address uint32
}

// String renders the id as "source:hexaddress".
func (id MessageID) String() string {
	return fmt.Sprintf("%d:%x", id.Source, id.Address)
}

// Less orders ids by source, then address.
func (id MessageID) Less(other MessageID) bool {
	if id.Source != other.Source {
		return id.Source < other.Source
	}
	return id.Address < other.Address
}

// ParseMessageID parses the form produced by MessageID.String.
// A bare address (no source) is accepted and maps to source 0.
func ParseMessageID(s string) (MessageID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return MessageID{}, fmt.Errorf("message id cannot be empty")
	}
	source := "0"
	address := s
	if i := strings.IndexByte(s, ':'); i >= 0 {
		source, address = s[:i], s[i+1:]
	}
	src, err := strconv.ParseUint(source, 10, 8)
	if err != nil {
		return MessageID{}, fmt.Errorf("invalid message source %q: %w", source, err)
	}
	addr, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(address), "0x"), 16, 32)
	if err != nil {
		return MessageID{}, fmt.Errorf("invalid message address %q: %w", address, err)
	}
	return MessageID{Source: uint8(src), Address: uint32(addr)}, nil
}

// ValueDescription maps a raw value to a human readable label.
type ValueDescription struct {
	Value       float64
	Description string
}

// Signal is a named, scaled, bit-positioned field of a message payload.
type Signal struct {
	Name              string
	StartBit          int
	Size              int
	LSB               int
	MSB               int
	IsLittleEndian    bool
	IsSigned          bool
	Factor            float64
	Offset            float64
	Min               float64
	Max               float64
	Unit              string
	Comment           string
	ValueDescriptions []ValueDescription
	Precision         int
}

// Clone returns a deep copy of the signal.
func (s Signal) Clone() Signal {
	if s.ValueDescriptions != nil {
		s.ValueDescriptions = append([]ValueDescription(nil), s.ValueDescriptions...)
	}
	return s
}

// Equal reports whether two signals carry the same definition.
// Precision is derived and ignored.
func (s Signal) Equal(o Signal) bool {
	if s.Name != o.Name || s.Size != o.Size || s.StartBit != o.StartBit ||
		s.MSB != o.MSB || s.LSB != o.LSB ||
		s.IsSigned != o.IsSigned || s.IsLittleEndian != o.IsLittleEndian ||
		s.Factor != o.Factor || s.Offset != o.Offset ||
		s.Min != o.Min || s.Max != o.Max ||
		s.Comment != o.Comment || s.Unit != o.Unit {
		return false
	}
	if len(s.ValueDescriptions) != len(o.ValueDescriptions) {
		return false
	}
	for i := range s.ValueDescriptions {
		if s.ValueDescriptions[i] != o.ValueDescriptions[i] {
			return false
		}
	}
	return true
}

// Message is a CAN message definition.
type Message struct {
	Address uint32
	Name    string
	Size    uint32
	Comment string
	Signals []Signal
}

// Clone returns a deep copy of the message.
func (m Message) Clone() Message {
	sigs := make([]Signal, len(m.Signals))
	for i, s := range m.Signals {
		sigs[i] = s.Clone()
	}
	m.Signals = sigs
	return m
}

// Signal looks up a signal by name.
func (m *Message) Signal(name string) (*Signal, bool) {
	for i := range m.Signals {
		if m.Signals[i].Name == name {
			return &m.Signals[i], true
		}
	}
	return nil, false
}

// SortedSignals returns copies of the signals ordered by start bit, then name.
func (m Message) SortedSignals() []Signal {
	out := make([]Signal, len(m.Signals))
	for i, s := range m.Signals {
		out[i] = s.Clone()
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].StartBit != out[j].StartBit {
			return out[i].StartBit < out[j].StartBit
		}
		// Independent signal messages reuse the same start bit.
		return out[i].Name < out[j].Name
	})
	return out
}

// Mask returns, per payload byte, the bits covered by at least one signal.
func (m Message) Mask() []uint8 {
	mask := make([]uint8, m.Size)
	size := int(m.Size)
	for _, sig := range m.Signals {
		i := sig.MSB / 8
		bits := sig.Size
		for i >= 0 && i < size && bits > 0 {
			lsb, msb := byteBounds(sig, i)
			sz := msb - lsb + 1
			shift := lsb - i*8
			mask[i] |= uint8(((uint64(1) << uint(sz)) - 1) << uint(shift))
			bits -= sz
			if sig.IsLittleEndian {
				i--
			} else {
				i++
			}
		}
	}
	return mask
}

// byteBounds clips a signal's lsb/msb to byte i.
func byteBounds(sig Signal, i int) (lsb, msb int) {
	lsb, msb = i*8, (i+1)*8-1
	if sig.LSB/8 == i {
		lsb = sig.LSB
	}
	if sig.MSB/8 == i {
		msb = sig.MSB
	}
	return lsb, msb
}

// MaxRawValue is the largest unsigned value a field of size bits can hold.
func MaxRawValue(size int) float64 {
	return math.Pow(2, float64(size)) - 1
}
