package dbc

import "fmt"

const (
	// MaxPayloadBytes is the largest CAN FD payload.
	MaxPayloadBytes = 64
	// MaxSignalSize is the widest signal, in bits.
	MaxSignalSize = 64
)

// BigEndianBitIndex converts a sequential bit index into the
// byte-swapped numbering used by big endian start bits.
func BigEndianBitIndex(i int) int {
	return (i/8)*8 + 7 - i%8
}

// BigEndianStartBitsIndex is the inverse of BigEndianBitIndex.
// The transform mirrors bits inside a byte, so it is its own inverse.
func BigEndianStartBitsIndex(startBit int) int {
	return (startBit/8)*8 + 7 - startBit%8
}

// ValidateRange reports whether a selection fits in a CAN FD payload.
func ValidateRange(startBit, size int) error {
	if size < 1 || size > MaxSignalSize {
		return fmt.Errorf("%w: size %d not in [1,%d]", ErrInvalidRange, size, MaxSignalSize)
	}
	if startBit < 0 || startBit >= MaxPayloadBytes*8 {
		return fmt.Errorf("%w: start bit %d", ErrInvalidRange, startBit)
	}
	return nil
}

// ValidatePayloadRange is ValidateRange plus a check that the selection
// ends inside a payload of payloadBytes. A zero payload size is unknown
// and only gets the CAN FD check.
func ValidatePayloadRange(startBit, size, payloadBytes int) error {
	if err := ValidateRange(startBit, size); err != nil {
		return err
	}
	if payloadBytes > 0 && startBit+size > payloadBytes*8 {
		return fmt.Errorf("%w: bits %d..%d exceed %d byte payload", ErrInvalidRange, startBit, startBit+size-1, payloadBytes)
	}
	return nil
}

// UpdateMSBLSB recomputes the absolute lsb/msb of a signal from its
// start bit, size and endianness.
func UpdateMSBLSB(s *Signal) {
	if s.IsLittleEndian {
		s.LSB = s.StartBit
		s.MSB = s.StartBit + s.Size - 1
		return
	}
	s.LSB = BigEndianStartBitsIndex(BigEndianBitIndex(s.StartBit) + s.Size - 1)
	s.MSB = s.StartBit
}

// UpdateSizeParamsFromRange applies an interactive selection, given as
// a sequential start bit and size, to the signal.
func UpdateSizeParamsFromRange(s *Signal, startBit, size int) {
	if s.IsLittleEndian {
		s.StartBit = startBit
	} else {
		s.StartBit = BigEndianBitIndex(startBit)
	}
	s.Size = size
	UpdateMSBLSB(s)
}

// FlipEndianStartBit recomputes the start bit after IsLittleEndian was
// toggled on s so the signal keeps covering the same bytes. Must run
// before UpdateMSBLSB.
func FlipEndianStartBit(s *Signal) {
	start := s.StartBit / 8
	if s.IsLittleEndian {
		end := floorDiv(s.StartBit-s.Size+1, 8)
		if start == end {
			s.StartBit = s.StartBit - s.Size + 1
		} else {
			s.StartBit = BigEndianStartBitsIndex(s.StartBit)
		}
		return
	}
	end := floorDiv(s.StartBit+s.Size-1, 8)
	if start == end {
		s.StartBit = s.StartBit + s.Size - 1
	} else {
		s.StartBit = BigEndianBitIndex(s.StartBit)
	}
}

// SignalRange returns the sequential [from, to] bit range covered by s.
func SignalRange(s Signal) (from, to int) {
	from = s.StartBit
	if !s.IsLittleEndian {
		from = BigEndianBitIndex(s.StartBit)
	}
	return from, from + s.Size - 1
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
