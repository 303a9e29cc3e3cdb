package dbc

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// RawValue extracts the signal from a payload and applies factor and offset.
func RawValue(data []byte, sig Signal) float64 {
	var val uint64
	i := sig.MSB / 8
	bits := sig.Size
	for i >= 0 && i < len(data) && bits > 0 {
		lsb, msb := byteBounds(sig, i)
		size := msb - lsb + 1
		d := (uint64(data[i]) >> uint(lsb-i*8)) & ((uint64(1) << uint(size)) - 1)
		val |= d << uint(bits-size)
		bits -= size
		if sig.IsLittleEndian {
			i--
		} else {
			i++
		}
	}
	v := int64(val)
	if sig.IsSigned && sig.Size < 64 && (val>>uint(sig.Size-1))&1 == 1 {
		v -= int64(1) << uint(sig.Size)
	}
	return float64(v)*sig.Factor + sig.Offset
}

// EncodeValue writes value into data using the signal's layout, factor
// and offset. The raw value is clamped to what the signal can hold. Bits
// outside the signal are kept.
func EncodeValue(data []byte, sig Signal, value float64) {
	factor := sig.Factor
	if factor == 0 {
		factor = 1
	}
	val := clampRaw(math.Round((value-sig.Offset)/factor), sig.Size, sig.IsSigned)
	i := sig.MSB / 8
	bits := sig.Size
	for i >= 0 && i < len(data) && bits > 0 {
		lsb, msb := byteBounds(sig, i)
		size := msb - lsb + 1
		shift := uint(lsb - i*8)
		mask := (uint64(1) << uint(size)) - 1
		d := (val >> uint(bits-size)) & mask
		data[i] = byte(uint64(data[i])&^(mask<<shift) | d<<shift)
		bits -= size
		if sig.IsLittleEndian {
			i--
		} else {
			i++
		}
	}
}

// clampRaw converts raw to the size-bit two's complement pattern,
// saturating at the bounds of the field.
func clampRaw(raw float64, size int, signed bool) uint64 {
	mask := uint64(math.MaxUint64)
	if size < 64 {
		mask = (uint64(1) << uint(size)) - 1
	}
	if signed {
		lo := -math.Ldexp(1, size-1)
		hi := math.Ldexp(1, size-1) - 1
		switch {
		case raw <= lo:
			return (mask >> 1) + 1
		case raw >= hi:
			return mask >> 1
		}
		return uint64(int64(raw)) & mask
	}
	switch {
	case raw <= 0:
		return 0
	case raw >= math.Ldexp(1, size)-1:
		return mask
	}
	return uint64(raw)
}

// UpdatePrecision derives the display precision from factor and offset.
func (s *Signal) UpdatePrecision() {
	s.Precision = max(numDecimals(s.Factor), numDecimals(s.Offset))
}

// FormatValue renders a decoded value, preferring a matching value description.
func (s Signal) FormatValue(value float64) string {
	for _, vd := range s.ValueDescriptions {
		if math.Abs(value-vd.Value) < 1e-6 {
			return vd.Description
		}
	}
	str := strconv.FormatFloat(value, 'f', s.Precision, 64)
	if s.Unit != "" {
		str += " " + s.Unit
	}
	return str
}

// FormatDouble renders a number with up to 15 significant digits.
func FormatDouble(v float64) string {
	return strconv.FormatFloat(v, 'g', 15, 64)
}

// FormatValueDescriptions renders descriptions as `0 "Off" 1 "On"`.
func FormatValueDescriptions(vds []ValueDescription) string {
	parts := make([]string, 0, len(vds))
	for _, vd := range vds {
		parts = append(parts, fmt.Sprintf("%s %q", FormatDouble(vd.Value), vd.Description))
	}
	return strings.Join(parts, " ")
}

// ParseValueDescriptions parses the form produced by FormatValueDescriptions.
func ParseValueDescriptions(text string) ([]ValueDescription, error) {
	var out []ValueDescription
	parts := strings.Split(strings.TrimSpace(text), `"`)
	for i := 0; i < len(parts); i += 2 {
		raw := strings.TrimSpace(parts[i])
		if raw == "" {
			continue
		}
		if i+1 >= len(parts) {
			return nil, fmt.Errorf("value %q has no description", raw)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value %q: %w", raw, err)
		}
		out = append(out, ValueDescription{Value: v, Description: strings.TrimSpace(parts[i+1])})
	}
	return out, nil
}

// numDecimals counts the digits after the decimal point in the short
// representation of num.
func numDecimals(num float64) int {
	str := strconv.FormatFloat(num, 'g', 6, 64)
	if i := strings.IndexAny(str, "eE"); i >= 0 {
		str = str[:i]
	}
	dot := strings.IndexByte(str, '.')
	if dot < 0 {
		return 0
	}
	return len(str) - dot - 1
}
