// Package tlv implements a compact tag-length-value field encoding.
//
// Each field is framed as a one-byte tag control (context tags below 16 are
// carried inside the control byte itself), an element-type byte, and for
// variable-length kinds a length prefix followed by the raw bytes. Unsigned
// integers are always written with the smallest width (8/16/32 bits) that
// represents the value, so a given field sequence has exactly one encoding.
package tlv

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Kind selects the value representation of a Field.
type Kind int

const (
	UnsignedInt Kind = iota
	Text
	Bytes
)

func (k Kind) String() string {
	switch k {
	case UnsignedInt:
		return "uint"
	case Text:
		return "text"
	case Bytes:
		return "bytes"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Field is a single decoded or to-be-encoded TLV element. Exactly one of
// Uint, Str or Raw is meaningful, selected by Kind.
type Field struct {
	Tag  uint32
	Kind Kind
	Uint uint64
	Str  string
	Raw  []byte
}

// UintField builds an unsigned-integer field.
func UintField(tag uint32, v uint64) Field { return Field{Tag: tag, Kind: UnsignedInt, Uint: v} }

// StrField builds a UTF-8 string field.
func StrField(tag uint32, s string) Field { return Field{Tag: tag, Kind: Text, Str: s} }

// BytesField builds an opaque byte-string field.
func BytesField(tag uint32, b []byte) Field { return Field{Tag: tag, Kind: Bytes, Raw: b} }

// Tag control forms. The low nibble of the control byte carries the tag for
// the short context form; the other forms are followed by 1, 2 or 4 tag bytes
// (big endian).
const (
	ctrlContext = 0x00 // tag < 16, in control byte
	ctrlTag1    = 0x10 // tag in [16, 255]
	ctrlTag2    = 0x20 // tag in [256, 65535]
	ctrlTag4    = 0x30 // wider tags
	ctrlMask    = 0xF0
)

// Element types.
const (
	elemUint8  = 0x04
	elemUint16 = 0x05
	elemUint32 = 0x06
	elemUtf8   = 0x0C
	elemBytes  = 0x10
)

// Length-prefix sentinels for variable-length values: a first byte below
// lenU16 is the length itself; lenU16 and lenU32 announce a 2- or 4-byte
// big-endian length (3 or 5 prefix bytes total).
const (
	lenU16 = 0xFD
	lenU32 = 0xFE
)

// AppendField appends one encoded field to dst and returns the extended
// slice. It fails only when an unsigned value does not fit 32 bits or the
// Kind is unknown.
func AppendField(dst []byte, f Field) ([]byte, error) {
	dst = appendTag(dst, f.Tag)

	switch f.Kind {
	case UnsignedInt:
		switch {
		case f.Uint <= math.MaxUint8:
			dst = append(dst, elemUint8, byte(f.Uint))
		case f.Uint <= math.MaxUint16:
			dst = append(dst, elemUint16)
			dst = binary.BigEndian.AppendUint16(dst, uint16(f.Uint))
		case f.Uint <= math.MaxUint32:
			dst = append(dst, elemUint32)
			dst = binary.BigEndian.AppendUint32(dst, uint32(f.Uint))
		default:
			return nil, fmt.Errorf("tlv: tag %d: value %d exceeds 32 bits", f.Tag, f.Uint)
		}
	case Text:
		dst = append(dst, elemUtf8)
		dst = appendLength(dst, len(f.Str))
		dst = append(dst, f.Str...)
	case Bytes:
		dst = append(dst, elemBytes)
		dst = appendLength(dst, len(f.Raw))
		dst = append(dst, f.Raw...)
	default:
		return nil, fmt.Errorf("tlv: tag %d: unknown kind %v", f.Tag, f.Kind)
	}
	return dst, nil
}

func appendTag(dst []byte, tag uint32) []byte {
	switch {
	case tag < 16:
		return append(dst, ctrlContext|byte(tag))
	case tag <= math.MaxUint8:
		return append(dst, ctrlTag1, byte(tag))
	case tag <= math.MaxUint16:
		dst = append(dst, ctrlTag2)
		return binary.BigEndian.AppendUint16(dst, uint16(tag))
	default:
		dst = append(dst, ctrlTag4)
		return binary.BigEndian.AppendUint32(dst, tag)
	}
}

func appendLength(dst []byte, n int) []byte {
	switch {
	case n < lenU16:
		return append(dst, byte(n))
	case n <= math.MaxUint16:
		dst = append(dst, lenU16)
		return binary.BigEndian.AppendUint16(dst, uint16(n))
	default:
		dst = append(dst, lenU32)
		return binary.BigEndian.AppendUint32(dst, uint32(n))
	}
}

// EncodeFields encodes the fields back to back into a fresh buffer.
func EncodeFields(fields []Field) ([]byte, error) {
	var buf []byte
	for _, f := range fields {
		var err error
		buf, err = AppendField(buf, f)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// DecodeField decodes a single field starting at offset and returns it along
// with the offset of the next field. The buffer is never modified and the
// returned Field owns copies of any variable-length data.
func DecodeField(buf []byte, offset int) (Field, int, error) {
	if offset >= len(buf) {
		return Field{}, 0, &MalformedError{Offset: offset, Reason: "no control byte"}
	}

	ctrl := buf[offset]
	pos := offset + 1

	var tag uint32
	switch ctrl & ctrlMask {
	case ctrlContext:
		tag = uint32(ctrl & 0x0F)
	case ctrlTag1:
		if pos+1 > len(buf) {
			return Field{}, 0, &MalformedError{Offset: offset, Reason: "truncated tag"}
		}
		tag = uint32(buf[pos])
		pos++
	case ctrlTag2:
		if pos+2 > len(buf) {
			return Field{}, 0, &MalformedError{Offset: offset, Reason: "truncated tag"}
		}
		tag = uint32(binary.BigEndian.Uint16(buf[pos:]))
		pos += 2
	case ctrlTag4:
		if pos+4 > len(buf) {
			return Field{}, 0, &MalformedError{Offset: offset, Reason: "truncated tag"}
		}
		tag = binary.BigEndian.Uint32(buf[pos:])
		pos += 4
	default:
		return Field{}, 0, &MalformedError{Offset: offset, Reason: fmt.Sprintf("unknown tag control 0x%02x", ctrl)}
	}

	if pos >= len(buf) {
		return Field{}, 0, &MalformedError{Offset: pos, Reason: "no element type"}
	}
	elem := buf[pos]
	pos++

	switch elem {
	case elemUint8:
		if pos+1 > len(buf) {
			return Field{}, 0, &MalformedError{Offset: pos, Reason: "truncated uint8"}
		}
		return UintField(tag, uint64(buf[pos])), pos + 1, nil
	case elemUint16:
		if pos+2 > len(buf) {
			return Field{}, 0, &MalformedError{Offset: pos, Reason: "truncated uint16"}
		}
		return UintField(tag, uint64(binary.BigEndian.Uint16(buf[pos:]))), pos + 2, nil
	case elemUint32:
		if pos+4 > len(buf) {
			return Field{}, 0, &MalformedError{Offset: pos, Reason: "truncated uint32"}
		}
		return UintField(tag, uint64(binary.BigEndian.Uint32(buf[pos:]))), pos + 4, nil
	case elemUtf8, elemBytes:
		length, pos, err := decodeLength(buf, pos)
		if err != nil {
			return Field{}, 0, err
		}
		if pos+length > len(buf) {
			return Field{}, 0, &MalformedError{Offset: pos, Reason: fmt.Sprintf("value length %d exceeds buffer", length)}
		}
		value := buf[pos : pos+length]
		if elem == elemUtf8 {
			return StrField(tag, string(value)), pos + length, nil
		}
		raw := make([]byte, length)
		copy(raw, value)
		return BytesField(tag, raw), pos + length, nil
	default:
		return Field{}, 0, &MalformedError{Offset: pos - 1, Reason: fmt.Sprintf("unsupported element type 0x%02x", elem)}
	}
}

func decodeLength(buf []byte, pos int) (int, int, error) {
	if pos >= len(buf) {
		return 0, 0, &MalformedError{Offset: pos, Reason: "missing length prefix"}
	}
	switch b := buf[pos]; b {
	case lenU16:
		if pos+3 > len(buf) {
			return 0, 0, &MalformedError{Offset: pos, Reason: "truncated 2-byte length"}
		}
		return int(binary.BigEndian.Uint16(buf[pos+1:])), pos + 3, nil
	case lenU32:
		if pos+5 > len(buf) {
			return 0, 0, &MalformedError{Offset: pos, Reason: "truncated 4-byte length"}
		}
		n := binary.BigEndian.Uint32(buf[pos+1:])
		if n > math.MaxInt32 {
			return 0, 0, &MalformedError{Offset: pos, Reason: "length overflow"}
		}
		return int(n), pos + 5, nil
	default:
		return int(b), pos + 1, nil
	}
}

// DecodeAll decodes every field in buf. It returns a typed error and no
// fields at all if any element is malformed.
func DecodeAll(buf []byte) ([]Field, error) {
	var fields []Field
	offset := 0
	for offset < len(buf) {
		f, next, err := DecodeField(buf, offset)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
		offset = next
	}
	return fields, nil
}

// Find returns the first field with the given tag.
func Find(fields []Field, tag uint32) (Field, bool) {
	for _, f := range fields {
		if f.Tag == tag {
			return f, true
		}
	}
	return Field{}, false
}
