package metadata

import (
	"encoding/binary"
	"errors"
	"math"
	"unique"
)

// MarshalBinary implements encoding.BinaryMarshaler.
// It uses a compact varint-based format.
func (m Document) MarshalBinary() ([]byte, error) {
	// Estimate size: 4 bytes count + (avg key len 5 + avg val len 5) * count
	// A rough guess to avoid some allocations.
	buf := make([]byte, 0, 4+len(m)*16)

	// Write map size (uvarint)
	buf = binary.AppendUvarint(buf, uint64(len(m)))

	for k, v := range m {
		// Write Key (string)
		buf = binary.AppendUvarint(buf, uint64(len(k)))
		buf = append(buf, k...)

		// Write Value
		var err error
		buf, err = appendValue(buf, v)
		if err != nil {
			return nil, err
		}
	}
	return buf, nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (m *Document) UnmarshalBinary(data []byte) error {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return errors.New("invalid document field count")
	}
	data = data[n:]
	if count > uint64(len(data)) {
		return errors.New("document field count exceeds buffer")
	}

	if *m == nil {
		*m = make(Document, count)
	}

	for range count {
		// Read Key
		kLen, n := binary.Uvarint(data)
		if n <= 0 {
			return errors.New("invalid key length")
		}
		data = data[n:]
		if uint64(len(data)) < kLen {
			return errors.New("short buffer for key")
		}
		key := string(data[:kLen])
		data = data[kLen:]

		// Read Value
		val, remaining, err := parseValue(data)
		if err != nil {
			return err
		}
		(*m)[key] = val
		data = remaining
	}
	return nil
}

// MarshalDocuments encodes an ordered list of documents.
// Format: [Count uvarint] [Len uvarint, Document...]
func MarshalDocuments(docs []Document) ([]byte, error) {
	buf := make([]byte, 0, 4+len(docs)*50)

	buf = binary.AppendUvarint(buf, uint64(len(docs)))

	for _, d := range docs {
		b, err := d.MarshalBinary()
		if err != nil {
			return nil, err
		}
		buf = binary.AppendUvarint(buf, uint64(len(b)))
		buf = append(buf, b...)
	}
	return buf, nil
}

// UnmarshalDocuments decodes a list written by MarshalDocuments, preserving order.
func UnmarshalDocuments(data []byte) ([]Document, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, errors.New("invalid document list length")
	}
	data = data[n:]

	// Every document takes at least one byte; cap the allocation by what is left.
	if count > uint64(len(data)) {
		return nil, errors.New("document count exceeds buffer")
	}
	docs := make([]Document, 0, count)

	for range count {
		dLen, n := binary.Uvarint(data)
		if n <= 0 {
			return nil, errors.New("invalid document length")
		}
		data = data[n:]
		if uint64(len(data)) < dLen {
			return nil, errors.New("short buffer for document")
		}

		var doc Document
		if err := doc.UnmarshalBinary(data[:dLen]); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		data = data[dLen:]
	}
	if len(data) != 0 {
		return nil, errors.New("trailing bytes after document list")
	}
	return docs, nil
}

func appendValue(buf []byte, v Value) ([]byte, error) {
	// Write Kind (byte)
	buf = append(buf, byte(v.Kind))

	switch v.Kind {
	case KindNull:
		// No payload
	case KindInt:
		buf = binary.AppendVarint(buf, v.I64)
	case KindFloat:
		bits := math.Float64bits(v.F64)
		buf = binary.LittleEndian.AppendUint64(buf, bits)
	case KindString:
		s := v.s.Value()
		buf = binary.AppendUvarint(buf, uint64(len(s)))
		buf = append(buf, s...)
	case KindBool:
		if v.B {
			buf = append(buf, 1)
		} else {
			buf = append(buf, 0)
		}
	case KindArray:
		buf = binary.AppendUvarint(buf, uint64(len(v.A)))
		for _, item := range v.A {
			var err error
			buf, err = appendValue(buf, item)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.New("unknown value kind")
	}
	return buf, nil
}

func parseValue(data []byte) (Value, []byte, error) {
	if len(data) == 0 {
		return Value{}, nil, errors.New("short buffer for value kind")
	}
	kind := Kind(data[0])
	data = data[1:]

	var v Value
	v.Kind = kind

	switch kind {
	case KindNull:
		// No payload
	case KindInt:
		i, n := binary.Varint(data)
		if n <= 0 {
			return v, nil, errors.New("invalid int value")
		}
		v.I64 = i
		data = data[n:]
	case KindFloat:
		if len(data) < 8 {
			return v, nil, errors.New("short buffer for float")
		}
		bits := binary.LittleEndian.Uint64(data)
		v.F64 = math.Float64frombits(bits)
		data = data[8:]
	case KindString:
		sLen, n := binary.Uvarint(data)
		if n <= 0 {
			return v, nil, errors.New("invalid string length")
		}
		data = data[n:]
		if uint64(len(data)) < sLen {
			return v, nil, errors.New("short buffer for string")
		}
		v.s = unique.Make(string(data[:sLen]))
		data = data[sLen:]
	case KindBool:
		if len(data) == 0 {
			return v, nil, errors.New("short buffer for bool")
		}
		v.B = data[0] != 0
		data = data[1:]
	case KindArray:
		aLen, n := binary.Uvarint(data)
		if n <= 0 {
			return v, nil, errors.New("invalid array length")
		}
		data = data[n:]
		v.A = make([]Value, aLen)
		for i := uint64(0); i < aLen; i++ {
			item, remaining, err := parseValue(data)
			if err != nil {
				return v, nil, err
			}
			v.A[i] = item
			data = remaining
		}
	default:
		return v, nil, errors.New("unknown value kind")
	}
	return v, data, nil
}
