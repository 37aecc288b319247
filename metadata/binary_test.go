package metadata

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinarySerialization(t *testing.T) {
	tests := []struct {
		name string
		val  Value
	}{
		{"Null", Null()},
		{"Int", Int(math.MinInt64)},
		{"IntMax", Int(math.MaxInt64)},
		{"Float", Float(3.14159)},
		{"FloatNeg", Float(-1.23)},
		{"FloatInf", Float(math.Inf(1))},
		{"String", String("hello world")},
		{"StringEmpty", String("")},
		{"StringNonAscii", String("こんにちは")},
		{"BoolTrue", Bool(true)},
		{"BoolFalse", Bool(false)},
		{"Array", Array([]Value{Int(1), String("a")})},
		{"NestedArray", Array([]Value{Int(1), Array([]Value{Int(2)})})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Document{"key": tt.val}

			b, err := m.MarshalBinary()
			require.NoError(t, err)

			var got Document
			require.NoError(t, got.UnmarshalBinary(b))

			require.Len(t, got, 1)
			assert.True(t, tt.val.Equal(got["key"]))
		})
	}
}

func TestDocumentList(t *testing.T) {
	docs := []Document{
		{"id": Int(1), "name": String("one")},
		{},
		{"id": Int(3), "tags": Array([]Value{String("a"), Bool(true)})},
	}

	b, err := MarshalDocuments(docs)
	require.NoError(t, err)

	got, err := UnmarshalDocuments(b)
	require.NoError(t, err)
	require.Len(t, got, len(docs))
	for i := range docs {
		assert.True(t, docs[i].Equal(got[i]), "document %d", i)
	}

	t.Run("Empty", func(t *testing.T) {
		b, err := MarshalDocuments(nil)
		require.NoError(t, err)

		got, err := UnmarshalDocuments(b)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestBinary_Corrupt(t *testing.T) {
	var m Document
	assert.Error(t, m.UnmarshalBinary([]byte{}))
	assert.Error(t, m.UnmarshalBinary([]byte{0xFF}), "truncated uvarint")
	assert.Error(t, m.UnmarshalBinary([]byte{0x05}), "count larger than buffer")

	_, err := UnmarshalDocuments([]byte{0x01})
	assert.Error(t, err)

	b, err := MarshalDocuments([]Document{{"a": Int(1)}})
	require.NoError(t, err)
	_, err = UnmarshalDocuments(append(b, 0x00))
	assert.Error(t, err, "trailing bytes")

	_, err = UnmarshalDocuments(b[:len(b)-1])
	assert.Error(t, err, "truncated document")
}
