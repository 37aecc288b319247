package indexarray

import (
	"encoding/binary"
	"fmt"

	"github.com/hupe1980/indexarray/codec"
	"github.com/hupe1980/indexarray/index"
	"github.com/hupe1980/indexarray/metadata"
)

// Binary layout:
//
//	[Magic "IXAR"] [Version 1 byte] [Compression 1 byte]
//	[FieldCount uvarint] [FieldLen uvarint, Field...]
//	[Block: metadata.MarshalDocuments, see codec.CompressBlock]
var binaryMagic = [4]byte{'I', 'X', 'A', 'R'}

const binaryVersion = 1

// MarshalJSON encodes the records as a plain JSON array of objects.
func (c *Collection) MarshalJSON() ([]byte, error) {
	return c.jsonCodec().Marshal(c.ToMaps())
}

// UnmarshalJSON replaces the records with the decoded JSON array. Integral
// numbers decode as metadata.Int, others as metadata.Float. Indexes that
// existed before are rebuilt over the new records.
func (c *Collection) UnmarshalJSON(data []byte) error {
	var maps []map[string]any
	if err := codec.UnmarshalNumbers(c.jsonCodec(), data, &maps); err != nil {
		return err
	}
	docs, err := documentsFromMaps(maps)
	if err != nil {
		return err
	}
	c.load(docs, c.IndexedFields())
	return nil
}

// MarshalBinary encodes the records and the names of the indexed fields.
func (c *Collection) MarshalBinary() ([]byte, error) {
	docs := make([]metadata.Document, len(c.items))
	for i, e := range c.items {
		docs[i] = e.doc
	}
	payload, err := metadata.MarshalDocuments(docs)
	if err != nil {
		return nil, err
	}
	block, err := codec.CompressBlock(payload, c.opts.compression)
	if err != nil {
		return nil, err
	}

	fields := c.IndexedFields()
	buf := make([]byte, 0, len(binaryMagic)+2+len(block)+len(fields)*8)
	buf = append(buf, binaryMagic[:]...)
	buf = append(buf, binaryVersion, byte(c.opts.compression))
	buf = binary.AppendUvarint(buf, uint64(len(fields)))
	for _, f := range fields {
		buf = binary.AppendUvarint(buf, uint64(len(f)))
		buf = append(buf, f...)
	}
	return append(buf, block...), nil
}

// UnmarshalBinary replaces the records with those encoded by MarshalBinary
// and rebuilds the encoded indexes.
func (c *Collection) UnmarshalBinary(data []byte) error {
	if len(data) < len(binaryMagic)+2 || [4]byte(data[:4]) != binaryMagic {
		return fmt.Errorf("%w: bad magic", ErrInvalidEncoding)
	}
	if data[4] != binaryVersion {
		return fmt.Errorf("%w: unsupported version %d", ErrInvalidEncoding, data[4])
	}
	compression := codec.Compression(data[5])
	data = data[6:]

	count, n := binary.Uvarint(data)
	if n <= 0 || count > uint64(len(data)) {
		return fmt.Errorf("%w: invalid field count", ErrInvalidEncoding)
	}
	data = data[n:]

	fields := make([]string, 0, count)
	for range count {
		fLen, n := binary.Uvarint(data)
		if n <= 0 || uint64(len(data)-n) < fLen {
			return fmt.Errorf("%w: invalid field name", ErrInvalidEncoding)
		}
		data = data[n:]
		fields = append(fields, string(data[:fLen]))
		data = data[fLen:]
	}

	payload, used, err := codec.DecompressBlock(data, compression)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	if used != len(data) {
		return fmt.Errorf("%w: trailing bytes", ErrInvalidEncoding)
	}
	docs, err := metadata.UnmarshalDocuments(payload)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}

	c.load(docs, fields)
	return nil
}

// load swaps in docs, detaching the current records, and builds the indexes
// of fields.
func (c *Collection) load(docs []metadata.Document, fields []string) {
	for _, e := range c.items {
		e.detach()
	}
	c.items = make([]*entry, len(docs))
	for i, doc := range docs {
		c.items[i] = newEntry(doc, i, c)
	}
	c.indexes = make(map[string]*index.Index, len(fields))
	c.Reindex(fields...)
}

func (c *Collection) jsonCodec() codec.Codec {
	if c.opts.codec == nil {
		return codec.Default
	}
	return c.opts.codec
}
