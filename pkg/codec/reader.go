package codec

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"
)

// Reader is responsible for reading fixed width little-endian fields.
type Reader struct {
	index int
	data  []byte
}

// NewReader returns reader with the data given.
func NewReader(data []byte) *Reader {
	return &Reader{
		data:  data,
		index: 0,
	}
}

func (r *Reader) take(size int) ([]byte, error) {
	if size < 0 || r.index+size > len(r.data) {
		return nil, fmt.Errorf("%w: reading %d bytes at %d of %d", ErrOutOfRange, size, r.index, len(r.data))
	}
	result := r.data[r.index : r.index+size]
	r.index += size
	return result, nil
}

// ReadUInt8 reads a single byte.
func (r *Reader) ReadUInt8() (uint8, error) {
	val, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return val[0], nil
}

// ReadUInt32 reads 4 bytes little-endian.
func (r *Reader) ReadUInt32() (uint32, error) {
	val, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(val), nil
}

// ReadUInt64 reads 8 bytes little-endian.
func (r *Reader) ReadUInt64() (uint64, error) {
	val, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(val), nil
}

// ReadFixedBytes reads size bytes. Returned slice is a copy.
func (r *Reader) ReadFixedBytes(size int) ([]byte, error) {
	val, err := r.take(size)
	if err != nil {
		return nil, err
	}
	result := make([]byte, size)
	copy(result, val)
	return result, nil
}

// ReadString reads size bytes as UTF-8 string.
func (r *Reader) ReadString(size int) (string, error) {
	val, err := r.take(size)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(val) {
		return "", ErrInvalidUTF8
	}
	return string(val), nil
}

// ReadShortString reads a string prefixed by its one byte length.
func (r *Reader) ReadShortString() (string, error) {
	size, err := r.ReadUInt8()
	if err != nil {
		return "", err
	}
	return r.ReadString(int(size))
}

// Skip advances the reader by size bytes.
func (r *Reader) Skip(size int) error {
	_, err := r.take(size)
	return err
}

// Index returns the current position.
func (r *Reader) Index() int {
	return r.index
}

// HasUnreadBytes returns true if data remains.
func (r *Reader) HasUnreadBytes() bool {
	return r.index < len(r.data)
}
