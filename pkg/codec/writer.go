package codec

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Writer is responsible for writing fixed width little-endian fields.
type Writer struct {
	result []byte
}

// NewWriter returns a new instances of a writer.
func NewWriter() *Writer {
	return &Writer{
		result: []byte{},
	}
}

// WriteUInt8 writes a single byte.
func (w *Writer) WriteUInt8(data uint8) {
	w.result = append(w.result, data)
}

// WriteUInt32 writes 4 bytes little-endian.
func (w *Writer) WriteUInt32(data uint32) {
	w.result = binary.LittleEndian.AppendUint32(w.result, data)
}

// WriteUInt64 writes 8 bytes little-endian.
func (w *Writer) WriteUInt64(data uint64) {
	w.result = binary.LittleEndian.AppendUint64(w.result, data)
}

// WriteBytes writes data as is.
func (w *Writer) WriteBytes(data []byte) {
	w.result = append(w.result, data...)
}

// WriteFixedBytes writes data right padded with zero up to size.
func (w *Writer) WriteFixedBytes(data []byte, size int) error {
	if len(data) > size {
		return fmt.Errorf("%w: %d bytes for field of %d", ErrTooLong, len(data), size)
	}
	w.result = append(w.result, data...)
	w.result = append(w.result, make([]byte, size-len(data))...)
	return nil
}

// WriteString writes NFC normalized UTF-8 bytes of the string without prefix.
func (w *Writer) WriteString(data string) error {
	if !utf8.ValidString(data) {
		return ErrInvalidUTF8
	}
	w.result = append(w.result, norm.NFC.String(data)...)
	return nil
}

// WriteShortString writes NFC normalized string prefixed by its byte length in one byte.
func (w *Writer) WriteShortString(data string) error {
	if !utf8.ValidString(data) {
		return ErrInvalidUTF8
	}
	normalized := norm.NFC.String(data)
	if len(normalized) > math.MaxUint8 {
		return fmt.Errorf("%w: string of %d bytes", ErrTooLong, len(normalized))
	}
	w.result = append(w.result, uint8(len(normalized)))
	w.result = append(w.result, normalized...)
	return nil
}

// Size returns current length of the result.
func (w *Writer) Size() int {
	return len(w.result)
}

// Result returns the written bytes.
func (w *Writer) Result() []byte {
	return w.result
}

// NormalizeString returns the NFC form used by the writer.
func NormalizeString(data string) string {
	return norm.NFC.String(data)
}
