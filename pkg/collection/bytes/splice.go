package bytes

// Splice replaces val[start:end] with data and returns the new slice with the
// signed length difference (len(data) - (end - start)).
// Bytes after end are shifted by the returned delta. It panics if the range is invalid.
func Splice(val []byte, start, end int, data []byte) ([]byte, int) {
	if start < 0 || end < start || end > len(val) {
		panic("bytes: splice range out of bounds")
	}
	delta := len(data) - (end - start)
	result := make([]byte, 0, len(val)+delta)
	result = append(result, val[:start]...)
	result = append(result, data...)
	result = append(result, val[end:]...)
	return result, delta
}

// PadRight returns val extended with zero bytes up to size.
// val is returned as is when it is already longer than size.
func PadRight(val []byte, size int) []byte {
	if len(val) >= size {
		return val
	}
	return append(val, make([]byte, size-len(val))...)
}
