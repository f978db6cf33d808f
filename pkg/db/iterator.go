package db

import (
	"github.com/cockroachdb/pebble"

	"github.com/ArkHQ/ark-engine/pkg/collection/bytes"
)

func upperBound(b []byte) []byte {
	end := bytes.Copy(b)
	for i := len(end) - 1; i >= 0; i-- {
		end[i]++
		if end[i] != 0 {
			return end[:i+1]
		}
	}
	return nil // no upper-bound
}

func iterate(iter *pebble.Iterator, limit int, reverse bool) ([]KeyValue, error) {
	data := []KeyValue{}
	valid := iter.First()
	next := iter.Next
	if reverse {
		valid = iter.Last()
		next = iter.Prev
	}
	for ; valid; valid = next() {
		if limit != -1 && len(data) >= limit {
			break
		}
		data = append(data, &keyValue{
			key:   bytes.Copy(iter.Key()),
			value: bytes.Copy(iter.Value()),
		})
	}
	if err := iter.Error(); err != nil {
		_ = iter.Close()
		return nil, err
	}
	if err := iter.Close(); err != nil {
		return nil, err
	}
	return data, nil
}
