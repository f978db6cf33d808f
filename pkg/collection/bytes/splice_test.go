package bytes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplice(t *testing.T) {
	cases := []struct {
		val      []byte
		start    int
		end      int
		data     []byte
		expected []byte
		delta    int
	}{
		{
			val:      []byte{1, 2, 3, 4},
			start:    1,
			end:      1,
			data:     []byte{9, 9},
			expected: []byte{1, 9, 9, 2, 3, 4},
			delta:    2,
		},
		{
			val:      []byte{1, 2, 3, 4},
			start:    1,
			end:      3,
			data:     []byte{},
			expected: []byte{1, 4},
			delta:    -2,
		},
		{
			val:      []byte{1, 2, 3, 4},
			start:    0,
			end:      4,
			data:     []byte{7, 7, 7, 7},
			expected: []byte{7, 7, 7, 7},
			delta:    0,
		},
		{
			val:      []byte{1, 2},
			start:    2,
			end:      2,
			data:     []byte{3},
			expected: []byte{1, 2, 3},
			delta:    1,
		},
	}

	for _, c := range cases {
		original := Copy(c.val)
		result, delta := Splice(c.val, c.start, c.end, c.data)
		assert.Equal(t, c.expected, result)
		assert.Equal(t, c.delta, delta)
		assert.Equal(t, original, c.val)
	}

	assert.Panics(t, func() { Splice([]byte{1}, 0, 2, nil) })
	assert.Panics(t, func() { Splice([]byte{1}, 1, 0, nil) })
}

func TestPadRight(t *testing.T) {
	assert.Equal(t, []byte{1, 0, 0}, PadRight([]byte{1}, 3))
	assert.Equal(t, []byte{1, 2, 3}, PadRight([]byte{1, 2, 3}, 2))
	assert.Equal(t, []byte{0, 0}, PadRight(nil, 2))
}
