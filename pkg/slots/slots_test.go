package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestClockTimeAt(t *testing.T) {
	clock := NewClock(DefaultEpoch, 8)

	assert.Equal(t, uint32(0), clock.TimeAt(DefaultEpoch))
	assert.Equal(t, uint32(0), clock.TimeAt(DefaultEpoch.Add(-time.Hour)))
	assert.Equal(t, uint32(3600), clock.TimeAt(DefaultEpoch.Add(time.Hour+500*time.Millisecond)))
	assert.Equal(t, DefaultEpoch.Add(90*time.Second), clock.RealTime(90))
}

func TestClockGetTime(t *testing.T) {
	clock := NewClock(DefaultEpoch, 0)
	clock.now = func() time.Time {
		return time.Date(2017, time.March, 22, 13, 0, 0, 0, time.UTC)
	}
	assert.Equal(t, uint32(86400), clock.GetTime())
	assert.Equal(t, DefaultEpoch, clock.Epoch())
	assert.Greater(t, GetTime(), uint32(0))
}

func TestClockSlots(t *testing.T) {
	clock := NewClock(DefaultEpoch, 8)

	cases := []struct {
		timestamp uint32
		slot      int
	}{
		{timestamp: 0, slot: 0},
		{timestamp: 7, slot: 0},
		{timestamp: 8, slot: 1},
		{timestamp: 81, slot: 10},
	}
	for _, c := range cases {
		assert.Equal(t, c.slot, clock.GetSlotNumber(c.timestamp))
	}
	assert.Equal(t, uint32(80), clock.GetSlotTime(10))
}
