// Package slots converts wall clock time to Ark epoch timestamps.
package slots

import (
	"time"
)

// DefaultEpoch is the Ark mainnet genesis time.
var DefaultEpoch = time.Date(2017, time.March, 21, 13, 0, 0, 0, time.UTC)

type Clock struct {
	epoch    time.Time
	interval uint32
	now      func() time.Time
}

// NewClock returns clock starting at epoch with slot interval in seconds.
func NewClock(epoch time.Time, interval uint32) *Clock {
	if interval == 0 {
		interval = 8
	}
	return &Clock{
		epoch:    epoch,
		interval: interval,
		now:      time.Now,
	}
}

// Epoch returns the beginning of the network time.
func (c *Clock) Epoch() time.Time {
	return c.epoch
}

// GetTime returns the seconds elapsed since epoch. Times before epoch return 0.
func (c *Clock) GetTime() uint32 {
	return c.TimeAt(c.now())
}

func (c *Clock) TimeAt(t time.Time) uint32 {
	if t.Before(c.epoch) {
		return 0
	}
	return uint32(t.Sub(c.epoch) / time.Second)
}

// RealTime returns the wall clock time of the epoch timestamp.
func (c *Clock) RealTime(timestamp uint32) time.Time {
	return c.epoch.Add(time.Duration(timestamp) * time.Second)
}

func (c *Clock) GetSlotNumber(timestamp uint32) int {
	return int(timestamp / c.interval)
}

func (c *Clock) GetSlotTime(slot int) uint32 {
	return uint32(slot) * c.interval
}

var defaultClock = NewClock(DefaultEpoch, 8)

// GetTime returns the current timestamp on the mainnet epoch.
func GetTime() uint32 {
	return defaultClock.GetTime()
}
