package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatAddress(t *testing.T) {
	addrs := []string{
		"0x4B0B29C6aB8A135F0bF9E5Ef471E672c8129fD51",
		"0x0000000000000000000000000000000000000000",
		"0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045",
	}
	for _, a := range addrs {
		got := FormatAddress(a)
		assert.Len(t, got, 13, a)
		assert.Equal(t, a[:6], got[:6])
		assert.Equal(t, a[len(a)-4:], got[len(got)-4:])
	}
	assert.Equal(t, "0x4B0B...fD51", FormatAddress(addrs[0]))
	assert.Equal(t, "", FormatAddress(""))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, NotActivated, FormatTimestamp(0))
	ts := uint64(1700000000)
	assert.Equal(t, time.Unix(1700000000, 0).Local().Format(TimestampLayout), FormatTimestamp(ts))
}

func TestDaysRemaining(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)

	assert.Equal(t, uint64(0), DaysRemaining(0, now))
	assert.Equal(t, uint64(0), DaysRemaining(uint64(now.Unix()), now))
	assert.Equal(t, uint64(0), DaysRemaining(uint64(now.Unix())-1, now))
	assert.Equal(t, uint64(0), DaysRemaining(uint64(now.Unix())+SecondsPerDay-1, now))
	assert.Equal(t, uint64(1), DaysRemaining(uint64(now.Unix())+SecondsPerDay, now))
	assert.Equal(t, uint64(365), DaysRemaining(uint64(now.Unix())+365*SecondsPerDay+10, now))

	var prev uint64
	for d := uint64(0); d < 10; d++ {
		got := DaysRemaining(uint64(now.Unix())+d*SecondsPerDay, now)
		assert.GreaterOrEqual(t, got, prev)
		prev = got
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1 day", FormatDuration(SecondsPerDay))
	assert.Equal(t, "365 days", FormatDuration(365*SecondsPerDay))
}
