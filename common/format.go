package common

import (
	"time"
)

const (
	SecondsPerDay = 86400

	// TimestampLayout is used for every wall clock value shown to the user.
	TimestampLayout = "2006-01-02 15:04:05"

	NotActivated = "Not Activated"
)

// FormatAddress shortens a hex address to its first 6 and last 4
// characters, e.g. 0x1234...abcd. Inputs too short to shorten are
// returned unchanged.
func FormatAddress(address string) string {
	if len(address) <= 10 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// FormatTimestamp renders a unix timestamp in local time. A zero
// timestamp means the contract never set it.
func FormatTimestamp(timestamp uint64) string {
	if timestamp == 0 {
		return NotActivated
	}
	return time.Unix(int64(timestamp), 0).Local().Format(TimestampLayout)
}

// DaysRemaining returns the number of whole days between now and
// expiration, or 0 when expiration is unset or already passed.
func DaysRemaining(expiration uint64, now time.Time) uint64 {
	if expiration == 0 {
		return 0
	}
	nowUnix := now.Unix()
	if nowUnix < 0 || expiration <= uint64(nowUnix) {
		return 0
	}
	return (expiration - uint64(nowUnix)) / SecondsPerDay
}

// FormatDuration renders a warranty duration given in seconds as days.
func FormatDuration(seconds uint64) string {
	days := seconds / SecondsPerDay
	if days == 1 {
		return "1 day"
	}
	return StringFromUint(days) + " days"
}
