package util

import (
	"strconv"
	"time"
)

// rippleEpoch is 2000-01-01T00:00:00Z as a unix timestamp. XRP Ledger close
// times count seconds from this epoch, not the unix one.
const rippleEpoch int64 = 946684800

// ParseTime tries RFC3339, RFC3339Nano, and unix seconds. Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
		return time.Unix(ts, 0), true
	}
	return time.Time{}, false
}

// ToRippleTime converts a wall-clock time to seconds since the Ripple epoch.
func ToRippleTime(t time.Time) int64 {
	return t.Unix() - rippleEpoch
}

// FromRippleTime converts seconds since the Ripple epoch back to wall-clock time.
func FromRippleTime(s int64) time.Time {
	return time.Unix(s+rippleEpoch, 0).UTC()
}

// FormatRippleTime renders a close time as RFC3339 for operator output.
func FormatRippleTime(s int64) string {
	return FromRippleTime(s).Format(time.RFC3339)
}
