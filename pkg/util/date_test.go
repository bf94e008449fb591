package util

import (
	"strconv"
	"testing"
	"time"
)

func TestParseTimeRFC3339(t *testing.T) {
	s := "2020-01-01T00:00:00Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestParseTimeUnix(t *testing.T) {
	ts := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	got, ok := ParseTime(strconv.FormatInt(ts, 10))
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.Unix() != ts {
		t.Fatalf("unexpected unix %v", got.Unix())
	}
}

func TestRippleTimeRoundTrip(t *testing.T) {
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	rt := ToRippleTime(at)
	// 2020-01-01 is 631152000 seconds after the Ripple epoch.
	if rt != 631152000 {
		t.Fatalf("unexpected ripple time %d", rt)
	}
	if back := FromRippleTime(rt); !back.Equal(at) {
		t.Fatalf("round trip mismatch: %v != %v", back, at)
	}
}

func TestFormatRippleTime(t *testing.T) {
	if got := FormatRippleTime(0); got != "2000-01-01T00:00:00Z" {
		t.Fatalf("unexpected format %s", got)
	}
}
