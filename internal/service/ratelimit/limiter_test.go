package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()
	for i := 0; i < 3; i++ {
		if !l.Allow("a", 3, 0) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("a", 3, 0) {
		t.Fatalf("expected bucket to be empty")
	}
}

func TestAllowIsPerKey(t *testing.T) {
	l := New()
	if !l.Allow("a", 1, 0) {
		t.Fatalf("first request for a should be allowed")
	}
	if l.Allow("a", 1, 0) {
		t.Fatalf("a should be exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatalf("b has its own bucket")
	}
}
