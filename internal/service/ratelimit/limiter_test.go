package ratelimit

import "testing"

func TestAllowConsumesTokens(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		if !l.Allow("client-a", 3, 0) {
			t.Fatalf("request %d should be allowed", i)
		}
	}
	if l.Allow("client-a", 3, 0) {
		t.Fatal("bucket exhausted, request should be denied")
	}
}

func TestAllowIsolatesKeys(t *testing.T) {
	l := New()

	if !l.Allow("client-a", 1, 0) {
		t.Fatal("first request for client-a should be allowed")
	}
	if l.Allow("client-a", 1, 0) {
		t.Fatal("client-a should be exhausted")
	}
	if !l.Allow("client-b", 1, 0) {
		t.Fatal("client-b has its own bucket")
	}
}
