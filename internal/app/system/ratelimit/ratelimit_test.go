package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllow(t *testing.T) {
	l := New(3, time.Minute)

	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d blocked within limit", i+1)
		}
	}
	if l.Allow("k") {
		t.Fatal("attempt over limit allowed")
	}
	if !l.Allow("other") {
		t.Fatal("independent key blocked")
	}

	l.Reset("k")
	if !l.Allow("k") {
		t.Fatal("blocked after reset")
	}
}

func TestLimiterWindowExpiry(t *testing.T) {
	l := New(1, 20*time.Millisecond)

	if !l.Allow("k") {
		t.Fatal("first attempt blocked")
	}
	if l.Allow("k") {
		t.Fatal("second attempt allowed within window")
	}
	time.Sleep(30 * time.Millisecond)
	if !l.Allow("k") {
		t.Fatal("attempt blocked after window expired")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("POST", "/", nil)
	r.RemoteAddr = "10.0.0.1:4242"
	if got := ClientIP(r); got != "10.0.0.1" {
		t.Fatalf("ClientIP = %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.7" {
		t.Fatalf("ClientIP with XFF = %q", got)
	}
}

func TestJoinLimiter(t *testing.T) {
	jl := &JoinLimiter{
		ipLimiter:  New(100, time.Minute),
		uidLimiter: New(2, time.Minute),
	}
	r := httptest.NewRequest("POST", "/leagues/join", nil)
	r.RemoteAddr = "10.0.0.1:4242"

	if !jl.Check(r, "u1") || !jl.Check(r, "u1") {
		t.Fatal("attempts within limit blocked")
	}
	if jl.Check(r, "u1") {
		t.Fatal("attempt over account limit allowed")
	}

	jl.ResetUID("u1")
	if !jl.Check(r, "u1") {
		t.Fatal("blocked after reset")
	}
}
