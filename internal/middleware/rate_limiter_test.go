package middleware

import "testing"

func TestRateLimiterBurstPerIP(t *testing.T) {
	rl := NewRateLimiter(10, 3)
	defer rl.Stop()

	// The burst is spendable immediately, then the bucket is empty
	for i := 0; i < 3; i++ {
		if !rl.getVisitor("10.0.0.1").Allow() {
			t.Fatalf("request %d within burst was denied", i+1)
		}
	}
	if rl.getVisitor("10.0.0.1").Allow() {
		t.Error("request beyond burst was allowed")
	}

	// Buckets are per IP: another client is unaffected
	if !rl.getVisitor("10.0.0.2").Allow() {
		t.Error("fresh IP was denied")
	}
}

func TestRateLimiterStop(t *testing.T) {
	rl := NewRateLimiter(10, 1)
	rl.Stop()

	// The limiter still answers after Stop; only the idle sweep ends
	if !rl.getVisitor("10.0.0.1").Allow() {
		t.Error("request denied after Stop")
	}
}
