package ratelimit

import (
	"sync"
	"testing"
	"time"
)

// mockClock is a controllable clock for testing.
type mockClock struct {
	mu  sync.Mutex
	now time.Time
}

func newMockClock() *mockClock {
	return &mockClock{now: time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func (c *mockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *mockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestCheck_LockoutAfterMaxAttempts(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{
		MaxAttempts:  3,
		Lockout:      5 * time.Minute,
		MaxIPPerHour: 100,
		Clock:        clock,
	})
	defer limiter.Close()

	email := "ana@clube.com"
	ip := "203.0.113.9"

	for i := 0; i < 2; i++ {
		if result := limiter.Check(email, ip); !result.Allowed {
			t.Fatalf("attempt %d should be allowed, got %s", i+1, result.Reason)
		}
		if limiter.RecordFailure(email, ip) {
			t.Fatalf("attempt %d should not lock out", i+1)
		}
	}

	if !limiter.RecordFailure(email, ip) {
		t.Fatal("third failure should start the lockout")
	}

	clock.Advance(2 * time.Minute)
	result := limiter.Check(email, ip)
	if result.Allowed {
		t.Fatal("expected lockout")
	}
	if result.Reason != "lockout" {
		t.Fatalf("expected reason lockout, got %q", result.Reason)
	}
	if result.RetryAfter != 3*time.Minute {
		t.Fatalf("expected RetryAfter 3m, got %v", result.RetryAfter)
	}

	clock.Advance(3 * time.Minute)
	if result := limiter.Check(email, ip); !result.Allowed {
		t.Fatalf("lockout should have expired, got %s", result.Reason)
	}

	if limiter.RecordFailure(email, ip) {
		t.Fatal("first failure after an expired lockout should start a fresh count")
	}
}

func TestCheck_EmailNormalization(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{MaxAttempts: 1, Lockout: time.Minute, MaxIPPerHour: 100, Clock: clock})
	defer limiter.Close()

	limiter.RecordFailure("  Ana@Clube.com ", "203.0.113.9")

	if result := limiter.Check("ana@clube.com", "198.51.100.1"); result.Allowed {
		t.Fatal("case and whitespace variants must share a counter")
	}
}

func TestReset(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{MaxAttempts: 2, Lockout: time.Minute, MaxIPPerHour: 100, Clock: clock})
	defer limiter.Close()

	email := "bruno@clube.com"
	limiter.RecordFailure(email, "203.0.113.9")
	limiter.Reset(email)

	if limiter.RecordFailure(email, "203.0.113.9") {
		t.Fatal("counter should restart after Reset")
	}
	if result := limiter.Check(email, "203.0.113.9"); !result.Allowed {
		t.Fatalf("expected allowed after reset, got %s", result.Reason)
	}
}

func TestCheck_IPLimit(t *testing.T) {
	clock := newMockClock()
	limiter := New(&Config{MaxAttempts: 100, Lockout: time.Minute, MaxIPPerHour: 3, Clock: clock})
	defer limiter.Close()

	ip := "203.0.113.9"
	limiter.RecordFailure("a@clube.com", ip)
	limiter.RecordFailure("b@clube.com", ip)
	limiter.RecordFailure("c@clube.com", ip)

	result := limiter.Check("d@clube.com", ip)
	if result.Allowed {
		t.Fatal("expected IP limit to block")
	}
	if result.Reason != "ip_hourly_limit" {
		t.Fatalf("expected ip_hourly_limit, got %q", result.Reason)
	}

	clock.Advance(time.Hour)
	if result := limiter.Check("d@clube.com", ip); !result.Allowed {
		t.Fatalf("IP window should have rolled over, got %s", result.Reason)
	}
}

func TestCheckDoesNotConsumeQuota(t *testing.T) {
	limiter := New(&Config{MaxAttempts: 1, Lockout: time.Minute, MaxIPPerHour: 1, Clock: newMockClock()})
	defer limiter.Close()

	for i := 0; i < 10; i++ {
		if result := limiter.Check("ana@clube.com", "203.0.113.9"); !result.Allowed {
			t.Fatalf("check %d should be allowed without a recorded failure", i+1)
		}
	}
}

func TestSanitizeEmail(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"joao.silva@clube.com", "jo***@clube.com"},
		{"JOAO.SILVA@CLUBE.COM", "jo***@clube.com"},
		{"ab@clube.com", "***@clube.com"},
		{"sem-arroba", "se***"},
		{"x", "***"},
	}

	for _, tt := range tests {
		if got := SanitizeEmail(tt.input); got != tt.expected {
			t.Errorf("SanitizeEmail(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestNew_NilConfig(t *testing.T) {
	limiter := New(nil)
	defer limiter.Close()

	if limiter.config.MaxAttempts != DefaultConfig().MaxAttempts {
		t.Fatalf("expected default config, got %+v", limiter.config)
	}
}

func TestLimiter_Close(t *testing.T) {
	limiter := New(nil)
	limiter.Check("ana@clube.com", "203.0.113.9")

	done := make(chan struct{})
	go func() {
		limiter.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close() should not hang")
	}
}

func TestConcurrentAccess(t *testing.T) {
	limiter := New(&Config{MaxAttempts: 1000, Lockout: time.Minute, MaxIPPerHour: 1000, Clock: newMockClock()})
	defer limiter.Close()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if limiter.Check("ana@clube.com", "203.0.113.9").Allowed {
					limiter.RecordFailure("ana@clube.com", "203.0.113.9")
				}
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				limiter.Reset("ana@clube.com")
			}
		}()
	}
	wg.Wait()
}
