package resilience

import (
	"testing"
	"time"
)

func TestBreakerOpensOnFailureRatio(t *testing.T) {
	b := NewBreaker(4, 0.5, time.Minute)
	for i := 0; i < 2; i++ {
		b.Report(true)
	}
	for i := 0; i < 2; i++ {
		b.Report(false)
	}
	if b.Allow() {
		t.Fatal("expected breaker open after 50% failures")
	}
}

func TestBreakerHalfOpenRecovers(t *testing.T) {
	b := NewBreaker(1, 0.5, 10*time.Millisecond)
	b.Report(false)
	if b.Allow() {
		t.Fatal("expected open breaker to refuse")
	}
	time.Sleep(15 * time.Millisecond)
	if !b.Allow() {
		t.Fatal("expected half-open probe to be permitted")
	}
	b.Report(true)
	if !b.Allow() {
		t.Fatal("expected breaker closed after successful probe")
	}
}

func TestBackoffGrowsExponentially(t *testing.T) {
	base := 100 * time.Millisecond
	if got := Backoff(base, 1, 0); got != base {
		t.Fatalf("attempt 1: expected %v, got %v", base, got)
	}
	if got := Backoff(base, 3, 0); got != 4*base {
		t.Fatalf("attempt 3: expected %v, got %v", 4*base, got)
	}
}
