package stats

import (
	"testing"
	"time"
)

func TestCounterKeys(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	if got := dailyKey(now); got != "stats:daily:2026-08-28" {
		t.Errorf("dailyKey = %q", got)
	}
	if got := monthlyKey(now); got != "stats:monthly:2026-08" {
		t.Errorf("monthlyKey = %q", got)
	}
}

func TestCounterKeys_ZeroPadding(t *testing.T) {
	now := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	if got := dailyKey(now); got != "stats:daily:2026-01-05" {
		t.Errorf("dailyKey = %q, want zero-padded month and day", got)
	}
}
