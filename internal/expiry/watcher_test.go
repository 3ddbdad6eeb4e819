package expiry

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hammamikhairi/fridgeplan/internal/fridge"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
)

func TestWatcherDigest(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	inv := fridge.NewMemory(log)
	notifier := &recordingNotifier{}

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	w := NewWatcher(inv, notifier, log,
		WithDigestHorizon(7*24*time.Hour),
		WithWatcherNow(func() time.Time { return now }),
	)

	addBatch(t, inv, "Milk", 1, "l", 30, now.Add(2*24*time.Hour))
	addBatch(t, inv, "Egg", 6, "piece", 3, now.Add(5*24*time.Hour))
	addBatch(t, inv, "Flour", 1, "kg", 20, now.Add(60*24*time.Hour))

	w.check(context.Background())

	if len(notifier.normal) != 1 {
		t.Fatalf("expected 1 digest, got %v", notifier.normal)
	}
	msg := notifier.normal[0]
	if !strings.Contains(msg, "Milk") || !strings.Contains(msg, "Egg") {
		t.Fatalf("expected digest to name Milk and Egg, got %q", msg)
	}
	if strings.Contains(msg, "Flour") {
		t.Fatalf("expected Flour outside horizon to be omitted, got %q", msg)
	}
	// Milk 1 l * 30 + Egg 6 * 3 = 48.
	if !strings.Contains(msg, "48.00") {
		t.Fatalf("expected value 48.00 in digest, got %q", msg)
	}
}

func TestWatcherQuietWhenNothingExpiring(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	inv := fridge.NewMemory(log)
	notifier := &recordingNotifier{}

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	w := NewWatcher(inv, notifier, log, WithWatcherNow(func() time.Time { return now }))

	addBatch(t, inv, "Flour", 1, "kg", 20, now.Add(60*24*time.Hour))

	w.check(context.Background())

	if len(notifier.normal) != 0 {
		t.Fatalf("expected silence, got %v", notifier.normal)
	}
}

func TestWatcherSkipsAlreadyExpired(t *testing.T) {
	log := logger.New(logger.LevelOff, nil)
	inv := fridge.NewMemory(log)
	notifier := &recordingNotifier{}

	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	w := NewWatcher(inv, notifier, log, WithWatcherNow(func() time.Time { return now }))

	addBatch(t, inv, "Yogurt", 500, "g", 15, now.Add(-24*time.Hour))

	w.check(context.Background())

	// Expired stock is the supervisor's job.
	if len(notifier.normal) != 0 {
		t.Fatalf("expected silence, got %v", notifier.normal)
	}
}

func TestJoinNames(t *testing.T) {
	tests := []struct {
		names []string
		want  string
	}{
		{[]string{"Milk"}, "Milk"},
		{[]string{"Milk", "Egg"}, "Milk and Egg"},
		{[]string{"Milk", "Egg", "Butter"}, "Milk, Egg and Butter"},
	}
	for _, tt := range tests {
		if got := joinNames(tt.names); got != tt.want {
			t.Fatalf("joinNames(%v) = %q, want %q", tt.names, got, tt.want)
		}
	}
}
