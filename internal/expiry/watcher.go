package expiry

import (
	"context"
	"fmt"
	"time"

	"github.com/hammamikhairi/fridgeplan/internal/domain"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
)

// WatcherOption configures the watcher.
type WatcherOption func(*Watcher)

// WithWatchInterval sets how often the watcher prints its digest.
func WithWatchInterval(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.interval = d
	}
}

// WithDigestHorizon sets how far ahead the digest looks for expiring
// stock.
func WithDigestHorizon(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.horizon = d
	}
}

// WithWatcherNow overrides the watcher's clock. Used by tests.
func WithWatcherNow(now func() time.Time) WatcherOption {
	return func(w *Watcher) {
		w.now = now
	}
}

// Watcher periodically summarizes the fridge — what's expiring within
// the horizon and what it's worth. Runs on a slower cycle than the
// supervisor (default: 10 minutes) and stays quiet when there is
// nothing worth saying.
type Watcher struct {
	inv      domain.Inventory
	notifier domain.Notifier
	log      *logger.Logger
	interval time.Duration
	horizon  time.Duration
	now      func() time.Time
}

// NewWatcher creates a watcher with the given dependencies.
func NewWatcher(inv domain.Inventory, notifier domain.Notifier, log *logger.Logger, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		inv:      inv,
		notifier: notifier,
		log:      log,
		interval: 10 * time.Minute,
		horizon:  7 * 24 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run starts the watcher loop. Blocks until ctx is cancelled. Intended
// to be called as a goroutine.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.log.Info("fridge watcher started (interval=%s, horizon=%s)", w.interval, w.horizon)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("fridge watcher stopped")
			return
		case <-ticker.C:
			w.check(ctx)
		}
	}
}

// check runs one digest cycle.
func (w *Watcher) check(ctx context.Context) {
	now := w.now()
	cutoff := now.Add(w.horizon)

	expiring, err := w.inv.FindExpiringBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("watcher: reading fridge: %v", err)
		return
	}
	value, err := w.inv.ValueExpiringBefore(ctx, cutoff)
	if err != nil {
		w.log.Error("watcher: valuing fridge: %v", err)
		return
	}

	msg := w.buildMessage(expiring, value, now)
	if msg == "" {
		w.log.Debug("watcher: nothing to report")
		return
	}
	if err := w.notifier.Notify(ctx, msg); err != nil {
		w.log.Error("watcher: notify: %v", err)
	}
}

// buildMessage decides what the digest says. An empty string means stay
// quiet.
func (w *Watcher) buildMessage(expiring []domain.Batch, value float64, now time.Time) string {
	// Only still-usable stock makes the digest; expired batches are the
	// supervisor's problem.
	var names []string
	for _, b := range expiring {
		if !b.IsExpired(now) {
			names = append(names, b.Name)
		}
	}
	if len(names) == 0 {
		return ""
	}
	return fmt.Sprintf("[Watcher] %d item(s) worth %.2f expiring within %s: %s.",
		len(names), value, horizonPhrase(w.horizon), joinNames(names))
}

// joinNames joins names into "a, b and c".
func joinNames(names []string) string {
	if len(names) == 1 {
		return names[0]
	}
	result := ""
	for i, n := range names {
		switch {
		case i == len(names)-1:
			result += " and " + n
		case i > 0:
			result += ", " + n
		default:
			result = n
		}
	}
	return result
}

func horizonPhrase(d time.Duration) string {
	days := int(d.Hours()) / 24
	switch {
	case days >= 2:
		return fmt.Sprintf("%d days", days)
	case days == 1:
		return "a day"
	default:
		return d.String()
	}
}
