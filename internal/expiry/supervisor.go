// Package expiry implements the background monitor that keeps an eye on
// fridge stock: a warning when a batch enters its last day, escalating
// reminders once it has actually expired, and a slower watcher cycle
// that prints a fridge digest.
package expiry

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/hammamikhairi/fridgeplan/internal/domain"
	"github.com/hammamikhairi/fridgeplan/internal/logger"
)

// Option configures the supervisor.
type Option func(*Supervisor)

// WithTickInterval sets how often the supervisor sweeps the fridge.
func WithTickInterval(d time.Duration) Option {
	return func(s *Supervisor) {
		s.tickInterval = d
	}
}

// WithSoonWindow sets how far ahead of expiry the "expiring soon"
// warning fires.
func WithSoonWindow(d time.Duration) Option {
	return func(s *Supervisor) {
		s.soonWindow = d
	}
}

// WithNotifyCooldown sets the minimum time between repeated reminders
// for the same expired batch.
func WithNotifyCooldown(d time.Duration) Option {
	return func(s *Supervisor) {
		s.notifyCooldown = d
	}
}

// WithMaxEscalation sets the escalation level after which the
// supervisor stops nagging about an expired batch.
func WithMaxEscalation(level int) Option {
	return func(s *Supervisor) {
		s.maxEscalation = level
	}
}

// WithWatcher enables the slower digest watcher with the given options.
func WithWatcher(opts ...WatcherOption) Option {
	return func(s *Supervisor) {
		s.watcherEnabled = true
		s.watcherOpts = opts
	}
}

// WithNow overrides the supervisor's clock. Used by tests.
func WithNow(now func() time.Time) Option {
	return func(s *Supervisor) {
		s.now = now
	}
}

// nagState tracks reminders already sent for one expired batch.
type nagState struct {
	lastNotified time.Time
	level        int
}

// Supervisor runs in the background, reading the fridge through the
// Inventory port and talking through the Notifier port. It never
// mutates stock.
type Supervisor struct {
	inv            domain.Inventory
	notifier       domain.Notifier
	log            *logger.Logger
	now            func() time.Time
	tickInterval   time.Duration
	soonWindow     time.Duration
	notifyCooldown time.Duration
	maxEscalation  int

	watcherEnabled bool
	watcherOpts    []WatcherOption
	watcher        *Watcher

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	warned  map[string]bool     // batch ID -> soon-warning sent
	nagged  map[string]nagState // batch ID -> expired-reminder state
}

// New creates an expiry supervisor with the given dependencies and options.
func New(inv domain.Inventory, notifier domain.Notifier, log *logger.Logger, opts ...Option) *Supervisor {
	s := &Supervisor{
		inv:            inv,
		notifier:       notifier,
		log:            log,
		now:            time.Now,
		tickInterval:   30 * time.Second,
		soonWindow:     24 * time.Hour,
		notifyCooldown: 10 * time.Minute,
		maxEscalation:  3,
		warned:         make(map[string]bool),
		nagged:         make(map[string]nagState),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins the background loop. Non-blocking.
func (s *Supervisor) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("expiry supervisor already running")
		return
	}

	childCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	go s.loop(childCtx)

	if s.watcherEnabled {
		s.watcher = NewWatcher(s.inv, s.notifier, s.log, s.watcherOpts...)
		go s.watcher.Run(childCtx)
	}

	s.log.Info("expiry supervisor started (tick=%s, soon=%s)", s.tickInterval, s.soonWindow)
}

// Stop gracefully shuts down the supervisor.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.log.Info("expiry supervisor stopped")
}

func (s *Supervisor) loop(ctx context.Context) {
	ticker := time.NewTicker(s.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep runs one cycle: warn about stock entering the soon window,
// escalate about expired stock, forget batches that left the fridge.
func (s *Supervisor) sweep(ctx context.Context) {
	now := s.now()

	batches, err := s.inv.FindExpiringBefore(ctx, now.Add(s.soonWindow))
	if err != nil {
		s.log.Error("supervisor: reading fridge: %v", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]bool, len(batches))
	for _, b := range batches {
		seen[b.ID] = true
		if b.IsExpired(now) {
			s.nag(ctx, b, now)
			continue
		}
		if !s.warned[b.ID] {
			s.warned[b.ID] = true
			msg := fmt.Sprintf("[Fridge] %s (%g %s) expires %s.",
				b.Name, b.Quantity, b.Unit.Symbol, untilPhrase(b.Expiry.Sub(now)))
			if err := s.notifier.Notify(ctx, msg); err != nil {
				s.log.Error("supervisor: soon-warning notify: %v", err)
			}
		}
	}

	// Forget batches that were used up or removed.
	for id := range s.warned {
		if !seen[id] {
			delete(s.warned, id)
		}
	}
	for id := range s.nagged {
		if !seen[id] {
			delete(s.nagged, id)
		}
	}
}

// nag sends an escalating reminder for an expired batch, respecting the
// cooldown and the max escalation level.
func (s *Supervisor) nag(ctx context.Context, b domain.Batch, now time.Time) {
	state := s.nagged[b.ID]
	if state.level > s.maxEscalation {
		return // Stop nagging.
	}
	if !state.lastNotified.IsZero() && now.Sub(state.lastNotified) < s.notifyCooldown {
		return // Cooldown active.
	}

	msg := s.escalationMessage(b, state.level, now)
	if err := s.notifier.NotifyUrgent(ctx, msg); err != nil {
		s.log.Error("supervisor: expired notify: %v", err)
	}
	state.lastNotified = now
	state.level++
	s.nagged[b.ID] = state
	s.log.Debug("nagged about %s (level %d)", b.Name, state.level)
}

// escalationMessage returns a message based on the escalation level.
func (s *Supervisor) escalationMessage(b domain.Batch, level int, now time.Time) string {
	age := now.Sub(b.Expiry).Round(time.Hour)
	switch level {
	case 0:
		return fmt.Sprintf("[Fridge] %s expired %s ago.", b.Name, age)
	case 1:
		return fmt.Sprintf("[Fridge] %s is still in there -- deal with it.", b.Name)
	case 2:
		return fmt.Sprintf("[Fridge] %s. Now.", b.Name)
	default:
		return fmt.Sprintf("[Fridge] %s.", b.Name)
	}
}

// untilPhrase renders a duration until expiry as a spoken phrase.
func untilPhrase(d time.Duration) string {
	if d <= 0 {
		return "now"
	}
	d = d.Round(time.Minute)
	h := int(d.Hours())
	if h >= 48 {
		return fmt.Sprintf("in %d days", h/24)
	}
	if h >= 1 {
		return fmt.Sprintf("in %d hours", h)
	}
	m := int(d.Minutes())
	if m <= 1 {
		return "in 1 minute"
	}
	return fmt.Sprintf("in %d minutes", m)
}
