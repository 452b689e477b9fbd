package notify

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

type Notification struct {
	Category string
	Title    string
	Body     string
	At       time.Time
}

type Notifier interface {
	Notify(n Notification)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(n Notification)

func (f NotifierFunc) Notify(n Notification) { f(n) }

// MessageSource resolves the text shown for a category. *catalog.Catalog
// satisfies it.
type MessageSource interface {
	Message(category string) (catalog.Message, bool)
}

type Option func(*Scheduler)

func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Scheduler) { s.logger = l }
}

// WithDailyRepeat re-arms each category for the following day after it fires.
func WithDailyRepeat() Option {
	return func(s *Scheduler) { s.repeat = true }
}

type armed struct {
	timer Timer
	at    time.Time
}

// Scheduler owns one one-shot timer per enabled category. It only reads the
// settings it is given and never writes user state.
type Scheduler struct {
	clock    Clock
	logger   *slog.Logger
	messages MessageSource
	notifier Notifier
	repeat   bool

	mu sync.Mutex
	// gen invalidates callbacks of timers that were cancelled but had
	// already started running.
	gen   uint64
	armed map[string]*armed
}

func NewScheduler(messages MessageSource, notifier Notifier, opts ...Option) *Scheduler {
	s := &Scheduler{
		clock:    SystemClock(),
		logger:   slog.Default(),
		messages: messages,
		notifier: notifier,
		armed:    map[string]*armed{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Apply cancels every armed timer and arms one per enabled category at its
// next occurrence. Categories with an unparseable time are skipped.
func (s *Scheduler) Apply(settings map[string]storage.NotificationSetting) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()
	now := s.clock.Now()
	for category, setting := range settings {
		if !setting.Enabled {
			continue
		}
		at, err := NextFire(now, setting.Time)
		if err != nil {
			s.logger.Warn("notification skipped", "category", category, "err", err)
			continue
		}
		s.armLocked(category, at, now)
	}
	s.logger.Debug("notifications armed", "count", len(s.armed))
}

// Stop cancels every armed timer.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

type Armed struct {
	Category string
	At       time.Time
}

// Next lists the armed categories in firing order.
func (s *Scheduler) Next() []Armed {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Armed, 0, len(s.armed))
	for category, a := range s.armed {
		out = append(out, Armed{Category: category, At: a.at})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].At.Equal(out[j].At) {
			return out[i].Category < out[j].Category
		}
		return out[i].At.Before(out[j].At)
	})
	return out
}

func (s *Scheduler) cancelLocked() {
	for category, a := range s.armed {
		a.timer.Stop()
		delete(s.armed, category)
	}
	s.gen++
}

func (s *Scheduler) armLocked(category string, at, now time.Time) {
	gen := s.gen
	a := &armed{at: at}
	a.timer = s.clock.AfterFunc(at.Sub(now), func() { s.fire(category, gen) })
	s.armed[category] = a
}

func (s *Scheduler) fire(category string, gen uint64) {
	s.mu.Lock()
	a, ok := s.armed[category]
	if !ok || gen != s.gen {
		s.mu.Unlock()
		return
	}
	delete(s.armed, category)
	if s.repeat {
		now := s.clock.Now()
		next := a.at.AddDate(0, 0, 1)
		for next.Before(now) {
			next = next.AddDate(0, 0, 1)
		}
		s.armLocked(category, next, now)
	}
	msg, hasMsg := s.messages.Message(category)
	s.mu.Unlock()

	if !hasMsg {
		s.logger.Debug("no message for category", "category", category)
		return
	}
	s.notifier.Notify(Notification{
		Category: category,
		Title:    msg.Title,
		Body:     msg.Body,
		At:       a.at,
	})
}
