package engine

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/unicode/norm"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

const (
	DefaultCheckInDays      = 15
	DefaultLevelUpThreshold = 80
)

// Rules are the tunable numbers of the check-in cycle.
type Rules struct {
	CheckInDays int
	// LevelUpThreshold is the minimum completion percentage for a level-up.
	LevelUpThreshold int
}

func DefaultRules() Rules {
	return Rules{CheckInDays: DefaultCheckInDays, LevelUpThreshold: DefaultLevelUpThreshold}
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithRules(r Rules) Option {
	return func(s *Service) { s.rules = r }
}

// Service owns the user's snapshot. Commands run one at a time; each one
// persists the result, runs the achievement hook and then notifies listeners.
type Service struct {
	db        *sql.DB
	snapshots *storage.SnapshotRepo
	blobs     *storage.BlobRepo
	catalog   *catalog.Catalog
	logger    *slog.Logger
	now       func() time.Time
	rules     Rules

	mu    sync.Mutex
	state *storage.Snapshot
	// sessionDay is the weekday the session started on.
	sessionDay time.Weekday

	lmu          sync.Mutex
	listeners    map[int]Listener
	nextListener int
	// pending holds load-time events until the first Subscribe.
	pending []Event
}

// NewService loads the stored snapshot, falling back to defaults when it is
// corrupt.
func NewService(ctx context.Context, db *sql.DB, cat *catalog.Catalog, opts ...Option) (*Service, error) {
	s := &Service{
		db:        db,
		snapshots: storage.NewSnapshotRepo(db),
		blobs:     storage.NewBlobRepo(db),
		catalog:   cat,
		logger:    slog.Default(),
		now:       time.Now,
		rules:     DefaultRules(),
		listeners: map[int]Listener{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rules.CheckInDays <= 0 {
		s.rules.CheckInDays = DefaultCheckInDays
	}

	snap, err := s.snapshots.Load(ctx, storage.MainSnapshotKey)
	if err != nil {
		if !errors.Is(err, storage.ErrCorruptSnapshot) {
			return nil, err
		}
		s.logger.Warn("stored snapshot is corrupt, starting fresh", "err", err)
	}
	s.state = snap
	s.sessionDay = s.now().Weekday()

	// Pick up achievements added to the catalog since the last run.
	m := &mutation{svc: s, snap: s.state}
	if s.state.IsInitiated && s.evaluateAchievements(m) > 0 {
		s.persist(ctx, m)
	}
	for i := range m.events {
		m.events[i].Command = "load"
	}
	s.pending = m.events
	return s, nil
}

func (s *Service) Catalog() *catalog.Catalog { return s.catalog }
func (s *Service) Rules() Rules              { return s.rules }
func (s *Service) Logger() *slog.Logger      { return s.logger }

// Snapshot returns a copy of the current state.
func (s *Service) Snapshot() *storage.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// mutation is the working copy a command edits. Nothing it holds is visible
// to readers until the command commits.
type mutation struct {
	svc    *Service
	snap   *storage.Snapshot
	events []Event
	// persistFailed keeps a command from reporting the same failure twice.
	persistFailed bool
}

func (m *mutation) emit(e Event) { m.events = append(m.events, e) }

// grant adds an achievement if the catalog defines it and it is not held yet.
func (m *mutation) grant(id string) bool {
	if m.snap.HasAchievement(id) {
		return false
	}
	a, ok := m.svc.catalog.Achievement(id)
	if !ok {
		return false
	}
	m.snap.Achievements = append(m.snap.Achievements, id)
	m.emit(Event{Kind: EventAchievementUnlocked, Achievement: a})
	return true
}

// apply runs fn against a copy of the state. If fn fails or reports no
// change, the state is untouched. Otherwise the copy becomes the state and
// is persisted, the achievement hook runs on the committed state, and the
// queued events go out once the lock is released.
func (s *Service) apply(ctx context.Context, command string, fn func(m *mutation) (changed bool, err error)) error {
	s.mu.Lock()
	m := &mutation{svc: s, snap: s.state.Clone()}
	changed, err := fn(m)
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.state = m.snap
	s.persist(ctx, m)

	if s.state.IsInitiated && s.evaluateAchievements(m) > 0 {
		s.persist(ctx, m)
	}
	m.emit(Event{Kind: EventChanged, Command: command})
	for i := range m.events {
		m.events[i].Command = command
	}
	s.mu.Unlock()

	s.dispatch(m.events)
	return nil
}

func (s *Service) persist(ctx context.Context, m *mutation) {
	err := s.snapshots.Save(ctx, storage.MainSnapshotKey, m.snap)
	if err == nil {
		return
	}
	s.logger.Warn("snapshot not saved", "err", err)
	if !m.persistFailed {
		m.persistFailed = true
		m.emit(Event{Kind: EventPersistWarning, Err: err})
	}
}

// storeContent writes uploaded bytes to the blob table and returns the ref
// the snapshot should hold.
func (s *Service) storeContent(ctx context.Context, data []byte) (string, error) {
	ref, err := s.blobs.Put(ctx, data)
	if err != nil {
		return "", fmt.Errorf("store content: %w", err)
	}
	return ref, nil
}

// Content returns the bytes behind a blob ref, or nil if none are stored.
func (s *Service) Content(ctx context.Context, ref string) ([]byte, error) {
	if ref == "" {
		return nil, nil
	}
	return s.blobs.Get(ctx, ref)
}

func normalizeName(field, value string) (string, error) {
	v := norm.NFC.String(strings.TrimSpace(value))
	if v == "" {
		return "", inputErr(field, "must not be empty")
	}
	return v, nil
}
