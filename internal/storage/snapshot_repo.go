package storage

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"
)

const MainSnapshotKey = "main"

// ErrCorruptSnapshot is returned alongside a default snapshot when the stored
// data cannot be parsed at all.
var ErrCorruptSnapshot = errors.New("corrupt snapshot")

type SnapshotRepo struct {
	db *sql.DB
}

func NewSnapshotRepo(db *sql.DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Load returns the stored snapshot for key, or a default one if nothing is
// stored yet. A corrupt row yields the default snapshot and an error wrapping
// ErrCorruptSnapshot.
func (r *SnapshotRepo) Load(ctx context.Context, key string) (*Snapshot, error) {
	row := r.db.QueryRowContext(ctx, `SELECT data FROM snapshots WHERE key = ?`, key)
	var data string
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return DefaultSnapshot(), nil
		}
		return nil, fmt.Errorf("snapshot load: %w", err)
	}
	return Decode([]byte(data))
}

// Save writes the snapshot under key and drops blobs it no longer references,
// in one transaction.
func (r *SnapshotRepo) Save(ctx context.Context, key string, s *Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	return WithTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO snapshots (key, data, updated_at) VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
		`, key, string(data), time.Now().UTC())
		if err != nil {
			return fmt.Errorf("snapshot save: %w", err)
		}
		return pruneBlobs(ctx, tx, s.BlobRefs())
	})
}

func Encode(s *Snapshot) ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("snapshot encode: %w", err)
	}
	return data, nil
}

// Decode parses stored JSON field by field. Missing or ill-typed fields keep
// their defaults and unknown fields, such as the legacy journal, are dropped.
func Decode(data []byte) (*Snapshot, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return DefaultSnapshot(), fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}

	s := DefaultSnapshot()
	decodeField(fields, "isInitiated", &s.IsInitiated)
	decodeField(fields, "startDate", &s.StartDate)
	decodeField(fields, "currentLevel", &s.CurrentLevel)
	decodeField(fields, "readingPlanId", &s.ReadingPlanID)
	decodeField(fields, "currentBookIndex", &s.CurrentBookIndex)
	decodeField(fields, "currentBookPage", &s.CurrentBookPage)
	decodeField(fields, "achievements", &s.Achievements)
	decodeField(fields, "wimHofVideo", &s.WimHofVideo)
	decodeField(fields, "customBooks", &s.CustomBooks)
	decodeField(fields, "notificationSettings", &s.NotificationSettings)
	decodeField(fields, "planBookContent", &s.PlanBookContent)
	decodeField(fields, "cumulativeStats", &s.CumulativeStats)
	decodeField(fields, "financialGoals", &s.FinancialGoals)

	// Entries are decoded one at a time so a single bad value doesn't cost
	// the whole map.
	var progress map[string]json.RawMessage
	decodeField(fields, "taskProgress", &progress)
	for id, raw := range progress {
		var p Progress
		if err := json.Unmarshal(raw, &p); err != nil {
			continue
		}
		s.TaskProgress[id] = p
	}

	s.normalize()
	return s, nil
}

func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok || bytes.Equal(raw, []byte("null")) {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

// normalize restores the invariants a hand-edited or older snapshot may break.
func (s *Snapshot) normalize() {
	if s.CurrentLevel < 1 {
		s.CurrentLevel = 1
	}
	if s.StartDate < 0 {
		s.StartDate = 0
	}
	s.CurrentBookIndex = max(s.CurrentBookIndex, 0)
	s.CurrentBookPage = max(s.CurrentBookPage, 0)

	if s.TaskProgress == nil {
		s.TaskProgress = map[string]Progress{}
	}
	for id, p := range s.TaskProgress {
		if p.Kind() == ProgressUnset {
			delete(s.TaskProgress, id)
		}
	}

	seen := make(map[string]bool, len(s.Achievements))
	achievements := make([]string, 0, len(s.Achievements))
	for _, id := range s.Achievements {
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		achievements = append(achievements, id)
	}
	s.Achievements = achievements

	if s.CustomBooks == nil {
		s.CustomBooks = []Book{}
	}
	for i := range s.CustomBooks {
		b := &s.CustomBooks[i]
		b.Pages = max(b.Pages, 0)
		b.CurrentPage = min(max(b.CurrentPage, 0), b.Pages)
	}

	if s.NotificationSettings == nil {
		s.NotificationSettings = map[string]NotificationSetting{}
	}
	for category, def := range DefaultNotificationSettings() {
		if _, ok := s.NotificationSettings[category]; !ok {
			s.NotificationSettings[category] = def
		}
	}

	if s.PlanBookContent == nil {
		s.PlanBookContent = map[string]string{}
	}

	if s.CumulativeStats == nil {
		s.CumulativeStats = map[string]float64{}
	}
	for id, v := range s.CumulativeStats {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			delete(s.CumulativeStats, id)
		}
	}

	if s.FinancialGoals == nil {
		s.FinancialGoals = []FinancialGoal{}
	}
	for i := range s.FinancialGoals {
		g := &s.FinancialGoals[i]
		g.Current = ClampGoal(g.Current, g.Target)
	}
}

// ClampGoal bounds a goal's current amount to [0, target]. NaN counts as 0.
func ClampGoal(current, target float64) float64 {
	if math.IsNaN(current) || current < 0 || target <= 0 {
		return 0
	}
	return math.Min(current, target)
}
