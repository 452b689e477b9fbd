package engine

import (
	"context"
	"maps"
	"math"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

// Initiate starts the path from scratch. Any prior progress is discarded.
func (s *Service) Initiate(ctx context.Context) error {
	return s.apply(ctx, "initiate", func(m *mutation) (bool, error) {
		m.snap = storage.DefaultSnapshot()
		m.snap.IsInitiated = true
		m.snap.StartDate = s.now().UnixMilli()
		m.grant(AchievementFirstStep)
		m.emit(Event{Kind: EventSettingsChanged, Settings: maps.Clone(m.snap.NotificationSettings)})
		return true, nil
	})
}

// UpdateTaskProgress records progress for a task of the current level.
// Checkbox and timer tasks take Checked, number tasks take Count. Finishing
// a timer task credits its target to the task's stat; a finished timer cannot
// be unchecked and finishing it again changes nothing.
func (s *Service) UpdateTaskProgress(ctx context.Context, taskID string, p storage.Progress) error {
	return s.apply(ctx, "task", func(m *mutation) (bool, error) {
		level, ok := CurrentLevelData(m.snap, s.catalog)
		if !ok {
			return false, nil
		}
		task, ok := level.Task(taskID)
		if !ok {
			return false, nil
		}
		if err := validateProgress(task, p); err != nil {
			return false, err
		}

		if task.Type == catalog.TaskTimer && m.snap.TaskProgress[taskID].Done() {
			if !p.Done() {
				return false, inputErr("progress", "timer %s is already finished", taskID)
			}
			return false, nil
		}
		m.snap.TaskProgress[taskID] = p
		if task.Type == catalog.TaskTimer && p.Done() && task.StatID != "" {
			m.snap.CumulativeStats[task.StatID] += task.Target
		}
		return true, nil
	})
}

func validateProgress(t catalog.Task, p storage.Progress) error {
	switch t.Type {
	case catalog.TaskNumber:
		if p.Kind() != storage.ProgressCount {
			return inputErr("progress", "task %s takes a number", t.ID)
		}
		v := p.Value()
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return inputErr("progress", "count must be a finite number >= 0")
		}
	default:
		if p.Kind() != storage.ProgressChecked {
			return inputErr("progress", "task %s takes true or false", t.ID)
		}
	}
	return nil
}

// LevelUp advances to the next level when the check-in is due and enough
// tasks are complete. A fully complete check-in grants PERFECT_CHECK_IN even
// on the last level, where the level itself stays put.
func (s *Service) LevelUp(ctx context.Context) (*LevelUpResult, error) {
	res := &LevelUpResult{}
	err := s.apply(ctx, "levelup", func(m *mutation) (bool, error) {
		now := s.now()
		res.LevelBefore = m.snap.CurrentLevel
		res.LevelAfter = m.snap.CurrentLevel
		if gate := checkInGate(m.snap, s.catalog, now, s.rules); gate != nil {
			res.Blocked = gate
			return false, nil
		}
		res.Applied = true

		changed := false
		if ProgressPercentage(m.snap, s.catalog) == 100 {
			res.Perfect = true
			changed = m.grant(AchievementPerfectCheckIn)
		}
		next := m.snap.CurrentLevel + 1
		if _, ok := s.catalog.Level(next); !ok {
			res.Final = true
			return changed, nil
		}
		m.snap.CurrentLevel = next
		m.snap.StartDate = now.UnixMilli()
		m.snap.TaskProgress = map[string]storage.Progress{}
		res.LevelAfter = next
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// ChangeLevel jumps to any catalog level, skipping the check-in rules.
func (s *Service) ChangeLevel(ctx context.Context, level int) error {
	return s.apply(ctx, "level", func(m *mutation) (bool, error) {
		if _, ok := s.catalog.Level(level); !ok {
			return false, nil
		}
		m.snap.CurrentLevel = level
		m.snap.StartDate = s.now().UnixMilli()
		m.snap.TaskProgress = map[string]storage.Progress{}
		return true, nil
	})
}

// LogCumulativeStat adds value to a lifetime stat. Values that are not
// finite and positive are dropped.
func (s *Service) LogCumulativeStat(ctx context.Context, statID string, value float64) error {
	return s.apply(ctx, "stat", func(m *mutation) (bool, error) {
		if statID == "" || math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
			return false, nil
		}
		m.snap.CumulativeStats[statID] += value
		return true, nil
	})
}
