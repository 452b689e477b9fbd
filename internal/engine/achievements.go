package engine

import (
	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

const (
	AchievementFirstStep      = "FIRST_STEP"
	AchievementPerfectCheckIn = "PERFECT_CHECK_IN"
)

// evaluateAchievements is the post-commit hook. It grants every stat and
// level achievement the committed state qualifies for and returns how many
// were new.
func (s *Service) evaluateAchievements(m *mutation) int {
	granted := 0
	for _, a := range s.catalog.Achievements {
		if qualifies(a, m.snap) && m.grant(a.ID) {
			s.logger.Info("achievement unlocked", "id", a.ID)
			granted++
		}
	}
	return granted
}

func qualifies(a catalog.Achievement, snap *storage.Snapshot) bool {
	switch {
	case a.IsStatBased():
		return snap.CumulativeStats[a.StatID] >= a.Threshold
	case a.IsLevelBased():
		return snap.CurrentLevel >= a.Level
	default:
		// Granted only by the command that earns it.
		return false
	}
}

// Achievements lists every catalog achievement in catalog order with its
// earned flag.
func (s *Service) Achievements() []AchievementStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return achievementStatuses(s.state, s.catalog)
}

func achievementStatuses(snap *storage.Snapshot, cat *catalog.Catalog) []AchievementStatus {
	out := make([]AchievementStatus, 0, len(cat.Achievements))
	for _, a := range cat.Achievements {
		st := AchievementStatus{Achievement: a, Earned: snap.HasAchievement(a.ID)}
		if a.IsStatBased() {
			st.Current = snap.CumulativeStats[a.StatID]
		}
		out = append(out, st)
	}
	return out
}
