package engine

import (
	"fmt"
	"time"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

// CheckInGate describes why a level-up is not available yet.
type CheckInGate struct {
	DaysLeft   int
	Percentage int
	Threshold  int
}

func (g CheckInGate) Error() string {
	switch {
	case g.DaysLeft > 0 && g.Percentage < g.Threshold:
		return fmt.Sprintf("check-in in %d day(s) and progress %d%% is below %d%%", g.DaysLeft, g.Percentage, g.Threshold)
	case g.DaysLeft > 0:
		return fmt.Sprintf("check-in in %d day(s)", g.DaysLeft)
	default:
		return fmt.Sprintf("progress %d%% is below %d%%", g.Percentage, g.Threshold)
	}
}

// checkInGate returns nil when a level-up is allowed.
func checkInGate(snap *storage.Snapshot, cat *catalog.Catalog, now time.Time, r Rules) *CheckInGate {
	if CanLevelUp(snap, cat, now, r) {
		return nil
	}
	return &CheckInGate{
		DaysLeft:   DaysLeftForCheckIn(snap, now, r.CheckInDays),
		Percentage: ProgressPercentage(snap, cat),
		Threshold:  r.LevelUpThreshold,
	}
}
