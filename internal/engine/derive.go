package engine

import (
	"math"
	"time"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

const dayMillis = 24 * 60 * 60 * 1000

// The functions in this file are pure: they read a snapshot and the catalog
// and never change either.

// TaskComplete reports whether progress completes t. Checkbox and timer tasks
// need a true flag; number tasks need a count at or above the target.
func TaskComplete(t catalog.Task, p storage.Progress) bool {
	switch t.Type {
	case catalog.TaskNumber:
		return p.Kind() == storage.ProgressCount && p.Value() >= t.Target
	default:
		return p.Done()
	}
}

// CurrentLevelData returns the catalog level the user is on, or false once
// they are past the last defined level.
func CurrentLevelData(snap *storage.Snapshot, cat *catalog.Catalog) (*catalog.Level, bool) {
	return cat.Level(snap.CurrentLevel)
}

func AllTasksForLevel(snap *storage.Snapshot, cat *catalog.Catalog) []catalog.Task {
	l, ok := CurrentLevelData(snap, cat)
	if !ok {
		return nil
	}
	return l.Tasks.All()
}

func percent(done, total int) int {
	return int(math.Round(100 * float64(done) / float64(total)))
}

func countComplete(snap *storage.Snapshot, tasks []catalog.Task) int {
	done := 0
	for _, t := range tasks {
		if TaskComplete(t, snap.TaskProgress[t.ID]) {
			done++
		}
	}
	return done
}

// ProgressPercentage is the share of the current level's tasks that are
// complete, rounded. A level without tasks is at 0.
func ProgressPercentage(snap *storage.Snapshot, cat *catalog.Catalog) int {
	tasks := AllTasksForLevel(snap, cat)
	if len(tasks) == 0 {
		return 0
	}
	return percent(countComplete(snap, tasks), len(tasks))
}

// CategoryPercentage is the completion of one category of the current level.
// An empty category counts as 100.
func CategoryPercentage(snap *storage.Snapshot, cat *catalog.Catalog, c catalog.Category) int {
	l, ok := CurrentLevelData(snap, cat)
	if !ok {
		return 100
	}
	tasks := l.Tasks.ByCategory(c)
	if len(tasks) == 0 {
		return 100
	}
	return percent(countComplete(snap, tasks), len(tasks))
}

// DaysLeftForCheckIn counts whole days, rounded up, until the check-in is due.
func DaysLeftForCheckIn(snap *storage.Snapshot, now time.Time, checkInDays int) int {
	elapsed := float64(now.UnixMilli()-snap.StartDate) / dayMillis
	return max(0, int(math.Ceil(float64(checkInDays)-elapsed)))
}

func CanLevelUp(snap *storage.Snapshot, cat *catalog.Catalog, now time.Time, r Rules) bool {
	return DaysLeftForCheckIn(snap, now, r.CheckInDays) == 0 &&
		ProgressPercentage(snap, cat) >= r.LevelUpThreshold
}

func CurrentReadingPlan(snap *storage.Snapshot, cat *catalog.Catalog) (*catalog.ReadingPlan, bool) {
	if snap.ReadingPlanID == "" {
		return nil, false
	}
	return cat.Plan(snap.ReadingPlanID)
}

func CurrentBook(snap *storage.Snapshot, cat *catalog.Catalog) (catalog.Book, bool) {
	plan, ok := CurrentReadingPlan(snap, cat)
	if !ok || snap.CurrentBookIndex >= len(plan.Books) {
		return catalog.Book{}, false
	}
	return plan.Books[snap.CurrentBookIndex], true
}

// BookPercentage is how far into the current plan book the user is.
func BookPercentage(snap *storage.Snapshot, cat *catalog.Catalog) int {
	b, ok := CurrentBook(snap, cat)
	if !ok || b.Pages <= 0 {
		return 0
	}
	return percent(min(snap.CurrentBookPage, b.Pages), b.Pages)
}

// PlanPercentage counts the pages of finished books plus the current page
// against the whole plan.
func PlanPercentage(snap *storage.Snapshot, cat *catalog.Catalog) int {
	plan, ok := CurrentReadingPlan(snap, cat)
	if !ok {
		return 0
	}
	total := plan.TotalPages()
	if total == 0 {
		return 0
	}
	read := 0
	for i, b := range plan.Books {
		if i >= snap.CurrentBookIndex {
			break
		}
		read += b.Pages
	}
	read += snap.CurrentBookPage
	return percent(min(read, total), total)
}

func CustomBookPercentage(b storage.Book) int {
	if b.Pages <= 0 {
		return 0
	}
	return percent(b.CurrentPage, b.Pages)
}

type FinanceSummary struct {
	TotalCurrent float64
	TotalTarget  float64
	Percentage   int
}

// SummarizeFinances totals every goal. With no goals the percentage is 0.
func SummarizeFinances(goals []storage.FinancialGoal) FinanceSummary {
	var sum FinanceSummary
	for _, g := range goals {
		sum.TotalCurrent += g.Current
		sum.TotalTarget += g.Target
	}
	if sum.TotalTarget > 0 {
		sum.Percentage = int(math.Round(100 * sum.TotalCurrent / sum.TotalTarget))
	}
	return sum
}

func GoalPercentage(g storage.FinancialGoal) int {
	if g.Target <= 0 {
		return 0
	}
	return int(math.Round(100 * g.Current / g.Target))
}
