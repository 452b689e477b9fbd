package engine

import (
	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

type LevelUpResult struct {
	Applied     bool
	LevelBefore int
	LevelAfter  int
	// Perfect is set when every task was complete at check-in.
	Perfect bool
	// Final is set when there is no next level to advance to.
	Final bool
	// Blocked explains why nothing happened; nil when Applied.
	Blocked *CheckInGate
}

type CreateResult struct {
	ID string
}

type TaskStatus struct {
	Task     catalog.Task
	Category catalog.Category
	Progress storage.Progress
	Complete bool
}

type CategorySummary struct {
	Category   catalog.Category
	Done       int
	Total      int
	Percentage int
}

type AchievementStatus struct {
	catalog.Achievement
	Earned bool
	// Current is the tracked stat value for stat achievements.
	Current float64
}

// Dashboard gathers everything a renderer shows on its main screen.
type Dashboard struct {
	Initiated   bool
	LevelNumber int
	MaxLevel    int
	// Level is nil once the user has gone past the last catalog level.
	Level      *catalog.Level
	Progress   int
	Categories []CategorySummary
	Tasks      []TaskStatus
	DaysLeft   int
	CanLevelUp bool

	Plan        *catalog.ReadingPlan
	Book        *catalog.Book
	BookIndex   int
	BookPage    int
	BookPercent int
	PlanPercent int

	Workout *catalog.Workout

	Stats        map[string]float64
	Achievements []AchievementStatus
	Earned       int

	Goals   []storage.FinancialGoal
	Finance FinanceSummary
}
