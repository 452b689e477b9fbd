package engine

import (
	"maps"

	"sunrise/internal/catalog"
	"sunrise/internal/storage"
)

func (s *Service) CurrentLevelData() (*catalog.Level, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CurrentLevelData(s.state, s.catalog)
}

func (s *Service) AllTasksForLevel() []catalog.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllTasksForLevel(s.state, s.catalog)
}

func (s *Service) ProgressPercentage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ProgressPercentage(s.state, s.catalog)
}

func (s *Service) CategoryPercentage(c catalog.Category) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CategoryPercentage(s.state, s.catalog, c)
}

func (s *Service) DaysLeftForCheckIn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DaysLeftForCheckIn(s.state, s.now(), s.rules.CheckInDays)
}

func (s *Service) CanLevelUp() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CanLevelUp(s.state, s.catalog, s.now(), s.rules)
}

func (s *Service) CurrentBook() (catalog.Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return CurrentBook(s.state, s.catalog)
}

// CurrentWorkout is the workout for the weekday the session started on.
func (s *Service) CurrentWorkout() (catalog.Workout, bool) {
	return s.catalog.WorkoutFor(s.sessionDay)
}

func (s *Service) FinanceSummary() FinanceSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return SummarizeFinances(s.state.FinancialGoals)
}

// Tasks lists the current level's tasks with their progress, in category
// order.
func (s *Service) Tasks() []TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return taskStatuses(s.state, s.catalog)
}

func taskStatuses(snap *storage.Snapshot, cat *catalog.Catalog) []TaskStatus {
	level, ok := CurrentLevelData(snap, cat)
	if !ok {
		return nil
	}
	var out []TaskStatus
	for _, c := range catalog.Categories {
		for _, t := range level.Tasks.ByCategory(c) {
			p := snap.TaskProgress[t.ID]
			out = append(out, TaskStatus{Task: t, Category: c, Progress: p, Complete: TaskComplete(t, p)})
		}
	}
	return out
}

func (s *Service) Dashboard() Dashboard {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap, cat, now := s.state, s.catalog, s.now()
	d := Dashboard{
		Initiated:   snap.IsInitiated,
		LevelNumber: snap.CurrentLevel,
		MaxLevel:    cat.MaxLevel(),
		Progress:    ProgressPercentage(snap, cat),
		Tasks:       taskStatuses(snap, cat),
		DaysLeft:    DaysLeftForCheckIn(snap, now, s.rules.CheckInDays),
		CanLevelUp:  CanLevelUp(snap, cat, now, s.rules),
		BookIndex:   snap.CurrentBookIndex,
		BookPage:    snap.CurrentBookPage,
		BookPercent: BookPercentage(snap, cat),
		PlanPercent: PlanPercentage(snap, cat),
		Stats:       maps.Clone(snap.CumulativeStats),
		Goals:       append([]storage.FinancialGoal(nil), snap.FinancialGoals...),
		Finance:     SummarizeFinances(snap.FinancialGoals),
	}
	if l, ok := CurrentLevelData(snap, cat); ok {
		d.Level = l
		for _, c := range catalog.Categories {
			tasks := l.Tasks.ByCategory(c)
			d.Categories = append(d.Categories, CategorySummary{
				Category:   c,
				Done:       countComplete(snap, tasks),
				Total:      len(tasks),
				Percentage: CategoryPercentage(snap, cat, c),
			})
		}
	}
	if plan, ok := CurrentReadingPlan(snap, cat); ok {
		d.Plan = plan
		if b, ok := CurrentBook(snap, cat); ok {
			d.Book = &b
		}
	}
	if w, ok := cat.WorkoutFor(s.sessionDay); ok {
		d.Workout = &w
	}
	d.Achievements = achievementStatuses(snap, cat)
	for _, a := range d.Achievements {
		if a.Earned {
			d.Earned++
		}
	}
	return d
}
