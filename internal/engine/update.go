package engine

import (
	"context"
	"maps"
	"slices"
	"strings"

	"sunrise/internal/notify"
	"sunrise/internal/storage"
)

// SelectReadingPlan starts a catalog plan from the first page of the first
// book. The plan is fixed once chosen: unknown plans and any selection after
// the first are ignored.
func (s *Service) SelectReadingPlan(ctx context.Context, planID string) error {
	return s.apply(ctx, "plan select", func(m *mutation) (bool, error) {
		if m.snap.ReadingPlanID != "" {
			return false, nil
		}
		if _, ok := s.catalog.Plan(planID); !ok {
			return false, nil
		}
		m.snap.ReadingPlanID = planID
		m.snap.CurrentBookIndex = 0
		m.snap.CurrentBookPage = 0
		return true, nil
	})
}

// UpdateBookProgress sets the page of the current plan book, clamped to the
// book. Reaching the last page moves on to the next book; on the final book
// the page holds at the end.
func (s *Service) UpdateBookProgress(ctx context.Context, page int) error {
	return s.apply(ctx, "read", func(m *mutation) (bool, error) {
		book, ok := CurrentBook(m.snap, s.catalog)
		if !ok {
			return false, nil
		}
		page = min(max(page, 0), book.Pages)
		plan, _ := CurrentReadingPlan(m.snap, s.catalog)
		if page >= book.Pages && m.snap.CurrentBookIndex+1 < len(plan.Books) {
			m.snap.CurrentBookIndex++
			m.snap.CurrentBookPage = 0
			return true, nil
		}
		if m.snap.CurrentBookPage == page {
			return false, nil
		}
		m.snap.CurrentBookPage = page
		return true, nil
	})
}

func (s *Service) RemoveCustomBook(ctx context.Context, id string) error {
	return s.apply(ctx, "book rm", func(m *mutation) (bool, error) {
		before := len(m.snap.CustomBooks)
		m.snap.CustomBooks = slices.DeleteFunc(m.snap.CustomBooks, func(b storage.Book) bool { return b.ID == id })
		return len(m.snap.CustomBooks) != before, nil
	})
}

// UpdateCustomBookProgress sets a custom book's page, clamped to its length.
func (s *Service) UpdateCustomBookProgress(ctx context.Context, id string, page int) error {
	return s.apply(ctx, "book progress", func(m *mutation) (bool, error) {
		b, ok := m.snap.Book(id)
		if !ok {
			return false, nil
		}
		page = min(max(page, 0), b.Pages)
		if b.CurrentPage == page {
			return false, nil
		}
		b.CurrentPage = page
		return true, nil
	})
}

// UploadBookForPlan stores content for a plan book, replacing any earlier
// upload under the same title.
func (s *Service) UploadBookForPlan(ctx context.Context, title string, content []byte) error {
	title, err := normalizeName("title", title)
	if err != nil {
		return err
	}
	if len(content) == 0 {
		return inputErr("content", "must not be empty")
	}
	return s.apply(ctx, "book upload", func(m *mutation) (bool, error) {
		ref, err := s.storeContent(ctx, content)
		if err != nil {
			return false, err
		}
		if m.snap.PlanBookContent[title] == ref {
			return false, nil
		}
		m.snap.PlanBookContent[title] = ref
		return true, nil
	})
}

// UpdateNotificationSettings replaces the setting of one category.
func (s *Service) UpdateNotificationSettings(ctx context.Context, category string, setting storage.NotificationSetting) error {
	category = strings.TrimSpace(category)
	if category == "" {
		return inputErr("category", "must not be empty")
	}
	if _, _, err := notify.ParseClock(setting.Time); err != nil {
		return inputErr("time", "%v", err)
	}
	return s.apply(ctx, "notify set", func(m *mutation) (bool, error) {
		if cur, ok := m.snap.NotificationSettings[category]; ok && cur == setting {
			return false, nil
		}
		m.snap.NotificationSettings[category] = setting
		m.emit(Event{Kind: EventSettingsChanged, Settings: maps.Clone(m.snap.NotificationSettings)})
		return true, nil
	})
}

// SetWimHofVideo stores the breathing video. Empty content clears it.
func (s *Service) SetWimHofVideo(ctx context.Context, content []byte) error {
	return s.apply(ctx, "video set", func(m *mutation) (bool, error) {
		ref := ""
		if len(content) > 0 {
			var err error
			if ref, err = s.storeContent(ctx, content); err != nil {
				return false, err
			}
		}
		if m.snap.WimHofVideo == ref {
			return false, nil
		}
		m.snap.WimHofVideo = ref
		return true, nil
	})
}

// UpdateFinancialGoal sets a goal's saved amount, clamped to [0, target].
func (s *Service) UpdateFinancialGoal(ctx context.Context, id string, current float64) error {
	return s.apply(ctx, "goal update", func(m *mutation) (bool, error) {
		g, ok := m.snap.Goal(id)
		if !ok {
			return false, nil
		}
		g.Current = storage.ClampGoal(current, g.Target)
		return true, nil
	})
}

func (s *Service) RemoveFinancialGoal(ctx context.Context, id string) error {
	return s.apply(ctx, "goal rm", func(m *mutation) (bool, error) {
		before := len(m.snap.FinancialGoals)
		m.snap.FinancialGoals = slices.DeleteFunc(m.snap.FinancialGoals, func(g storage.FinancialGoal) bool { return g.ID == id })
		return len(m.snap.FinancialGoals) != before, nil
	})
}
