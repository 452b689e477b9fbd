package engine

import (
	"context"
	"math"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"

	"sunrise/internal/storage"
)

type AddBookInput struct {
	Title   string
	Author  string
	Pages   int
	Content []byte
}

// AddCustomBook appends a user book starting at page 0.
func (s *Service) AddCustomBook(ctx context.Context, in AddBookInput) (*CreateResult, error) {
	title, err := normalizeName("title", in.Title)
	if err != nil {
		return nil, err
	}
	if in.Pages <= 0 {
		return nil, inputErr("pages", "must be greater than 0")
	}

	res := &CreateResult{ID: uuid.NewString()}
	err = s.apply(ctx, "book add", func(m *mutation) (bool, error) {
		book := storage.Book{
			ID:     res.ID,
			Title:  title,
			Author: norm.NFC.String(strings.TrimSpace(in.Author)),
			Pages:  in.Pages,
		}
		if len(in.Content) > 0 {
			ref, err := s.storeContent(ctx, in.Content)
			if err != nil {
				return false, err
			}
			book.Content = ref
		}
		m.snap.CustomBooks = append(m.snap.CustomBooks, book)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// AddFinancialGoal appends a savings goal starting at 0.
func (s *Service) AddFinancialGoal(ctx context.Context, name string, target float64) (*CreateResult, error) {
	name, err := normalizeName("name", name)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(target) || math.IsInf(target, 0) || target <= 0 {
		return nil, inputErr("target", "must be a finite number greater than 0")
	}

	res := &CreateResult{ID: uuid.NewString()}
	err = s.apply(ctx, "goal add", func(m *mutation) (bool, error) {
		m.snap.FinancialGoals = append(m.snap.FinancialGoals, storage.FinancialGoal{
			ID:     res.ID,
			Name:   name,
			Target: target,
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}
