package application

import (
	"context"
	"sort"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
)

type userCategoryLister interface {
	GetUserCategories(ctx context.Context, userID string) ([]string, error)
}

type CategoryService struct {
	repo userCategoryLister
}

func NewCategoryService(repo userCategoryLister) *CategoryService {
	return &CategoryService{repo: repo}
}

// GetCategories returns the predefined categories followed by the ones the
// user introduced, without duplicates.
func (s *CategoryService) GetCategories(ctx context.Context, userID string) ([]string, error) {
	used, err := s.repo.GetUserCategories(ctx, userID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(domain.PredefinedCategories))
	categories := make([]string, 0, len(domain.PredefinedCategories)+len(used))
	for _, category := range domain.PredefinedCategories {
		seen[category] = true
		categories = append(categories, category)
	}

	var custom []string
	for _, category := range used {
		if !seen[category] {
			seen[category] = true
			custom = append(custom, category)
		}
	}
	sort.Strings(custom)
	return append(categories, custom...), nil
}
