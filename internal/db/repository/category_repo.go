package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gokatarajesh/trivia-api/internal/db/pgstore"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

type categoryStore interface {
	ListCategories(ctx context.Context) ([]pgstore.Category, error)
	GetCategory(ctx context.Context, id int) (pgstore.Category, error)
}

// CategoryRepository exposes the read-only category table.
type CategoryRepository struct {
	store categoryStore
}

var _ trivia.CategoryStore = (*CategoryRepository)(nil)

// NewCategoryRepository constructs a new category repository.
func NewCategoryRepository(store categoryStore) *CategoryRepository {
	return &CategoryRepository{store: store}
}

// ListCategories returns every category ordered by type.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]trivia.Category, error) {
	rows, err := r.store.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	out := make([]trivia.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, categoryToDomain(row))
	}
	return out, nil
}

// GetCategory fetches one category by id.
func (r *CategoryRepository) GetCategory(ctx context.Context, id int) (trivia.Category, error) {
	if !fitsInt4(id) {
		return trivia.Category{}, fmt.Errorf("category %d: %w", id, trivia.ErrRecordNotFound)
	}
	row, err := r.store.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return trivia.Category{}, fmt.Errorf("category %d: %w", id, trivia.ErrRecordNotFound)
		}
		return trivia.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return categoryToDomain(row), nil
}

func categoryToDomain(row pgstore.Category) trivia.Category {
	return trivia.Category{ID: row.ID, Type: row.Type}
}
