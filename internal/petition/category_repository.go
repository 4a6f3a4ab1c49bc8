// AngelaMos | 2026
// category_repository.go

package petition

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	AllExist(ctx context.Context, ids []int64) (bool, error)
}

type categoryRepository struct {
	db core.DBTX
}

func NewCategoryRepository(db core.DBTX) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) List(ctx context.Context) ([]Category, error) {
	categories := []Category{}
	err := r.db.SelectContext(ctx, &categories,
		`SELECT id, name FROM categories ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// AllExist reports whether every id in ids references a category.
// Duplicate ids in the input are counted once.
func (r *categoryRepository) AllExist(
	ctx context.Context,
	ids []int64,
) (bool, error) {
	if len(ids) == 0 {
		return true, nil
	}

	query := `
		SELECT COUNT(DISTINCT id)
		FROM categories
		WHERE id = ANY($1)`

	var found int
	if err := r.db.GetContext(ctx, &found, query, ids); err != nil {
		return false, fmt.Errorf("check categories: %w", err)
	}

	distinct := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		distinct[id] = struct{}{}
	}

	return found == len(distinct), nil
}
