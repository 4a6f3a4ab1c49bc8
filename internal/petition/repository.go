// AngelaMos | 2026
// repository.go

package petition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

type Repository interface {
	Search(ctx context.Context, params SearchParams) (*SearchResult, error)
	GetByID(ctx context.Context, id int64) (*Petition, error)
	GetDetail(ctx context.Context, id int64) (*DetailRow, error)
	Create(ctx context.Context, db core.DBTX, p *Petition) error
	Update(ctx context.Context, p *Petition) error
	Delete(ctx context.Context, id int64) error
	SetImageFilename(ctx context.Context, id int64, filename *string) error
	CountDistinctSupporters(ctx context.Context, id int64) (int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

func (r *repository) Search(
	ctx context.Context,
	params SearchParams,
) (*SearchResult, error) {
	listQuery, countQuery, listArgs, countArgs, err := BuildSearchQuery(params)
	if err != nil {
		return nil, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, fmt.Errorf("count petitions: %w", err)
	}

	rows := []SummaryRow{}
	if err := r.db.SelectContext(ctx, &rows, listQuery, listArgs...); err != nil {
		return nil, fmt.Errorf("search petitions: %w", err)
	}

	return &SearchResult{Petitions: rows, Count: total}, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Petition, error) {
	query := `
		SELECT id, owner_id, title, description, category_id,
		       image_filename, created_at
		FROM petitions
		WHERE id = $1`

	var p Petition
	err := r.db.GetContext(ctx, &p, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get petition: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get petition: %w", err)
	}

	return &p, nil
}

func (r *repository) GetDetail(
	ctx context.Context,
	id int64,
) (*DetailRow, error) {
	query := `
		SELECT` + summaryColumns + `,
		p.description,
		COALESCE((SELECT SUM(t.cost)
		   FROM supporters s
		   JOIN support_tiers t ON t.id = s.support_tier_id
		   WHERE s.petition_id = p.id), 0) AS money_raised
		FROM petitions p
		JOIN users u ON u.id = p.owner_id
		WHERE p.id = $1`

	var row DetailRow
	err := r.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get petition detail: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get petition detail: %w", err)
	}

	return &row, nil
}

// Create takes an explicit executor so petition and initial tiers can
// share a transaction.
func (r *repository) Create(
	ctx context.Context,
	db core.DBTX,
	p *Petition,
) error {
	query := `
		INSERT INTO petitions (owner_id, title, description, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := db.GetContext(ctx, p, query,
		p.OwnerID,
		p.Title,
		p.Description,
		p.CategoryID,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create petition: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create petition: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, p *Petition) error {
	query := `
		UPDATE petitions
		SET title = $2, description = $3, category_id = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.CategoryID,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update petition: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update petition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update petition: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update petition: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM petitions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete petition: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete petition: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete petition: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) SetImageFilename(
	ctx context.Context,
	id int64,
	filename *string,
) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE petitions SET image_filename = $2 WHERE id = $1`,
		id, filename)
	if err != nil {
		return fmt.Errorf("set petition image: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set petition image: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("set petition image: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) CountDistinctSupporters(
	ctx context.Context,
	id int64,
) (int, error) {
	query := `
		SELECT COUNT(DISTINCT user_id)
		FROM supporters
		WHERE petition_id = $1`

	var count int
	if err := r.db.GetContext(ctx, &count, query, id); err != nil {
		return 0, fmt.Errorf("count petition supporters: %w", err)
	}

	return count, nil
}
