// AngelaMos | 2026
// tier_repository.go

package petition

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

type TierRepository interface {
	ListByPetition(ctx context.Context, petitionID int64) ([]SupportTier, error)
	CountByPetition(ctx context.Context, petitionID int64) (int, error)
	GetByID(ctx context.Context, petitionID, tierID int64) (*SupportTier, error)
	Create(ctx context.Context, db core.DBTX, tier *SupportTier) error
	Update(ctx context.Context, tier *SupportTier) error
	Delete(ctx context.Context, tierID int64) error
	CountSupporters(ctx context.Context, tierID int64) (int, error)
}

type tierRepository struct {
	db core.DBTX
}

func NewTierRepository(db core.DBTX) TierRepository {
	return &tierRepository{db: db}
}

func (r *tierRepository) ListByPetition(
	ctx context.Context,
	petitionID int64,
) ([]SupportTier, error) {
	tiers := []SupportTier{}
	query := `
		SELECT id, petition_id, title, description, cost
		FROM support_tiers
		WHERE petition_id = $1
		ORDER BY id ASC`

	if err := r.db.SelectContext(ctx, &tiers, query, petitionID); err != nil {
		return nil, fmt.Errorf("list support tiers: %w", err)
	}

	return tiers, nil
}

func (r *tierRepository) CountByPetition(
	ctx context.Context,
	petitionID int64,
) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM support_tiers WHERE petition_id = $1`,
		petitionID)
	if err != nil {
		return 0, fmt.Errorf("count support tiers: %w", err)
	}

	return count, nil
}

// GetByID resolves a tier scoped to its petition so a tier id from a
// different petition reads as absent.
func (r *tierRepository) GetByID(
	ctx context.Context,
	petitionID, tierID int64,
) (*SupportTier, error) {
	query := `
		SELECT id, petition_id, title, description, cost
		FROM support_tiers
		WHERE id = $1 AND petition_id = $2`

	var tier SupportTier
	err := r.db.GetContext(ctx, &tier, query, tierID, petitionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get support tier: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get support tier: %w", err)
	}

	return &tier, nil
}

func (r *tierRepository) Create(
	ctx context.Context,
	db core.DBTX,
	tier *SupportTier,
) error {
	query := `
		INSERT INTO support_tiers (petition_id, title, description, cost)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	err := db.GetContext(ctx, &tier.ID, query,
		tier.PetitionID,
		tier.Title,
		tier.Description,
		tier.Cost,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create support tier: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create support tier: %w", err)
	}

	return nil
}

func (r *tierRepository) Update(ctx context.Context, tier *SupportTier) error {
	query := `
		UPDATE support_tiers
		SET title = $2, description = $3, cost = $4
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		tier.ID,
		tier.Title,
		tier.Description,
		tier.Cost,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("update support tier: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update support tier: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update support tier: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update support tier: %w", core.ErrNotFound)
	}

	return nil
}

func (r *tierRepository) Delete(ctx context.Context, tierID int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM support_tiers WHERE id = $1`, tierID)
	if err != nil {
		return fmt.Errorf("delete support tier: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete support tier: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("delete support tier: %w", core.ErrNotFound)
	}

	return nil
}

func (r *tierRepository) CountSupporters(
	ctx context.Context,
	tierID int64,
) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM supporters WHERE support_tier_id = $1`,
		tierID)
	if err != nil {
		return 0, fmt.Errorf("count tier supporters: %w", err)
	}

	return count, nil
}
