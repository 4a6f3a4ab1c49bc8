// AngelaMos | 2026
// supporter_repository.go

package petition

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

type SupporterRepository interface {
	ListByPetition(ctx context.Context, petitionID int64) ([]SupporterRow, error)
	Create(ctx context.Context, s *Supporter) error
	Exists(ctx context.Context, tierID, userID int64) (bool, error)
}

type supporterRepository struct {
	db core.DBTX
}

func NewSupporterRepository(db core.DBTX) SupporterRepository {
	return &supporterRepository{db: db}
}

func (r *supporterRepository) ListByPetition(
	ctx context.Context,
	petitionID int64,
) ([]SupporterRow, error) {
	query := `
		SELECT s.id, s.support_tier_id, s.message, s.user_id,
		       u.first_name, u.last_name, s.created_at
		FROM supporters s
		JOIN users u ON u.id = s.user_id
		WHERE s.petition_id = $1
		ORDER BY s.created_at DESC, s.id ASC`

	rows := []SupporterRow{}
	if err := r.db.SelectContext(ctx, &rows, query, petitionID); err != nil {
		return nil, fmt.Errorf("list supporters: %w", err)
	}

	return rows, nil
}

func (r *supporterRepository) Create(ctx context.Context, s *Supporter) error {
	query := `
		INSERT INTO supporters (petition_id, support_tier_id, user_id, message)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.GetContext(ctx, s, query,
		s.PetitionID,
		s.SupportTierID,
		s.UserID,
		s.Message,
	)
	if err != nil {
		if core.IsUniqueViolation(err) {
			return fmt.Errorf("create supporter: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create supporter: %w", err)
	}

	return nil
}

func (r *supporterRepository) Exists(
	ctx context.Context,
	tierID, userID int64,
) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM supporters
			WHERE support_tier_id = $1 AND user_id = $2)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, tierID, userID); err != nil {
		return false, fmt.Errorf("check supporter: %w", err)
	}

	return exists, nil
}
