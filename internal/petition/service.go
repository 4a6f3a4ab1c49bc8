// AngelaMos | 2026
// service.go

package petition

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/carterperez-dev/petition-platform/internal/core"
	"github.com/carterperez-dev/petition-platform/internal/images"
)

const maxTiersPerPetition = 3

// Service enforces the petition lifecycle rules. Handlers translate its
// sentinel errors to HTTP statuses; the precondition order inside each
// method is load-bearing and pinned by tests.
type Service struct {
	db         core.DBTX
	inTx       func(ctx context.Context, fn func(db core.DBTX) error) error
	petitions  Repository
	tiers      TierRepository
	supporters SupporterRepository
	categories CategoryRepository
	imageStore *images.Store
	logger     *slog.Logger
}

func NewService(
	db *sqlx.DB,
	petitions Repository,
	tiers TierRepository,
	supporters SupporterRepository,
	categories CategoryRepository,
	imageStore *images.Store,
	logger *slog.Logger,
) *Service {
	return &Service{
		db: db,
		inTx: func(ctx context.Context, fn func(db core.DBTX) error) error {
			return core.InTx(ctx, db, func(tx *sqlx.Tx) error {
				return fn(tx)
			})
		},
		petitions:  petitions,
		tiers:      tiers,
		supporters: supporters,
		categories: categories,
		imageStore: imageStore,
		logger:     logger,
	}
}

func (s *Service) Search(
	ctx context.Context,
	params SearchParams,
) (*SearchResult, error) {
	if len(params.CategoryIDs) > 0 {
		ok, err := s.categories.AllExist(ctx, params.CategoryIDs)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf(
				"search: unknown category id: %w", core.ErrInvalidInput)
		}
	}

	return s.petitions.Search(ctx, params)
}

func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.categories.List(ctx)
}

func (s *Service) GetDetail(
	ctx context.Context,
	id int64,
) (*DetailRow, []SupportTier, error) {
	detail, err := s.petitions.GetDetail(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	tiers, err := s.tiers.ListByPetition(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	return detail, tiers, nil
}

// Create inserts the petition and its initial tiers in one transaction
// so a duplicate tier title cannot leave a half-built petition behind.
func (s *Service) Create(
	ctx context.Context,
	ownerID int64,
	req CreatePetitionRequest,
) (*Petition, error) {
	seen := make(map[string]struct{}, len(req.SupportTiers))
	for _, tier := range req.SupportTiers {
		if _, dup := seen[tier.Title]; dup {
			return nil, fmt.Errorf(
				"create petition: duplicate tier title %q: %w",
				tier.Title, core.ErrInvalidInput)
		}
		seen[tier.Title] = struct{}{}
	}

	ok, err := s.categories.AllExist(ctx, []int64{req.CategoryID})
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf(
			"create petition: unknown category %d: %w",
			req.CategoryID, core.ErrInvalidInput)
	}

	p := &Petition{
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		CategoryID:  req.CategoryID,
	}

	err = s.inTx(ctx, func(tx core.DBTX) error {
		if err := s.petitions.Create(ctx, tx, p); err != nil {
			return err
		}
		for _, tierReq := range req.SupportTiers {
			tier := &SupportTier{
				PetitionID:  p.ID,
				Title:       tierReq.Title,
				Description: tierReq.Description,
				Cost:        *tierReq.Cost,
			}
			if err := s.tiers.Create(ctx, tx, tier); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Update(
	ctx context.Context,
	callerID, id int64,
	req UpdatePetitionRequest,
) (*Petition, error) {
	p, err := s.petitions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, fmt.Errorf("update petition: %w", core.ErrForbidden)
	}

	if req.CategoryID != nil && *req.CategoryID != p.CategoryID {
		ok, err := s.categories.AllExist(ctx, []int64{*req.CategoryID})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf(
				"update petition: unknown category %d: %w",
				*req.CategoryID, core.ErrInvalidInput)
		}
		p.CategoryID = *req.CategoryID
	}

	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}

	if err := s.petitions.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, callerID, id int64) error {
	p, err := s.petitions.GetByID(ctx, id)
	if err != nil {
		return err
	}

	count, err := s.petitions.CountDistinctSupporters(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf(
			"delete petition: has supporters: %w", core.ErrForbidden)
	}

	if p.OwnerID != callerID {
		return fmt.Errorf("delete petition: %w", core.ErrForbidden)
	}

	if err := s.petitions.Delete(ctx, id); err != nil {
		return err
	}

	if p.HasImage() {
		if err := s.imageStore.Delete(*p.ImageFilename); err != nil {
			s.logger.Warn("petition image removal failed",
				"filename", *p.ImageFilename, "error", err)
		}
	}

	return nil
}

func (s *Service) AddTier(
	ctx context.Context,
	callerID, petitionID int64,
	req CreateTierRequest,
) (*SupportTier, error) {
	p, err := s.petitions.GetByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, fmt.Errorf("add tier: %w", core.ErrForbidden)
	}

	count, err := s.tiers.CountByPetition(ctx, petitionID)
	if err != nil {
		return nil, err
	}
	if count >= maxTiersPerPetition {
		return nil, fmt.Errorf(
			"add tier: petition already has %d tiers: %w",
			maxTiersPerPetition, core.ErrForbidden)
	}

	tier := &SupportTier{
		PetitionID:  petitionID,
		Title:       req.Title,
		Description: req.Description,
		Cost:        *req.Cost,
	}
	if err := s.tiers.Create(ctx, s.db, tier); err != nil {
		return nil, err
	}

	return tier, nil
}

func (s *Service) UpdateTier(
	ctx context.Context,
	callerID, petitionID, tierID int64,
	req UpdateTierRequest,
) (*SupportTier, error) {
	p, err := s.petitions.GetByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != callerID {
		return nil, fmt.Errorf("update tier: %w", core.ErrForbidden)
	}

	tier, err := s.tiers.GetByID(ctx, petitionID, tierID)
	if err != nil {
		return nil, err
	}

	supporters, err := s.tiers.CountSupporters(ctx, tierID)
	if err != nil {
		return nil, err
	}
	if supporters > 0 {
		return nil, fmt.Errorf(
			"update tier: tier has supporters: %w", core.ErrForbidden)
	}

	if req.Title != nil {
		tier.Title = *req.Title
	}
	if req.Description != nil {
		tier.Description = *req.Description
	}
	if req.Cost != nil {
		tier.Cost = *req.Cost
	}

	if err := s.tiers.Update(ctx, tier); err != nil {
		return nil, err
	}

	return tier, nil
}

func (s *Service) DeleteTier(
	ctx context.Context,
	callerID, petitionID, tierID int64,
) error {
	p, err := s.petitions.GetByID(ctx, petitionID)
	if err != nil {
		return err
	}
	if p.OwnerID != callerID {
		return fmt.Errorf("delete tier: %w", core.ErrForbidden)
	}

	count, err := s.tiers.CountByPetition(ctx, petitionID)
	if err != nil {
		return err
	}
	if count <= 1 {
		return fmt.Errorf(
			"delete tier: cannot remove the only tier: %w", core.ErrForbidden)
	}

	tier, err := s.tiers.GetByID(ctx, petitionID, tierID)
	if err != nil {
		return err
	}

	supporters, err := s.tiers.CountSupporters(ctx, tier.ID)
	if err != nil {
		return err
	}
	if supporters > 0 {
		return fmt.Errorf(
			"delete tier: tier has supporters: %w", core.ErrForbidden)
	}

	return s.tiers.Delete(ctx, tier.ID)
}

func (s *Service) ListSupporters(
	ctx context.Context,
	petitionID int64,
) ([]SupporterRow, error) {
	if _, err := s.petitions.GetByID(ctx, petitionID); err != nil {
		return nil, err
	}

	return s.supporters.ListByPetition(ctx, petitionID)
}

// AddSupporter records a pledge. The pre-check for an existing pledge
// gives a friendly error; the unique constraint is the backstop when
// two requests race.
func (s *Service) AddSupporter(
	ctx context.Context,
	callerID, petitionID int64,
	req CreateSupporterRequest,
) (*Supporter, error) {
	p, err := s.petitions.GetByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}
	if p.OwnerID == callerID {
		return nil, fmt.Errorf(
			"add supporter: cannot support own petition: %w", core.ErrForbidden)
	}

	tier, err := s.tiers.GetByID(ctx, petitionID, req.SupportTierID)
	if err != nil {
		return nil, err
	}

	already, err := s.supporters.Exists(ctx, tier.ID, callerID)
	if err != nil {
		return nil, err
	}
	if already {
		return nil, fmt.Errorf(
			"add supporter: already supporting this tier: %w", core.ErrForbidden)
	}

	supporter := &Supporter{
		PetitionID:    petitionID,
		SupportTierID: tier.ID,
		UserID:        callerID,
		Message:       req.Message,
	}
	if err := s.supporters.Create(ctx, supporter); err != nil {
		return nil, err
	}

	return supporter, nil
}

func (s *Service) GetImage(
	ctx context.Context,
	id int64,
) ([]byte, string, error) {
	p, err := s.petitions.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	if !p.HasImage() {
		return nil, "", fmt.Errorf("get petition image: %w", core.ErrNotFound)
	}

	return s.imageStore.Retrieve(*p.ImageFilename)
}

// SetImage stores the hero image and reports whether the petition had
// none before, so the handler can answer 201 or 200.
func (s *Service) SetImage(
	ctx context.Context,
	callerID, id int64,
	data []byte,
	ext string,
) (bool, error) {
	p, err := s.petitions.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	if p.OwnerID != callerID {
		return false, fmt.Errorf("set petition image: %w", core.ErrForbidden)
	}

	filename, err := s.imageStore.Save(data, ext)
	if err != nil {
		return false, fmt.Errorf("set petition image: %w", err)
	}

	if err := s.petitions.SetImageFilename(ctx, id, &filename); err != nil {
		if delErr := s.imageStore.Delete(filename); delErr != nil {
			s.logger.Warn("orphan image cleanup failed",
				"filename", filename, "error", delErr)
		}
		return false, err
	}

	created := !p.HasImage()
	if p.HasImage() {
		if delErr := s.imageStore.Delete(*p.ImageFilename); delErr != nil {
			s.logger.Warn("replaced image cleanup failed",
				"filename", *p.ImageFilename, "error", delErr)
		}
	}

	return created, nil
}

func (s *Service) DeleteImage(ctx context.Context, callerID, id int64) error {
	p, err := s.petitions.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != callerID {
		return fmt.Errorf("delete petition image: %w", core.ErrForbidden)
	}
	if !p.HasImage() {
		return fmt.Errorf("delete petition image: %w", core.ErrNotFound)
	}

	if err := s.petitions.SetImageFilename(ctx, id, nil); err != nil {
		return err
	}

	if err := s.imageStore.Delete(*p.ImageFilename); err != nil {
		s.logger.Warn("image file removal failed",
			"filename", *p.ImageFilename, "error", err)
	}

	return nil
}
