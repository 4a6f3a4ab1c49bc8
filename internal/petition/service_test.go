// AngelaMos | 2026
// service_test.go

package petition

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/petition-platform/internal/core"
)

type fakePetitionRepo struct {
	petitions       map[int64]*Petition
	supporterCounts map[int64]int
	nextID          int64
	searchResult    *SearchResult
}

func newFakePetitionRepo() *fakePetitionRepo {
	return &fakePetitionRepo{
		petitions:       map[int64]*Petition{},
		supporterCounts: map[int64]int{},
	}
}

func (f *fakePetitionRepo) Search(
	_ context.Context,
	_ SearchParams,
) (*SearchResult, error) {
	if f.searchResult != nil {
		return f.searchResult, nil
	}
	return &SearchResult{Petitions: []SummaryRow{}}, nil
}

func (f *fakePetitionRepo) GetByID(_ context.Context, id int64) (*Petition, error) {
	p, ok := f.petitions[id]
	if !ok {
		return nil, fmt.Errorf("get petition: %w", core.ErrNotFound)
	}
	clone := *p
	return &clone, nil
}

func (f *fakePetitionRepo) GetDetail(_ context.Context, id int64) (*DetailRow, error) {
	p, ok := f.petitions[id]
	if !ok {
		return nil, fmt.Errorf("get petition detail: %w", core.ErrNotFound)
	}
	return &DetailRow{
		SummaryRow:  SummaryRow{ID: p.ID, Title: p.Title},
		Description: p.Description,
	}, nil
}

func (f *fakePetitionRepo) Create(_ context.Context, _ core.DBTX, p *Petition) error {
	for _, existing := range f.petitions {
		if existing.Title == p.Title {
			return fmt.Errorf("create petition: %w", core.ErrDuplicateKey)
		}
	}
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	clone := *p
	f.petitions[p.ID] = &clone
	return nil
}

func (f *fakePetitionRepo) Update(_ context.Context, p *Petition) error {
	for id, existing := range f.petitions {
		if id != p.ID && existing.Title == p.Title {
			return fmt.Errorf("update petition: %w", core.ErrDuplicateKey)
		}
	}
	if _, ok := f.petitions[p.ID]; !ok {
		return fmt.Errorf("update petition: %w", core.ErrNotFound)
	}
	clone := *p
	f.petitions[p.ID] = &clone
	return nil
}

func (f *fakePetitionRepo) Delete(_ context.Context, id int64) error {
	if _, ok := f.petitions[id]; !ok {
		return fmt.Errorf("delete petition: %w", core.ErrNotFound)
	}
	delete(f.petitions, id)
	return nil
}

func (f *fakePetitionRepo) SetImageFilename(
	_ context.Context,
	id int64,
	filename *string,
) error {
	p, ok := f.petitions[id]
	if !ok {
		return fmt.Errorf("set petition image: %w", core.ErrNotFound)
	}
	p.ImageFilename = filename
	return nil
}

func (f *fakePetitionRepo) CountDistinctSupporters(
	_ context.Context,
	id int64,
) (int, error) {
	return f.supporterCounts[id], nil
}

type fakeTierRepo struct {
	tiers           map[int64]*SupportTier
	supporterCounts map[int64]int
	nextID          int64
}

func newFakeTierRepo() *fakeTierRepo {
	return &fakeTierRepo{
		tiers:           map[int64]*SupportTier{},
		supporterCounts: map[int64]int{},
	}
}

func (f *fakeTierRepo) ListByPetition(
	_ context.Context,
	petitionID int64,
) ([]SupportTier, error) {
	var out []SupportTier
	for _, tier := range f.tiers {
		if tier.PetitionID == petitionID {
			out = append(out, *tier)
		}
	}
	return out, nil
}

func (f *fakeTierRepo) CountByPetition(
	_ context.Context,
	petitionID int64,
) (int, error) {
	count := 0
	for _, tier := range f.tiers {
		if tier.PetitionID == petitionID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTierRepo) GetByID(
	_ context.Context,
	petitionID, tierID int64,
) (*SupportTier, error) {
	tier, ok := f.tiers[tierID]
	if !ok || tier.PetitionID != petitionID {
		return nil, fmt.Errorf("get support tier: %w", core.ErrNotFound)
	}
	clone := *tier
	return &clone, nil
}

func (f *fakeTierRepo) Create(
	_ context.Context,
	_ core.DBTX,
	tier *SupportTier,
) error {
	for _, existing := range f.tiers {
		if existing.PetitionID == tier.PetitionID && existing.Title == tier.Title {
			return fmt.Errorf("create support tier: %w", core.ErrDuplicateKey)
		}
	}
	f.nextID++
	tier.ID = f.nextID
	clone := *tier
	f.tiers[tier.ID] = &clone
	return nil
}

func (f *fakeTierRepo) Update(_ context.Context, tier *SupportTier) error {
	for id, existing := range f.tiers {
		if id != tier.ID &&
			existing.PetitionID == tier.PetitionID &&
			existing.Title == tier.Title {
			return fmt.Errorf("update support tier: %w", core.ErrDuplicateKey)
		}
	}
	if _, ok := f.tiers[tier.ID]; !ok {
		return fmt.Errorf("update support tier: %w", core.ErrNotFound)
	}
	clone := *tier
	f.tiers[tier.ID] = &clone
	return nil
}

func (f *fakeTierRepo) Delete(_ context.Context, tierID int64) error {
	if _, ok := f.tiers[tierID]; !ok {
		return fmt.Errorf("delete support tier: %w", core.ErrNotFound)
	}
	delete(f.tiers, tierID)
	return nil
}

func (f *fakeTierRepo) CountSupporters(
	_ context.Context,
	tierID int64,
) (int, error) {
	return f.supporterCounts[tierID], nil
}

type fakeSupporterRepo struct {
	rows   []Supporter
	nextID int64
}

func (f *fakeSupporterRepo) ListByPetition(
	_ context.Context,
	petitionID int64,
) ([]SupporterRow, error) {
	var out []SupporterRow
	for _, row := range f.rows {
		if row.PetitionID == petitionID {
			out = append(out, SupporterRow{
				ID:            row.ID,
				SupportTierID: row.SupportTierID,
				UserID:        row.UserID,
				Message:       row.Message,
				CreatedAt:     row.CreatedAt,
			})
		}
	}
	return out, nil
}

func (f *fakeSupporterRepo) Create(_ context.Context, s *Supporter) error {
	for _, row := range f.rows {
		if row.SupportTierID == s.SupportTierID && row.UserID == s.UserID {
			return fmt.Errorf("create supporter: %w", core.ErrDuplicateKey)
		}
	}
	f.nextID++
	s.ID = f.nextID
	s.CreatedAt = time.Now()
	f.rows = append(f.rows, *s)
	return nil
}

func (f *fakeSupporterRepo) Exists(
	_ context.Context,
	tierID, userID int64,
) (bool, error) {
	for _, row := range f.rows {
		if row.SupportTierID == tierID && row.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

type fakeCategoryRepo struct {
	ids map[int64]string
}

func (f *fakeCategoryRepo) List(_ context.Context) ([]Category, error) {
	var out []Category
	for id, name := range f.ids {
		out = append(out, Category{ID: id, Name: name})
	}
	return out, nil
}

func (f *fakeCategoryRepo) AllExist(
	_ context.Context,
	ids []int64,
) (bool, error) {
	for _, id := range ids {
		if _, ok := f.ids[id]; !ok {
			return false, nil
		}
	}
	return true, nil
}

type serviceFixture struct {
	svc        *Service
	petitions  *fakePetitionRepo
	tiers      *fakeTierRepo
	supporters *fakeSupporterRepo
	categories *fakeCategoryRepo
}

func newServiceFixture() *serviceFixture {
	petitions := newFakePetitionRepo()
	tiers := newFakeTierRepo()
	supporters := &fakeSupporterRepo{}
	categories := &fakeCategoryRepo{ids: map[int64]string{1: "Environment", 2: "Health"}}

	svc := &Service{
		inTx: func(ctx context.Context, fn func(db core.DBTX) error) error {
			return fn(nil)
		},
		petitions:  petitions,
		tiers:      tiers,
		supporters: supporters,
		categories: categories,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	return &serviceFixture{
		svc:        svc,
		petitions:  petitions,
		tiers:      tiers,
		supporters: supporters,
		categories: categories,
	}
}

func (f *serviceFixture) seedPetition(
	t *testing.T,
	ownerID int64,
	title string,
	tierTitles ...string,
) *Petition {
	t.Helper()

	p := &Petition{
		OwnerID:     ownerID,
		Title:       title,
		Description: "desc",
		CategoryID:  1,
	}
	require.NoError(t, f.petitions.Create(context.Background(), nil, p))

	for _, tierTitle := range tierTitles {
		tier := &SupportTier{
			PetitionID:  p.ID,
			Title:       tierTitle,
			Description: "tier desc",
			Cost:        10,
		}
		require.NoError(t, f.tiers.Create(context.Background(), nil, tier))
	}

	return p
}

func validCreateRequest() CreatePetitionRequest {
	cost := int64(5)
	return CreatePetitionRequest{
		Title:       "Save the bay",
		Description: "Stop the dredging",
		CategoryID:  1,
		SupportTiers: []CreateTierRequest{
			{Title: "Bronze", Description: "basic", Cost: &cost},
		},
	}
}

func TestServiceCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("creates petition with initial tiers", func(t *testing.T) {
		f := newServiceFixture()

		p, err := f.svc.Create(ctx, 1, validCreateRequest())
		require.NoError(t, err)
		assert.Equal(t, int64(1), p.OwnerID)

		count, err := f.tiers.CountByPetition(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("rejects duplicate tier titles in request", func(t *testing.T) {
		f := newServiceFixture()
		cost := int64(5)
		req := validCreateRequest()
		req.SupportTiers = append(req.SupportTiers, CreateTierRequest{
			Title: "Bronze", Description: "again", Cost: &cost,
		})

		_, err := f.svc.Create(ctx, 1, req)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		f := newServiceFixture()
		req := validCreateRequest()
		req.CategoryID = 99

		_, err := f.svc.Create(ctx, 1, req)
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("duplicate title is a conflict", func(t *testing.T) {
		f := newServiceFixture()
		f.seedPetition(t, 2, "Save the bay", "Gold")

		_, err := f.svc.Create(ctx, 1, validCreateRequest())
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})
}

func TestServiceUpdate(t *testing.T) {
	ctx := context.Background()

	t.Run("absent petition", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.Update(ctx, 1, 42, UpdatePetitionRequest{})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		title := "Hijacked"
		_, err := f.svc.Update(ctx, 2, p.ID, UpdatePetitionRequest{Title: &title})
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		bad := int64(99)
		_, err := f.svc.Update(ctx, 1, p.ID, UpdatePetitionRequest{CategoryID: &bad})
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("merges only supplied fields", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		title := "Save the whole bay"
		updated, err := f.svc.Update(ctx, 1, p.ID, UpdatePetitionRequest{Title: &title})
		require.NoError(t, err)
		assert.Equal(t, "Save the whole bay", updated.Title)
		assert.Equal(t, "desc", updated.Description)
		assert.Equal(t, int64(1), updated.CategoryID)
	})

	t.Run("title collision is a conflict", func(t *testing.T) {
		f := newServiceFixture()
		f.seedPetition(t, 1, "First", "Bronze")
		p := f.seedPetition(t, 1, "Second", "Bronze")

		title := "First"
		_, err := f.svc.Update(ctx, 1, p.ID, UpdatePetitionRequest{Title: &title})
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("absent petition", func(t *testing.T) {
		f := newServiceFixture()
		err := f.svc.Delete(ctx, 1, 42)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("supporter gate fires before owner check", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")
		f.petitions.supporterCounts[p.ID] = 2

		// Even the owner is blocked while supporters exist.
		err := f.svc.Delete(ctx, 1, p.ID)
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		err := f.svc.Delete(ctx, 2, p.ID)
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("owner deletes an unsupported petition", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		require.NoError(t, f.svc.Delete(ctx, 1, p.ID))
		_, err := f.petitions.GetByID(ctx, p.ID)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})
}

func TestServiceAddTier(t *testing.T) {
	ctx := context.Background()
	cost := int64(25)
	req := CreateTierRequest{Title: "Silver", Description: "mid", Cost: &cost}

	t.Run("absent petition", func(t *testing.T) {
		f := newServiceFixture()
		_, err := f.svc.AddTier(ctx, 1, 42, req)
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		_, err := f.svc.AddTier(ctx, 2, p.ID, req)
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("tier limit of three", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze", "Silver", "Gold")

		extraCost := int64(99)
		_, err := f.svc.AddTier(ctx, 1, p.ID, CreateTierRequest{
			Title: "Platinum", Description: "top", Cost: &extraCost,
		})
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("duplicate title within petition", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Silver")

		_, err := f.svc.AddTier(ctx, 1, p.ID, req)
		assert.ErrorIs(t, err, core.ErrDuplicateKey)
	})

	t.Run("owner adds a tier", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		tier, err := f.svc.AddTier(ctx, 1, p.ID, req)
		require.NoError(t, err)
		assert.NotZero(t, tier.ID)
		assert.Equal(t, int64(25), tier.Cost)
	})
}

func TestServiceUpdateTier(t *testing.T) {
	ctx := context.Background()

	t.Run("tier under another petition reads as absent", func(t *testing.T) {
		f := newServiceFixture()
		p1 := f.seedPetition(t, 1, "First", "Bronze")
		f.seedPetition(t, 1, "Second", "Bronze")

		otherTier := int64(2)
		title := "Renamed"
		_, err := f.svc.UpdateTier(ctx, 1, p1.ID, otherTier, UpdateTierRequest{
			Title: &title,
		})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("tier with supporters is frozen", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")
		f.tiers.supporterCounts[1] = 1

		title := "Renamed"
		_, err := f.svc.UpdateTier(ctx, 1, p.ID, 1, UpdateTierRequest{Title: &title})
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("merges only supplied fields", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		newCost := int64(42)
		tier, err := f.svc.UpdateTier(ctx, 1, p.ID, 1, UpdateTierRequest{
			Cost: &newCost,
		})
		require.NoError(t, err)
		assert.Equal(t, "Bronze", tier.Title)
		assert.Equal(t, int64(42), tier.Cost)
	})
}

func TestServiceDeleteTier(t *testing.T) {
	ctx := context.Background()

	t.Run("sole tier gate fires before tier lookup", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		// Unknown tier id, but the petition has only one tier, so the
		// sole-tier rule answers first.
		err := f.svc.DeleteTier(ctx, 1, p.ID, 999)
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("tier with supporters is frozen", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze", "Silver")
		f.tiers.supporterCounts[1] = 3

		err := f.svc.DeleteTier(ctx, 1, p.ID, 1)
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("owner deletes a spare tier", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze", "Silver")

		require.NoError(t, f.svc.DeleteTier(ctx, 1, p.ID, 2))
		count, err := f.tiers.CountByPetition(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})
}

func TestServiceAddSupporter(t *testing.T) {
	ctx := context.Background()

	t.Run("owner cannot support own petition", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		_, err := f.svc.AddSupporter(ctx, 1, p.ID, CreateSupporterRequest{
			SupportTierID: 1,
		})
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("tier must belong to the petition", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "First", "Bronze")
		f.seedPetition(t, 1, "Second", "Bronze")

		_, err := f.svc.AddSupporter(ctx, 2, p.ID, CreateSupporterRequest{
			SupportTierID: 2,
		})
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("double pledge on the same tier", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		_, err := f.svc.AddSupporter(ctx, 2, p.ID, CreateSupporterRequest{
			SupportTierID: 1,
		})
		require.NoError(t, err)

		_, err = f.svc.AddSupporter(ctx, 2, p.ID, CreateSupporterRequest{
			SupportTierID: 1,
		})
		assert.ErrorIs(t, err, core.ErrForbidden)
	})

	t.Run("pledge is recorded with message", func(t *testing.T) {
		f := newServiceFixture()
		p := f.seedPetition(t, 1, "Save the bay", "Bronze")

		msg := "good cause"
		supporter, err := f.svc.AddSupporter(ctx, 2, p.ID, CreateSupporterRequest{
			SupportTierID: 1,
			Message:       &msg,
		})
		require.NoError(t, err)
		assert.NotZero(t, supporter.ID)
		require.NotNil(t, supporter.Message)
		assert.Equal(t, "good cause", *supporter.Message)
	})
}

func TestServiceSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown category id rejects the request", func(t *testing.T) {
		f := newServiceFixture()

		_, err := f.svc.Search(ctx, SearchParams{CategoryIDs: []int64{99}})
		assert.ErrorIs(t, err, core.ErrInvalidInput)
	})

	t.Run("passes through to the repository", func(t *testing.T) {
		f := newServiceFixture()
		f.petitions.searchResult = &SearchResult{Count: 3}

		result, err := f.svc.Search(ctx, SearchParams{CategoryIDs: []int64{1}})
		require.NoError(t, err)
		assert.Equal(t, 3, result.Count)
	})
}
