// AngelaMos | 2026
// entity.go

package petition

import (
	"time"
)

type Petition struct {
	ID            int64     `db:"id"`
	OwnerID       int64     `db:"owner_id"`
	Title         string    `db:"title"`
	Description   string    `db:"description"`
	CategoryID    int64     `db:"category_id"`
	ImageFilename *string   `db:"image_filename"`
	CreatedAt     time.Time `db:"created_at"`
}

func (p *Petition) HasImage() bool {
	return p.ImageFilename != nil && *p.ImageFilename != ""
}

type Category struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

type SupportTier struct {
	ID          int64  `db:"id"`
	PetitionID  int64  `db:"petition_id"`
	Title       string `db:"title"`
	Description string `db:"description"`
	Cost        int64  `db:"cost"`
}

type Supporter struct {
	ID            int64     `db:"id"`
	PetitionID    int64     `db:"petition_id"`
	SupportTierID int64     `db:"support_tier_id"`
	UserID        int64     `db:"user_id"`
	Message       *string   `db:"message"`
	CreatedAt     time.Time `db:"created_at"`
}

// SummaryRow is one row of the search query, petition columns joined
// with the owner's name and the two aggregate subqueries.
type SummaryRow struct {
	ID                 int64     `db:"id"`
	Title              string    `db:"title"`
	CategoryID         int64     `db:"category_id"`
	OwnerID            int64     `db:"owner_id"`
	OwnerFirstName     string    `db:"owner_first_name"`
	OwnerLastName      string    `db:"owner_last_name"`
	CreatedAt          time.Time `db:"created_at"`
	NumberOfSupporters int       `db:"number_of_supporters"`
	SupportingCost     *int64    `db:"supporting_cost"`
}

// DetailRow extends the summary with description and money raised.
type DetailRow struct {
	SummaryRow
	Description string `db:"description"`
	MoneyRaised int64  `db:"money_raised"`
}

// SupporterRow is one row of the supporter listing, joined with the
// supporting user's name.
type SupporterRow struct {
	ID            int64     `db:"id"`
	SupportTierID int64     `db:"support_tier_id"`
	Message       *string   `db:"message"`
	UserID        int64     `db:"user_id"`
	FirstName     string    `db:"first_name"`
	LastName      string    `db:"last_name"`
	CreatedAt     time.Time `db:"created_at"`
}
