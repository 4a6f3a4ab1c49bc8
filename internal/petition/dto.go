// AngelaMos | 2026
// dto.go

package petition

import (
	"time"
)

type CreatePetitionRequest struct {
	Title        string              `json:"title"        validate:"required,min=1,max=128"`
	Description  string              `json:"description"  validate:"required,min=1,max=1024"`
	CategoryID   int64               `json:"categoryId"   validate:"required,min=1"`
	SupportTiers []CreateTierRequest `json:"supportTiers" validate:"required,min=1,max=3,dive"`
}

type CreateTierRequest struct {
	Title       string `json:"title"       validate:"required,min=1,max=128"`
	Description string `json:"description" validate:"required,min=1,max=1024"`
	Cost        *int64 `json:"cost"        validate:"required,gte=0"`
}

type UpdatePetitionRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=1,max=128"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=1024"`
	CategoryID  *int64  `json:"categoryId,omitempty"  validate:"omitempty,min=1"`
}

type UpdateTierRequest struct {
	Title       *string `json:"title,omitempty"       validate:"omitempty,min=1,max=128"`
	Description *string `json:"description,omitempty" validate:"omitempty,min=1,max=1024"`
	Cost        *int64  `json:"cost,omitempty"        validate:"omitempty,gte=0"`
}

type CreateSupporterRequest struct {
	SupportTierID int64   `json:"supportTierId" validate:"required,min=1"`
	Message       *string `json:"message,omitempty" validate:"omitempty,min=1,max=512"`
}

type CreatePetitionResponse struct {
	PetitionID int64 `json:"petitionId"`
}

type CreateTierResponse struct {
	SupportTierID int64 `json:"supportTierId"`
}

type CategoryResponse struct {
	CategoryID int64  `json:"categoryId"`
	Name       string `json:"name"`
}

type SummaryResponse struct {
	PetitionID         int64     `json:"petitionId"`
	Title              string    `json:"title"`
	CategoryID         int64     `json:"categoryId"`
	OwnerID            int64     `json:"ownerId"`
	OwnerFirstName     string    `json:"ownerFirstName"`
	OwnerLastName      string    `json:"ownerLastName"`
	NumberOfSupporters int       `json:"numberOfSupporters"`
	CreationDate       time.Time `json:"creationDate"`
	SupportingCost     int64     `json:"supportingCost"`
}

type SearchResponse struct {
	Petitions []SummaryResponse `json:"petitions"`
	Count     int               `json:"count"`
}

type TierResponse struct {
	SupportTierID int64  `json:"supportTierId"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	Cost          int64  `json:"cost"`
}

type DetailResponse struct {
	SummaryResponse
	Description  string         `json:"description"`
	MoneyRaised  int64          `json:"moneyRaised"`
	SupportTiers []TierResponse `json:"supportTiers"`
}

type SupporterResponse struct {
	SupportID          int64     `json:"supportId"`
	SupportTierID      int64     `json:"supportTierId"`
	Message            *string   `json:"message"`
	SupporterID        int64     `json:"supporterId"`
	SupporterFirstName string    `json:"supporterFirstName"`
	SupporterLastName  string    `json:"supporterLastName"`
	Timestamp          time.Time `json:"timestamp"`
}

func toSummaryResponse(row SummaryRow) SummaryResponse {
	resp := SummaryResponse{
		PetitionID:         row.ID,
		Title:              row.Title,
		CategoryID:         row.CategoryID,
		OwnerID:            row.OwnerID,
		OwnerFirstName:     row.OwnerFirstName,
		OwnerLastName:      row.OwnerLastName,
		NumberOfSupporters: row.NumberOfSupporters,
		CreationDate:       row.CreatedAt,
	}
	if row.SupportingCost != nil {
		resp.SupportingCost = *row.SupportingCost
	}
	return resp
}

func toSummaryResponseList(rows []SummaryRow) []SummaryResponse {
	responses := make([]SummaryResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, toSummaryResponse(row))
	}
	return responses
}

func toDetailResponse(row *DetailRow, tiers []SupportTier) DetailResponse {
	resp := DetailResponse{
		SummaryResponse: toSummaryResponse(row.SummaryRow),
		Description:     row.Description,
		MoneyRaised:     row.MoneyRaised,
		SupportTiers:    make([]TierResponse, 0, len(tiers)),
	}
	for _, tier := range tiers {
		resp.SupportTiers = append(resp.SupportTiers, TierResponse{
			SupportTierID: tier.ID,
			Title:         tier.Title,
			Description:   tier.Description,
			Cost:          tier.Cost,
		})
	}
	return resp
}

func toSupporterResponseList(rows []SupporterRow) []SupporterResponse {
	responses := make([]SupporterResponse, 0, len(rows))
	for _, row := range rows {
		responses = append(responses, SupporterResponse{
			SupportID:          row.ID,
			SupportTierID:      row.SupportTierID,
			Message:            row.Message,
			SupporterID:        row.UserID,
			SupporterFirstName: row.FirstName,
			SupporterLastName:  row.LastName,
			Timestamp:          row.CreatedAt,
		})
	}
	return responses
}
