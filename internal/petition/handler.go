// AngelaMos | 2026
// handler.go

package petition

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/petition-platform/internal/core"
	"github.com/carterperez-dev/petition-platform/internal/middleware"
)

type Handler struct {
	service       *Service
	validator     *validator.Validate
	maxImageBytes int64
}

func NewHandler(service *Service, maxImageBytes int64) *Handler {
	return &Handler{
		service:       service,
		validator:     validator.New(validator.WithRequiredStructEnabled()),
		maxImageBytes: maxImageBytes,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Route("/petitions", func(r chi.Router) {
		r.Get("/", h.Search)
		r.Get("/categories", h.ListCategories)
		r.Get("/{id}", h.GetPetition)
		r.Get("/{id}/supporters", h.ListSupporters)
		r.Get("/{id}/image", h.GetImage)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)

			r.Post("/", h.CreatePetition)
			r.Patch("/{id}", h.UpdatePetition)
			r.Delete("/{id}", h.DeletePetition)
			r.Put("/{id}/image", h.SetImage)
			r.Delete("/{id}/image", h.DeleteImage)
			r.Post("/{id}/supportTiers", h.AddTier)
			r.Patch("/{id}/supportTiers/{tierId}", h.UpdateTier)
			r.Delete("/{id}/supportTiers/{tierId}", h.DeleteTier)
			r.Post("/{id}/supporters", h.AddSupporter)
		})
	})
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	params, err := parseSearchParams(r)
	if err != nil {
		core.BadRequest(w, err.Error())
		return
	}

	result, err := h.service.Search(r.Context(), params)
	if err != nil {
		if errors.Is(err, core.ErrInvalidInput) {
			core.BadRequest(w, "one or more query parameters are invalid")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, SearchResponse{
		Petitions: toSummaryResponseList(result.Petitions),
		Count:     result.Count,
	})
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	responses := make([]CategoryResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, CategoryResponse{
			CategoryID: c.ID,
			Name:       c.Name,
		})
	}

	core.OK(w, responses)
}

func (h *Handler) GetPetition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	detail, tiers, err := h.service.GetDetail(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "petition")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toDetailResponse(detail, tiers))
}

func (h *Handler) CreatePetition(w http.ResponseWriter, r *http.Request) {
	var req CreatePetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	ownerID := middleware.GetUserID(r.Context())

	p, err := h.service.Create(r.Context(), ownerID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "categoryId must reference an existing category and tier titles must be distinct")
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "petition title already in use")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, CreatePetitionResponse{PetitionID: p.ID})
}

func (h *Handler) UpdatePetition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req UpdatePetitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	callerID := middleware.GetUserID(r.Context())

	if _, err := h.service.Update(r.Context(), callerID, id, req); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "petition")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "only the owner may edit a petition")
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "categoryId must reference an existing category")
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "petition title already in use")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, nil)
}

func (h *Handler) DeletePetition(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	callerID := middleware.GetUserID(r.Context())

	if err := h.service.Delete(r.Context(), callerID, id); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "petition")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "petition cannot be deleted")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, nil)
}

func parseID(w http.ResponseWriter, r *http.Request, param string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, param), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, param+" must be a positive integer")
		return 0, false
	}
	return id, true
}

func parseSearchParams(r *http.Request) (SearchParams, error) {
	query := r.URL.Query()
	params := SearchParams{
		Q:      query.Get("q"),
		SortBy: query.Get("sortBy"),
	}

	for _, raw := range query["categoryIds"] {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return params, errors.New("categoryIds must be positive integers")
		}
		params.CategoryIDs = append(params.CategoryIDs, id)
	}

	if raw := query.Get("supportingCost"); raw != "" {
		cost, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || cost < 0 {
			return params, errors.New("supportingCost must be a non-negative integer")
		}
		params.SupportingCost = &cost
	}

	if raw := query.Get("ownerId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return params, errors.New("ownerId must be a positive integer")
		}
		params.OwnerID = &id
	}

	if raw := query.Get("supporterId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return params, errors.New("supporterId must be a positive integer")
		}
		params.SupporterID = &id
	}

	if raw := query.Get("startIndex"); raw != "" {
		start, err := strconv.Atoi(raw)
		if err != nil || start < 0 {
			return params, errors.New("startIndex must be a non-negative integer")
		}
		params.StartIndex = start
	}

	if raw := query.Get("count"); raw != "" {
		count, err := strconv.Atoi(raw)
		if err != nil || count < 0 {
			return params, errors.New("count must be a non-negative integer")
		}
		params.Count = &count
	}

	if params.SortBy != "" {
		if _, ok := orderClauses[params.SortBy]; !ok {
			return params, errors.New("sortBy is not a recognised ordering")
		}
	}

	return params, nil
}
