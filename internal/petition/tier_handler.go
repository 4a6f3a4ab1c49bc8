// AngelaMos | 2026
// tier_handler.go

package petition

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carterperez-dev/petition-platform/internal/core"
	"github.com/carterperez-dev/petition-platform/internal/middleware"
)

func (h *Handler) AddTier(w http.ResponseWriter, r *http.Request) {
	petitionID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req CreateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	callerID := middleware.GetUserID(r.Context())

	tier, err := h.service.AddTier(r.Context(), callerID, petitionID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "petition")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "only the owner may add tiers, up to three per petition")
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "tier title already in use on this petition")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, CreateTierResponse{SupportTierID: tier.ID})
}

func (h *Handler) UpdateTier(w http.ResponseWriter, r *http.Request) {
	petitionID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	tierID, ok := parseID(w, r, "tierId")
	if !ok {
		return
	}

	var req UpdateTierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	callerID := middleware.GetUserID(r.Context())

	_, err := h.service.UpdateTier(r.Context(), callerID, petitionID, tierID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "petition or support tier")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "tier cannot be edited")
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "tier title already in use on this petition")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, nil)
}

func (h *Handler) DeleteTier(w http.ResponseWriter, r *http.Request) {
	petitionID, ok := parseID(w, r, "id")
	if !ok {
		return
	}
	tierID, ok := parseID(w, r, "tierId")
	if !ok {
		return
	}

	callerID := middleware.GetUserID(r.Context())

	err := h.service.DeleteTier(r.Context(), callerID, petitionID, tierID)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "petition or support tier")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "tier cannot be deleted")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, nil)
}
