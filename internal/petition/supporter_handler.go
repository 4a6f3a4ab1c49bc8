// AngelaMos | 2026
// supporter_handler.go

package petition

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/carterperez-dev/petition-platform/internal/core"
	"github.com/carterperez-dev/petition-platform/internal/middleware"
)

func (h *Handler) ListSupporters(w http.ResponseWriter, r *http.Request) {
	petitionID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	rows, err := h.service.ListSupporters(r.Context(), petitionID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "petition")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, toSupporterResponseList(rows))
}

func (h *Handler) AddSupporter(w http.ResponseWriter, r *http.Request) {
	petitionID, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	var req CreateSupporterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	callerID := middleware.GetUserID(r.Context())

	_, err := h.service.AddSupporter(r.Context(), callerID, petitionID, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "petition or support tier")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "pledge is not permitted")
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "already supporting this tier")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.Created(w, nil)
}
