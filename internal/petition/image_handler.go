// AngelaMos | 2026
// image_handler.go

package petition

import (
	"errors"
	"io"
	"net/http"

	"github.com/carterperez-dev/petition-platform/internal/core"
	"github.com/carterperez-dev/petition-platform/internal/images"
	"github.com/carterperez-dev/petition-platform/internal/middleware"
)

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	data, mime, err := h.service.GetImage(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "petition image")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) SetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	ext, ok2 := images.ExtensionForMIME(r.Header.Get("Content-Type"))
	if !ok2 {
		core.BadRequest(w, "Content-Type must be image/png, image/jpeg or image/gif")
		return
	}

	body := http.MaxBytesReader(w, r.Body, h.maxImageBytes)
	data, err := io.ReadAll(body)
	if err != nil {
		core.BadRequest(w, "image payload too large or unreadable")
		return
	}
	if len(data) == 0 {
		core.BadRequest(w, "image payload is empty")
		return
	}

	callerID := middleware.GetUserID(r.Context())

	created, err := h.service.SetImage(r.Context(), callerID, id, data, ext)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "petition")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "only the owner may change the petition image")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	if created {
		core.Created(w, nil)
		return
	}
	core.OK(w, nil)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r, "id")
	if !ok {
		return
	}

	callerID := middleware.GetUserID(r.Context())

	if err := h.service.DeleteImage(r.Context(), callerID, id); err != nil {
		switch {
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "petition image")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "only the owner may delete the petition image")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, nil)
}
