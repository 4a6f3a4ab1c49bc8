// AngelaMos | 2026
// handler_image.go

package user

import (
	"errors"
	"io"
	"net/http"

	"github.com/carterperez-dev/petition-platform/internal/core"
	"github.com/carterperez-dev/petition-platform/internal/images"
	"github.com/carterperez-dev/petition-platform/internal/middleware"
)

func (h *Handler) GetImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	data, mime, err := h.service.GetImage(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user image")
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
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	ext, ok2 := images.ExtensionForMIME(r.Header.Get("Content-Type"))
	if !ok2 {
		core.BadRequest(w, "Content-Type must be image/png, image/jpeg or image/gif")
		return
	}

	if middleware.GetUserID(r.Context()) != id {
		core.Forbidden(w, "cannot change another user's image")
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

	created, err := h.service.SetImage(r.Context(), id, data, ext)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if created {
		core.Created(w, nil)
		return
	}
	core.OK(w, nil)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if middleware.GetUserID(r.Context()) != id {
		core.Forbidden(w, "cannot delete another user's image")
		return
	}

	if err := h.service.DeleteImage(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user image")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, nil)
}
