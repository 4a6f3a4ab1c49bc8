// AngelaMos | 2026
// handler.go

package user

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
	authenticator, optionalAuth func(http.Handler) http.Handler,
) {
	r.Route("/users", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)

		r.Group(func(r chi.Router) {
			r.Use(authenticator)
			r.Post("/logout", h.Logout)
			r.Patch("/{id}", h.UpdateUser)
			r.Put("/{id}/image", h.SetImage)
			r.Delete("/{id}/image", h.DeleteImage)
		})

		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/{id}", h.GetUser)
		})

		r.Get("/{id}/image", h.GetImage)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrDuplicateKey) {
			core.Conflict(w, "email already in use")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, RegisterResponse{UserID: user.ID})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	user, token, err := h.service.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			core.Unauthorized(w, "incorrect email or password")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, LoginResponse{UserID: user.ID, Token: token})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.service.Logout(r.Context(), userID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.Unauthorized(w, "invalid session")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, nil)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	viewerID := middleware.GetUserID(r.Context())
	core.OK(w, ToUserResponse(user, viewerID == user.ID))
}

func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	if _, err := h.service.GetUser(r.Context(), id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			core.NotFound(w, "user")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	if middleware.GetUserID(r.Context()) != id {
		core.Forbidden(w, "cannot edit another user")
		return
	}

	user, err := h.service.UpdateUser(r.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, core.ErrInvalidInput):
			core.BadRequest(w, "currentPassword is required to change password")
		case errors.Is(err, core.ErrUnauthorized):
			core.Unauthorized(w, "incorrect currentPassword")
		case errors.Is(err, core.ErrForbidden):
			core.Forbidden(w, "new password must differ from current password")
		case errors.Is(err, core.ErrDuplicateKey):
			core.Conflict(w, "email already in use")
		case errors.Is(err, core.ErrNotFound):
			core.NotFound(w, "user")
		default:
			core.InternalServerError(w, err)
		}
		return
	}

	core.OK(w, ToUserResponse(user, true))
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		core.BadRequest(w, "id must be a positive integer")
		return 0, false
	}
	return id, true
}
