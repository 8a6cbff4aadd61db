package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	h "sitearchive/internal/delivery/http/helpers"
	"sitearchive/internal/domain"
)

// CaptureRequest is the request body for POST /api/archive. Other fields are ignored.
type CaptureRequest struct {
	Email string `json:"email"`
}

// Validate implements Validator.
func (c CaptureRequest) Validate() []string {
	if !domain.IsValidEmail(domain.NormalizeEmail(c.Email)) {
		return []string{"invalid email"}
	}
	return nil
}

// AuthRequest is the request body for POST /api/archive/auth.
type AuthRequest struct {
	Password string `json:"password"`
}

// ListResponse is the response body for GET /api/archive/list.
// swagger:model ListResponse
type ListResponse struct {
	Emails []*domain.EmailRecord `json:"emails"`
}

type ArchiveController struct {
	Logger  *slog.Logger
	Archive domain.ArchiveService
	Auth    domain.AdminAuthService
	Now     func() time.Time
}

func NewArchiveController(logger *slog.Logger, archive domain.ArchiveService, auth domain.AdminAuthService) *ArchiveController {
	return &ArchiveController{
		Logger:  logger,
		Archive: archive,
		Auth:    auth,
		Now:     time.Now,
	}
}

// Capture godoc
// @Summary Join the archive mailing list
// @Description Stores a normalized (trimmed, lowercased) email. Submitting an address that is already on the list also returns ok; the response never reveals membership.
// @Tags archive
// @Accept json
// @Produce json
// @Param body body CaptureRequest true "Email to capture"
// @Success 200 {object} helpers.OKResponse
// @Failure 400 {object} helpers.ErrorResponse "Invalid email."
// @Failure 500 {object} helpers.ErrorResponse "Server error."
// @Router /api/archive [post]
func (c *ArchiveController) Capture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	if !h.DecodeAndValidate(w, r, &req, http.StatusBadRequest, h.MsgInvalidEmail) {
		return
	}
	if err := c.Archive.Capture(r.Context(), req.Email); err != nil {
		if errors.Is(err, domain.ErrInvalidEmail) {
			h.WriteJSONError(w, http.StatusBadRequest, h.MsgInvalidEmail)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.MsgServerError)
		return
	}
	h.WriteOK(w)
}

// Auth godoc
// @Summary Unlock the archive admin view
// @Description Checks the admin password and, on success, sets the archive_admin session cookie (HttpOnly, SameSite=Strict, Path=/, 10 minutes).
// @Tags archive
// @Accept json
// @Produce json
// @Param body body AuthRequest true "Admin password"
// @Success 200 {object} helpers.OKResponse
// @Failure 401 {object} helpers.ErrorResponse "Unauthorized"
// @Failure 500 {object} helpers.ErrorResponse "Server error."
// @Router /api/archive/auth [post]
func (c *ArchiveController) Authenticate(w http.ResponseWriter, r *http.Request) {
	var req AuthRequest
	if !h.DecodeAndValidate(w, r, &req, http.StatusUnauthorized, h.MsgUnauthorized) {
		return
	}
	session, err := c.Auth.Authenticate(r.Context(), req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			c.Logger.InfoContext(r.Context(), "archive admin login rejected")
			h.WriteJSONError(w, http.StatusUnauthorized, h.MsgUnauthorized)
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.MsgServerError)
		return
	}
	h.SetSessionCookie(w, r, session, c.Now())
	h.WriteOK(w)
}

// List godoc
// @Summary List captured emails
// @Description Returns every captured email, newest first. Requires the archive_admin cookie.
// @Tags archive
// @Produce json
// @Success 200 {object} ListResponse
// @Failure 401 {object} helpers.ErrorResponse "Unauthorized"
// @Failure 500 {object} helpers.ErrorResponse "Server error."
// @Router /api/archive/list [get]
func (c *ArchiveController) List(w http.ResponseWriter, r *http.Request) {
	records, err := c.Archive.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.MsgServerError)
		return
	}
	h.WriteJSON(w, http.StatusOK, ListResponse{Emails: records})
}

// Logout godoc
// @Summary Drop the archive admin session
// @Description Expires the archive_admin cookie. Always succeeds.
// @Tags archive
// @Produce json
// @Success 200 {object} helpers.OKResponse
// @Router /api/archive/logout [post]
func (c *ArchiveController) Logout(w http.ResponseWriter, r *http.Request) {
	h.ClearSessionCookie(w, r)
	h.WriteOK(w)
}

// Health godoc
// @Summary Liveness probe
// @Tags ops
// @Produce json
// @Success 200 {object} helpers.OKResponse
// @Router /healthz [get]
func (c *ArchiveController) Health(w http.ResponseWriter, r *http.Request) {
	h.WriteOK(w)
}
