package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/auctionhouse/internal/api/middleware"
	"github.com/mcoot/auctionhouse/internal/api/request"
	"github.com/mcoot/auctionhouse/internal/api/response"
	"github.com/mcoot/auctionhouse/internal/services/auth"
)

// AuthHandler issues bearer tokens
type AuthHandler struct {
	authService *auth.Service
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// LoginAdmin handles POST /api/v1/auth/admin
func (h *AuthHandler) LoginAdmin(w http.ResponseWriter, r *http.Request) {
	var req request.AdminLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.authService.LoginAdmin(req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// LoginTeam handles POST /api/v1/auth/team
func (h *AuthHandler) LoginTeam(w http.ResponseWriter, r *http.Request) {
	var req request.TeamLoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	if req.TeamID == "" {
		WriteError(w, NewInvalidRequestError("teamId is required"))
		return
	}

	session, err := h.authService.LoginTeam(req.TeamID, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.AuthResponseFromSession(session))
}

// Logout handles POST /api/v1/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session := middleware.GetSession(r.Context()); session != nil {
		h.authService.InvalidateSession(session.Token)
	}
	response.NoContent(w)
}
