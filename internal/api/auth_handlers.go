package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/taskdeck/taskdeck/internal/auth"
	"github.com/taskdeck/taskdeck/internal/store"
)

// minPasswordLength is enforced at registration only; existing
// passwords are never re-validated.
const minPasswordLength = 8

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type signupResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ID          int64  `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"full_name,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type meResponse struct {
	ID       int64  `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}

	if _, err := mail.ParseAddress(req.Email); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid email address")
		return
	}
	if len(req.Password) < minPasswordLength {
		writeDetail(w, http.StatusUnprocessableEntity, "Password must be at least 8 characters")
		return
	}

	user, err := a.auth.Register(r.Context(), req.Email, req.FullName, req.Password)
	if errors.Is(err, store.ErrEmailTaken) {
		writeDetail(w, http.StatusBadRequest, "Email already registered")
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	token, _, err := a.tokens.Issue(user.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, signupResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ID:          user.ID,
		Email:       user.Email,
		FullName:    user.FullName,
	})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeDetail(w, http.StatusUnprocessableEntity, "Email and password are required")
		return
	}

	user, err := a.auth.Authenticate(r.Context(), req.Email, req.Password)
	if errors.Is(err, auth.ErrInvalidCredentials) {
		writeDetail(w, http.StatusUnauthorized, "Incorrect email or password")
		return
	}
	if err != nil {
		writeInternalError(w, err)
		return
	}

	token, _, err := a.tokens.Issue(user.ID)
	if err != nil {
		writeInternalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	writeJSON(w, http.StatusOK, meResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
	})
}
