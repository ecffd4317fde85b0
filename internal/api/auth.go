package api

import (
	"encoding/json"
	"net/http"
)

// registerRequest is the request body for POST /api/auth/register.
// The client sends the display name as "name".
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest is the request body for POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleRegister creates an account and returns it with its first token.
// The password hash never appears in the response.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	account, token, err := s.accounts.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "account created successfully", map[string]any{
		"account": account,
		"token":   token,
	})
}

// handleLogin verifies credentials and returns a fresh token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	account, token, err := s.accounts.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "logged in successfully", map[string]any{
		"account": account,
		"token":   token,
	})
}

// handleMe returns the authenticated account's profile.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identityOrFail(w, r)
	if !ok {
		return
	}

	account, err := s.accounts.GetAccount(r.Context(), identity.AccountID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "profile retrieved successfully", map[string]any{
		"account": account,
	})
}
