package api

import (
	"net/http"
	"time"

	"github.com/nerrad567/authflow/internal/auth"
)

// identityOrFail reads the identity attached by the authentication gate.
// Handlers on authenticated routes should never see a nil identity; if they
// do, the route was wired without the gate and the request fails loudly.
func (s *Server) identityOrFail(w http.ResponseWriter, r *http.Request) (*auth.Identity, bool) {
	identity := auth.IdentityFromContext(r.Context())
	if identity == nil {
		s.logger.Error("handler reached without authentication — middleware order is broken",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", r.Context().Value(ctxKeyRequestID),
		)
		writeInternalError(w, "internal server error")
		return nil, false
	}
	return identity, true
}

// handlePublic is accessible without a token.
func (s *Server) handlePublic(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, "this is a public route accessible to everyone", map[string]any{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// handleProfile returns the authenticated account, resolved fresh from the
// store so the response reflects the current role, not the token's.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity, ok := s.identityOrFail(w, r)
	if !ok {
		return
	}

	account, err := s.accounts.GetAccount(r.Context(), identity.AccountID)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "profile data retrieved successfully", map[string]any{
		"account": account,
	})
}

// handleAdmin returns the account list and aggregate stats.
// Reachable only through the admin role gate.
func (s *Server) handleAdmin(w http.ResponseWriter, r *http.Request) {
	accounts, total, err := s.accounts.ListAccounts(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "admin data retrieved successfully", map[string]any{
		"accounts": accounts,
		"stats": map[string]any{
			"total_accounts": total,
		},
	})
}
