package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/authflow/internal/audit"
)

// handleAuditLogs lists audit trail entries, newest first. Optional query
// parameters: action, account_id, limit.
func (s *Server) handleAuditLogs(w http.ResponseWriter, r *http.Request) {
	if s.audit == nil {
		writeInternalError(w, "audit logging not available")
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		Action:    audit.Action(q.Get("action")),
		AccountID: q.Get("account_id"),
	}

	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "limit must be an integer")
			return
		}
		filter.Limit = n
	}

	entries, err := s.audit.List(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeSuccess(w, http.StatusOK, "audit entries retrieved", map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}
