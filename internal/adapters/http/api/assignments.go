package api

import "net/http"

// AssignmentsHandler serves the on-demand role-assignment report.
type AssignmentsHandler struct {
	deps Dependencies
}

// NewAssignmentsHandler creates a new assignments handler.
func NewAssignmentsHandler(deps Dependencies) *AssignmentsHandler {
	return &AssignmentsHandler{deps: deps}
}

type assignmentsResponse struct {
	Report string `json:"report"`
}

// HandleGetReport handles GET /assignments requests. The report is already
// truncated for the chat layer by the service.
func (h *AssignmentsHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	report, err := h.deps.AssignmentReport(r.Context())
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, assignmentsResponse{Report: report})
}
