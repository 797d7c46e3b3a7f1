package api

import (
	"net/http"
	"strings"
)

// EligibilityHandler serves single-member tier suggestions.
type EligibilityHandler struct {
	deps Dependencies
}

// NewEligibilityHandler creates a new eligibility handler.
func NewEligibilityHandler(deps Dependencies) *EligibilityHandler {
	return &EligibilityHandler{deps: deps}
}

type eligibilityResponse struct {
	MemberID  string `json:"member_id"`
	Eligible  bool   `json:"eligible"`
	Level     int    `json:"level,omitempty"`
	ScopeCost int    `json:"scope_cost,omitempty"`
}

// HandleGetEligibility handles GET /eligibility/{member_id} requests.
func (h *EligibilityHandler) HandleGetEligibility(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	memberID := strings.TrimPrefix(r.URL.Path, "/eligibility/")
	if memberID == "" || strings.Contains(memberID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	sug, eligible, err := h.deps.Eligibility(r.Context(), memberID)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	resp := eligibilityResponse{MemberID: memberID, Eligible: eligible}
	if eligible {
		resp.Level = sug.Level
		resp.ScopeCost = sug.ScopeCost
	}
	writeJSON(w, http.StatusOK, resp)
}
