package api

import (
	"net/http"
	"strconv"
	"strings"
)

// DelinquentsHandler serves the delinquent-transfer review workflow: the
// outstanding transfer links plus the approve/clear write-back actions.
type DelinquentsHandler struct {
	deps Dependencies
}

// NewDelinquentsHandler creates a new delinquents handler.
func NewDelinquentsHandler(deps Dependencies) *DelinquentsHandler {
	return &DelinquentsHandler{deps: deps}
}

// HandleList handles GET /delinquents requests.
func (h *DelinquentsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	links, err := h.deps.Delinquents(r.Context())
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, links)
}

type actionResponse struct {
	Row    int    `json:"row"`
	Action string `json:"action"`
}

// HandleAction handles POST /delinquents/{row}/complete and
// /delinquents/{row}/clear requests.
func (h *DelinquentsHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	parts := strings.Split(strings.TrimPrefix(r.URL.Path, "/delinquents/"), "/")
	if len(parts) != 2 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	row, err := strconv.Atoi(parts[0])
	if err != nil || row < 0 {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	action := parts[1]
	switch action {
	case "complete":
		err = h.deps.CompleteDelinquent(r.Context(), row)
	case "clear":
		err = h.deps.ClearDelinquent(r.Context(), row)
	default:
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, actionResponse{Row: row, Action: action})
}
