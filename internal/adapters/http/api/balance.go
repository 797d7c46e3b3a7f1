package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// BalanceHandler serves balance lookups and transfer-link requests.
type BalanceHandler struct {
	deps Dependencies
}

// NewBalanceHandler creates a new balance handler.
func NewBalanceHandler(deps Dependencies) *BalanceHandler {
	return &BalanceHandler{deps: deps}
}

type balanceResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Money    int64  `json:"money"`
	Points   int64  `json:"points"`
}

// HandleGetBalance handles GET /balance?member= requests. The member param
// is a display name containing [ID] or a bare id.
func (h *BalanceHandler) HandleGetBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	member := strings.TrimSpace(r.URL.Query().Get("member"))
	if member == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing member parameter"))
		return
	}
	bal, err := h.deps.Balance(r.Context(), member)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		ID:       bal.ID,
		Username: bal.Username,
		Money:    bal.Money,
		Points:   bal.Points,
	})
}

type balanceRequestBody struct {
	Member string `json:"member"`
	Amount int64  `json:"amount"`
}

func (b balanceRequestBody) validate() error {
	switch {
	case strings.TrimSpace(b.Member) == "":
		return errors.New("missing member")
	case b.Amount <= 0:
		return errors.New("amount must be positive")
	}
	return nil
}

type balanceRequestResponse struct {
	Link string `json:"link"`
}

// HandlePostRequest handles POST /balance-request requests.
func (h *BalanceHandler) HandlePostRequest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var body balanceRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := body.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	link, err := h.deps.BalanceRequest(r.Context(), body.Member, body.Amount)
	if err != nil {
		writeCommandError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceRequestResponse{Link: link})
}
