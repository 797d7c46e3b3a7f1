package app

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/factionops/scopebot/internal/adapters/sheets"
	"github.com/factionops/scopebot/internal/domain/eligibility"
	"github.com/factionops/scopebot/internal/domain/model"
)

// Game-site URLs surfaced in command replies.
const (
	ocPageURL       = "https://www.torn.com/factions.php?step=your&crimes=1"
	transferLinkFmt = "https://www.torn.com/factions.php?step=your/tab=controls&option=give-to-user&giveMoneyTo=%s&money=%d"
)

// tornIDPattern extracts the game id from display names like
// "shandurai [25719]".
var tornIDPattern = regexp.MustCompile(`\[(\d+)\]`)

// TransferLink is one ready-to-post money transfer for the delinquent
// review workflow.
type TransferLink struct {
	Row       int    `json:"row"`
	Direction string `json:"direction"` // "from" or "to"
	TornID    string `json:"torn_id"`
	Amount    int64  `json:"amount"`
	URL       string `json:"url"`
}

// Status returns the faction name and current scope.
func (s *Service) Status(ctx context.Context) (string, int, error) {
	snap, err := s.faction.FactionSnapshot(ctx)
	if err != nil {
		return "", 0, err
	}
	return snap.Name, snap.Scope, nil
}

// Balance resolves a member reference (a display name containing [ID], or
// a bare id) to their faction bank standing. Lookups hit the balance cache
// first so bursts of commands spend one API call.
func (s *Service) Balance(ctx context.Context, memberRef string) (model.MemberBalance, error) {
	id, ok := extractTornID(memberRef)
	if !ok {
		return model.MemberBalance{}, fmt.Errorf("%w: %q", ErrNoTornID, memberRef)
	}
	if bal, ok := s.balances.Get(id); ok {
		return bal, nil
	}

	all, err := s.faction.Balances(ctx)
	if err != nil {
		return model.MemberBalance{}, err
	}
	var found *model.MemberBalance
	for _, b := range all {
		s.balances.Add(b.ID, b)
		if b.ID == id {
			bal := b
			found = &bal
		}
	}
	if found == nil {
		return model.MemberBalance{}, fmt.Errorf("%w: %s", ErrUnknownMember, id)
	}
	return *found, nil
}

// BalanceRequest validates the amount against the member's balance and
// returns a give-to-user transfer link.
func (s *Service) BalanceRequest(ctx context.Context, memberRef string, amount int64) (string, error) {
	if amount <= 0 {
		return "", ErrBadAmount
	}
	bal, err := s.Balance(ctx, memberRef)
	if err != nil {
		return "", err
	}
	if amount > bal.Money {
		return "", fmt.Errorf("%w: balance is $%d", ErrInsufficientBalance, bal.Money)
	}
	return transferLink(bal.ID, amount), nil
}

// Eligibility evaluates a single member on demand against fresh snapshots.
// The bool reports whether any tier matched.
func (s *Service) Eligibility(ctx context.Context, memberID string) (eligibility.Suggestion, bool, error) {
	snap, err := s.faction.FactionSnapshot(ctx)
	if err != nil {
		return eligibility.Suggestion{}, false, err
	}
	rows, err := s.rows.Rows(ctx, s.cprTab)
	if err != nil {
		return eligibility.Suggestion{}, false, err
	}
	profile, ok := sheets.ParseCPRTable(rows)[memberID]
	if !ok {
		return eligibility.Suggestion{}, false, fmt.Errorf("%w: %s", ErrNotEvaluable, memberID)
	}
	sug, eligible := s.evaluator.Evaluate(profile, snap.Scope)
	return sug, eligible, nil
}

// Delinquents reads the delinquents tab and builds the outstanding
// transfer links, from-side first per row.
func (s *Service) Delinquents(ctx context.Context) ([]TransferLink, error) {
	rows, err := s.rows.Rows(ctx, s.delinquentsTab)
	if err != nil {
		return nil, err
	}
	var links []TransferLink
	for _, t := range sheets.ParseDelinquents(rows) {
		links = append(links, TransferLink{
			Row:       t.Row,
			Direction: "from",
			TornID:    t.FromID,
			Amount:    t.FromAmount,
			URL:       transferLink(t.FromID, t.FromAmount),
		})
		for _, toID := range t.ToIDs {
			links = append(links, TransferLink{
				Row:       t.Row,
				Direction: "to",
				TornID:    toID,
				Amount:    t.ToAmount,
				URL:       transferLink(toID, t.ToAmount),
			})
		}
	}
	return links, nil
}

// CompleteDelinquent marks a delinquent row resolved on the sheet.
func (s *Service) CompleteDelinquent(ctx context.Context, row int) error {
	return s.cells.Update(ctx, s.delinquentsTab, sheets.StatusCell(row), "Yes")
}

// ClearDelinquent wipes a delinquent row's transfer cells on the sheet.
func (s *Service) ClearDelinquent(ctx context.Context, row int) error {
	for _, cell := range sheets.ClearCells(row) {
		if err := s.cells.Update(ctx, s.delinquentsTab, cell, ""); err != nil {
			return err
		}
	}
	return nil
}

func transferLink(tornID string, amount int64) string {
	return fmt.Sprintf(transferLinkFmt, tornID, amount)
}

// extractTornID pulls the bracketed id out of a member reference, or
// accepts a bare numeric id as-is.
func extractTornID(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if m := tornIDPattern.FindStringSubmatch(ref); m != nil {
		return m[1], true
	}
	if ref != "" && strings.Trim(ref, "0123456789") == "" {
		return ref, true
	}
	return "", false
}
