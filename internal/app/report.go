package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/factionops/scopebot/internal/adapters/sheets"
	"github.com/factionops/scopebot/internal/domain/assignment"
	"github.com/factionops/scopebot/pkg/metrics"
)

const truncationMark = "\n[truncated]"

// AssignmentReport runs one planning pass against fresh snapshots and
// renders it for the chat layer, truncated to the configured limit.
// Advisory only; nothing is reserved anywhere.
func (s *Service) AssignmentReport(ctx context.Context) (string, error) {
	snap, err := s.faction.FactionSnapshot(ctx)
	if err != nil {
		return "", fmt.Errorf("faction snapshot: %w", err)
	}
	reqRows, err := s.rows.Rows(ctx, s.requirementsTab)
	if err != nil {
		return "", fmt.Errorf("requirements table: %w", err)
	}
	cprRows, err := s.rows.Rows(ctx, s.cprTab)
	if err != nil {
		return "", fmt.Errorf("cpr table: %w", err)
	}

	report, err := s.engine.Plan(ctx, assignment.Input{
		Requirements: sheets.ParseRequirements(reqRows),
		Skills:       sheets.ParseCPRTable(cprRows),
		Crimes:       snap.Crimes,
		Members:      snap.Members,
		Now:          s.now(),
	})
	if err != nil {
		return "", err
	}
	metrics.RecordAssignmentReport(len(report.Assignments))

	lines := report.Lines()
	if len(lines) == 0 {
		return "No open roles can be filled right now.", nil
	}
	return truncate(strings.Join(lines, "\n"), s.reportCharLimit), nil
}

// truncate cuts text to at most limit runes, marking the cut.
func truncate(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	keep := limit - len([]rune(truncationMark))
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + truncationMark
}
