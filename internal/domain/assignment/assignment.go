// Package assignment matches available members to open crime-role slots
// under capacity and qualification constraints, and flags crime levels
// worth expanding. The output is advisory only; nothing is reserved in
// any external system.
package assignment

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/factionops/scopebot/internal/domain/model"
)

// Availability and slot-turnover windows, in seconds.
const (
	// Members whose last action is older than this are not considered.
	activityStaleness = 86400
	// Members already in a slot are still considered when their crime is
	// ready within this window.
	turnoverWindow = 7200
)

// topRolesPerCrime bounds how many of a crime's hardest roles feed the
// capacity-expansion count.
const topRolesPerCrime = 3

// Input is one consistent set of snapshots for a single planning pass.
// All of it is read-only; the engine holds no state between passes.
type Input struct {
	Requirements model.RequirementsTable
	Skills       map[string]model.SkillProfile
	Crimes       []model.Crime
	Members      []model.Member
	Now          time.Time
}

// OpenRole is an unfilled slot flattened into a rankable record.
type OpenRole struct {
	Crime       string
	Position    string
	Level       int
	RequiredCPR float64
}

// Report is the outcome of one planning pass: the greedy member-to-role
// matching, rendered lines for the chat layer, and the crime levels where
// at least one available member could fill a top role if more crimes of
// that level existed.
type Report struct {
	Assignments []model.Assignment
	Suggestions []int
}

// Engine plans role assignments. Stateless and safe for concurrent use.
type Engine struct{}

// New creates an Engine.
func New() *Engine {
	return &Engine{}
}

// Plan runs one deterministic planning pass. Ordering is load-bearing:
// open roles are ranked by (required CPR desc, level desc) with discovery
// order breaking ties, and members are scanned in their snapshot order, so
// identical inputs always produce identical output. The context is checked
// between roles; a cancelled pass returns ctx.Err with no partial external
// effect, since the engine has none.
func (e *Engine) Plan(ctx context.Context, in Input) (Report, error) {
	available := availableMembers(in.Members, in.Now)
	open := openRoles(in.Crimes, in.Requirements)
	rankRoles(open)

	assignments := make([]model.Assignment, 0, len(open))
	pool := append([]model.Member(nil), available...)
	for _, role := range open {
		select {
		case <-ctx.Done():
			return Report{}, ctx.Err()
		default:
		}
		idx := firstQualified(pool, in.Skills, role)
		if idx < 0 {
			continue
		}
		m := pool[idx]
		assignments = append(assignments, model.Assignment{
			MemberID:   m.ID,
			MemberName: m.Name,
			Crime:      role.Crime,
			Role:       role.Position,
			CPR:        in.Skills[m.ID].Crimes[role.Crime].CPR,
		})
		pool = append(pool[:idx], pool[idx+1:]...)
	}

	// Capacity signals count against the availability-filtered pool from
	// before greedy consumption: the question is whether more crimes of a
	// level could be filled, not who is left over today.
	suggestions := expansionLevels(in.Crimes, available, in.Skills)

	return Report{Assignments: assignments, Suggestions: suggestions}, nil
}

// availableMembers keeps members active within the last day who either
// hold no slot or hold one that frees up within the turnover window.
func availableMembers(members []model.Member, now time.Time) []model.Member {
	nowUnix := now.Unix()
	out := make([]model.Member, 0, len(members))
	for _, m := range members {
		if nowUnix-m.LastAction > activityStaleness {
			continue
		}
		if m.InCrime && m.ReadyAt-nowUnix > turnoverWindow {
			continue
		}
		out = append(out, m)
	}
	return out
}

// openRoles flattens every unfilled slot into an OpenRole. The slot
// supplies the required CPR; the requirements table supplies the crime's
// level, defaulting to 0 for unlisted crimes.
func openRoles(crimes []model.Crime, reqs model.RequirementsTable) []OpenRole {
	var out []OpenRole
	for _, crime := range crimes {
		level := reqs.RequiredLevel(crime.Name)
		for _, slot := range crime.Slots {
			if slot.UserID != "" {
				continue
			}
			out = append(out, OpenRole{
				Crime:       crime.Name,
				Position:    slot.Position,
				Level:       level,
				RequiredCPR: slot.RequiredCPR,
			})
		}
	}
	return out
}

// rankRoles orders hardest-first: required CPR descending, then level
// descending. The sort is stable so equally hard roles keep discovery
// order and the earlier one is filled first.
func rankRoles(roles []OpenRole) {
	sort.SliceStable(roles, func(i, j int) bool {
		if roles[i].RequiredCPR != roles[j].RequiredCPR {
			return roles[i].RequiredCPR > roles[j].RequiredCPR
		}
		return roles[i].Level > roles[j].Level
	})
}

// firstQualified scans the pool in order and returns the index of the
// first member whose sheet entry for the role's crime matches the role
// label (case-insensitive) with sufficient CPR, or -1.
func firstQualified(pool []model.Member, skills map[string]model.SkillProfile, role OpenRole) int {
	for i, m := range pool {
		if qualifies(skills[m.ID], role) {
			return i
		}
	}
	return -1
}

func qualifies(profile model.SkillProfile, role OpenRole) bool {
	entry, ok := profile.Crimes[role.Crime]
	if !ok {
		return false
	}
	return strings.EqualFold(entry.Role, role.Position) && entry.CPR >= role.RequiredCPR
}

// expansionLevels reports, in descending order, every crime level for
// which at least one available member could fill one of that level's
// hardest roles. Each crime contributes its top roles by required CPR;
// open and filled slots both count, since a new crime of the same level
// would open all of them.
func expansionLevels(crimes []model.Crime, available []model.Member, skills map[string]model.SkillProfile) []int {
	byLevel := make(map[int][]OpenRole)
	for _, crime := range crimes {
		roles := make([]OpenRole, 0, len(crime.Slots))
		for _, slot := range crime.Slots {
			roles = append(roles, OpenRole{
				Crime:       crime.Name,
				Position:    slot.Position,
				Level:       crime.Level,
				RequiredCPR: slot.RequiredCPR,
			})
		}
		sort.SliceStable(roles, func(i, j int) bool {
			return roles[i].RequiredCPR > roles[j].RequiredCPR
		})
		if len(roles) > topRolesPerCrime {
			roles = roles[:topRolesPerCrime]
		}
		byLevel[crime.Level] = append(byLevel[crime.Level], roles...)
	}

	var levels []int
	for level, roles := range byLevel {
		count := 0
		for _, m := range available {
			for _, role := range roles {
				if qualifies(skills[m.ID], role) {
					count++
					break
				}
			}
		}
		if count >= 1 {
			levels = append(levels, level)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(levels)))
	return levels
}

// Lines renders the report for the chat layer, one assignment per line
// followed by the expansion suggestions.
func (r Report) Lines() []string {
	lines := make([]string, 0, len(r.Assignments)+len(r.Suggestions))
	for _, a := range r.Assignments {
		lines = append(lines, fmt.Sprintf("%s [%s] -> %s as %s (CPR %.0f)",
			a.MemberName, a.MemberID, a.Crime, a.Role, a.CPR))
	}
	for _, level := range r.Suggestions {
		lines = append(lines, fmt.Sprintf("Consider creating more level %d crimes.", level))
	}
	return lines
}
