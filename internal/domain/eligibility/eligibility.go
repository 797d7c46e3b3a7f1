// Package eligibility decides which organized-crime tier, if any, a member
// qualifies for given their CPR ratings and the faction's current scope.
package eligibility

import "github.com/factionops/scopebot/internal/domain/model"

// TierRule is one row of the tier table: the crime level, the minimum
// average CPR it demands, and the scope it costs to initiate.
type TierRule struct {
	Level     int
	MinAvgCPR float64
	ScopeCost int
}

// The tier table is evaluated strictly top to bottom; the first row whose
// minimum and cost are both satisfied wins, even when a later row would
// also fit. Levels 6..3 share a minimum of 70 while their costs differ;
// that overlap is carried over from the operational sheet as-is.
func defaultTiers() []TierRule {
	return []TierRule{
		{Level: 8, MinAvgCPR: 60, ScopeCost: 4},
		{Level: 7, MinAvgCPR: 65, ScopeCost: 4},
		{Level: 6, MinAvgCPR: 70, ScopeCost: 4},
		{Level: 5, MinAvgCPR: 70, ScopeCost: 2},
		{Level: 4, MinAvgCPR: 70, ScopeCost: 2},
		{Level: 3, MinAvgCPR: 70, ScopeCost: 2},
		{Level: 2, MinAvgCPR: 70, ScopeCost: 1},
		{Level: 1, MinAvgCPR: 0, ScopeCost: 1},
	}
}

// Suggestion is a positive evaluation result.
type Suggestion struct {
	Level     int
	ScopeCost int
}

// Option applies a configuration option to the Evaluator.
type Option func(*Evaluator)

// WithTiers replaces the tier table. The rules are evaluated in the order
// given; callers are responsible for ordering them by priority.
func WithTiers(tiers []TierRule) Option {
	return func(e *Evaluator) {
		if len(tiers) > 0 {
			e.tiers = append([]TierRule(nil), tiers...)
		}
	}
}

// Evaluator holds the tier table. It is stateless across calls and safe
// for concurrent use.
type Evaluator struct {
	tiers []TierRule
}

// New creates an Evaluator with the default tier table.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{tiers: defaultTiers()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Tiers returns a copy of the evaluator's tier table.
func (e *Evaluator) Tiers() []TierRule {
	return append([]TierRule(nil), e.tiers...)
}

// Evaluate returns the first tier, walking the table top to bottom, whose
// minimum average CPR and scope cost are both satisfied. The average is
// taken over the member's positive category ratings only; a member with no
// positive rating is not eligible for any tier. Pure function of its
// inputs.
func (e *Evaluator) Evaluate(profile model.SkillProfile, scope int) (Suggestion, bool) {
	avg, rated := averageCPR(profile)
	if !rated {
		return Suggestion{}, false
	}
	for _, tier := range e.tiers {
		if avg >= tier.MinAvgCPR && scope >= tier.ScopeCost {
			return Suggestion{Level: tier.Level, ScopeCost: tier.ScopeCost}, true
		}
	}
	return Suggestion{}, false
}

// averageCPR computes the mean of the positive category ratings. The
// second return is false when every category is unrated (<= 0).
func averageCPR(profile model.SkillProfile) (float64, bool) {
	var sum float64
	var n int
	for _, cat := range model.Categories() {
		if v := profile.Ratings[cat]; v > 0 {
			sum += v
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
