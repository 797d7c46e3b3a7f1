package eligibility_test

import (
	"testing"

	"github.com/factionops/scopebot/internal/domain/eligibility"
	"github.com/factionops/scopebot/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func profile(leader, hacker, driver, pointman, other float64) model.SkillProfile {
	return model.SkillProfile{
		MemberID: "1",
		Name:     "tester",
		Ratings: map[model.RoleCategory]float64{
			model.CategoryLeader:   leader,
			model.CategoryHacker:   hacker,
			model.CategoryDriver:   driver,
			model.CategoryPointman: pointman,
			model.CategoryOther:    other,
		},
	}
}

func TestEvaluator_Evaluate(t *testing.T) {
	Convey("Given the default tier table", t, func() {
		ev := eligibility.New()

		Convey("When a member averages 70 with ample scope", func() {
			// {80, 0, 70, 0, 60}: zeros are excluded, mean of {80,70,60} = 70
			sug, ok := ev.Evaluate(profile(80, 0, 70, 0, 60), 4)

			Convey("Then the first matching tier from the top wins", func() {
				So(ok, ShouldBeTrue)
				So(sug.Level, ShouldEqual, 8) // level 8 needs only 60 average
				So(sug.ScopeCost, ShouldEqual, 4)
			})
		})

		Convey("When scope cannot cover the top tiers", func() {
			sug, ok := ev.Evaluate(profile(80, 0, 70, 0, 60), 3)

			Convey("Then the walk falls through to the first affordable tier", func() {
				So(ok, ShouldBeTrue)
				So(sug.Level, ShouldEqual, 5) // levels 8..6 cost 4, level 5 costs 2
				So(sug.ScopeCost, ShouldEqual, 2)
			})
		})

		Convey("When the average sits between level 8's and level 7's minimums", func() {
			// mean of {62, 62, 62, 62, 62} = 62
			sug, ok := ev.Evaluate(profile(62, 62, 62, 62, 62), 4)

			Convey("Then level 8 still matches because its minimum is the lowest", func() {
				So(ok, ShouldBeTrue)
				So(sug.Level, ShouldEqual, 8)
			})

			Convey("And without scope for the big tiers only level 1 is left", func() {
				sug, ok = ev.Evaluate(profile(62, 62, 62, 62, 62), 1)
				So(ok, ShouldBeTrue)
				So(sug.Level, ShouldEqual, 1)
				So(sug.ScopeCost, ShouldEqual, 1)
			})
		})

		Convey("When every category is unrated", func() {
			sug, ok := ev.Evaluate(profile(0, 0, 0, 0, 0), 10)

			Convey("Then the member is not eligible and nothing faults", func() {
				So(ok, ShouldBeFalse)
				So(sug.Level, ShouldEqual, 0)
			})
		})

		Convey("When scope is zero", func() {
			_, ok := ev.Evaluate(profile(90, 90, 90, 90, 90), 0)

			Convey("Then even level 1 is out of reach", func() {
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When a top-rated member has full scope", func() {
			sug, ok := ev.Evaluate(profile(100, 100, 100, 100, 100), 10)

			Convey("Then the highest tier wins, never a lower one that also fits", func() {
				So(ok, ShouldBeTrue)
				So(sug.Level, ShouldEqual, 8)
			})
		})
	})

	Convey("Given a custom tier table", t, func() {
		ev := eligibility.New(eligibility.WithTiers([]eligibility.TierRule{
			{Level: 2, MinAvgCPR: 50, ScopeCost: 1},
			{Level: 1, MinAvgCPR: 0, ScopeCost: 1},
		}))

		Convey("When evaluating against it", func() {
			sug, ok := ev.Evaluate(profile(55, 0, 0, 0, 0), 1)

			Convey("Then the custom rules apply in order", func() {
				So(ok, ShouldBeTrue)
				So(sug.Level, ShouldEqual, 2)
			})
		})
	})
}

func TestEvaluator_Tiers(t *testing.T) {
	Convey("Given the default evaluator", t, func() {
		ev := eligibility.New()

		Convey("When reading the tier table", func() {
			tiers := ev.Tiers()

			Convey("Then it carries the operational sheet exactly, overlap included", func() {
				So(tiers, ShouldHaveLength, 8)
				So(tiers[0], ShouldResemble, eligibility.TierRule{Level: 8, MinAvgCPR: 60, ScopeCost: 4})
				So(tiers[2], ShouldResemble, eligibility.TierRule{Level: 6, MinAvgCPR: 70, ScopeCost: 4})
				So(tiers[3], ShouldResemble, eligibility.TierRule{Level: 5, MinAvgCPR: 70, ScopeCost: 2})
				So(tiers[7], ShouldResemble, eligibility.TierRule{Level: 1, MinAvgCPR: 0, ScopeCost: 1})
			})
		})
	})
}
