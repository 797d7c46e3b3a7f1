// Package model contains domain models passed between layers.
package model

// RoleCategory is one of the five fixed CPR rating categories.
type RoleCategory string

// The five rating categories tracked on the CPR sheet.
const (
	CategoryLeader   RoleCategory = "leader"
	CategoryHacker   RoleCategory = "hacker"
	CategoryDriver   RoleCategory = "driver"
	CategoryPointman RoleCategory = "pointman"
	CategoryOther    RoleCategory = "other"
)

// Categories lists the rating categories in sheet column order.
func Categories() []RoleCategory {
	return []RoleCategory{
		CategoryLeader,
		CategoryHacker,
		CategoryDriver,
		CategoryPointman,
		CategoryOther,
	}
}

// CrimeSkill is a member's rating for one named crime: the role they play
// in it, the crime level recorded on the sheet, and their CPR for it.
type CrimeSkill struct {
	Role  string
	Level int
	CPR   float64
}

// SkillProfile is one member's full CPR record, refreshed wholesale on
// each sheet read and treated as a read-only snapshot for one cycle.
// A rating of 0 means "unrated" and is excluded from averaging.
type SkillProfile struct {
	MemberID string
	Name     string
	Ratings  map[RoleCategory]float64
	Crimes   map[string]CrimeSkill
}

// Member is a faction member as reported by the game API.
type Member struct {
	ID         string
	Name       string
	LastAction int64 // unix seconds of the member's last activity
	InCrime    bool  // currently occupies a crime slot
	ReadyAt    int64 // unix seconds the occupied slot's crime is ready; 0 when not in a crime
	HasMission bool  // active criminal mission; skipped by the eligibility sweep
}

// CrimeSlot is one position inside a crime instance. UserID is empty while
// the slot is open.
type CrimeSlot struct {
	Position    string
	UserID      string
	ReadyAt     int64
	RequiredCPR float64
}

// Crime is a live crime instance with its open and filled slots.
type Crime struct {
	Name  string
	Level int
	Slots []CrimeSlot
}

// FactionSnapshot is one consistent read of the faction state. Scope is
// the shared budget gating which crime tiers can be initiated; the
// evaluator only checks sufficiency against it, it never deducts.
type FactionSnapshot struct {
	Name    string
	Scope   int
	Members []Member
	Crimes  []Crime
}

// RoleRequirement is one row of the requirements tab: what a given role in
// a given crime demands.
type RoleRequirement struct {
	Crime       string
	Role        string
	Level       int
	Influence   float64
	RequiredCPR float64
}

// RequirementsTable maps a crime name to its role requirements in sheet
// row order. Row order matters: the first listed entry supplies the
// crime's required level during slot enumeration.
type RequirementsTable map[string][]RoleRequirement

// RequiredLevel returns the level of the crime's first listed requirement,
// or 0 when the crime has no rows on the sheet.
func (t RequirementsTable) RequiredLevel(crime string) int {
	rows := t[crime]
	if len(rows) == 0 {
		return 0
	}
	return rows[0].Level
}

// Assignment pairs a member with an open role. Produced transiently per
// report; never persisted.
type Assignment struct {
	MemberID   string
	MemberName string
	Crime      string
	Role       string
	CPR        float64
}

// MemberBalance is one member's faction bank standing.
type MemberBalance struct {
	ID       string
	Username string
	Money    int64
	Points   int64
}

// DelinquentTransfer is one unresolved row of the delinquents tab: money
// owed by FromID and money due to each of ToIDs.
type DelinquentTransfer struct {
	Row        int // zero-based record index under the header row
	FromID     string
	FromAmount int64
	ToIDs      []string
	ToAmount   int64
}
