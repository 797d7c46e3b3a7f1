package sheets

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/factionops/scopebot/internal/domain/model"
	"github.com/factionops/scopebot/pkg/metrics"
)

// CPR tab layout: the fixed identity and rating columns, then one
// "<crime> Role" / "<crime> Level" / "<crime> CPR" triplet per crime.
const (
	colPlayerID   = "Player ID"
	colPlayerName = "Player Name"

	roleSuffix  = " Role"
	levelSuffix = " Level"
	cprSuffix   = " CPR"
)

// ratingColumns maps rating category to its CPR tab header.
func ratingColumns() map[model.RoleCategory]string {
	return map[model.RoleCategory]string{
		model.CategoryLeader:   "CPR Leader",
		model.CategoryHacker:   "CPR Hacker",
		model.CategoryDriver:   "CPR Driver",
		model.CategoryPointman: "CPR Pointman",
		model.CategoryOther:    "CPR Other",
	}
}

// Delinquents tab column map, zero-based. Rows shorter than the minimum
// width are ignored.
const (
	delinquentMinWidth     = 32
	delinquentStatusCol    = 24
	delinquentFromAmtCol   = 28
	delinquentFromIDCol    = 29
	delinquentToAmtCol     = 30
	delinquentToIDsCol     = 31
	delinquentHeaderOffset = 2 // header row plus 1-based cell addressing

	// Cell columns for write-back actions on one delinquent row.
	delinquentStatusCell  = "Y"
	delinquentFromAmtCell = "AC"
	delinquentFromIDCell  = "AD"
)

// ParseCPRTable turns raw CPR tab rows into skill profiles keyed by member
// id. Rows without a player id are dropped; malformed numeric cells coerce
// to 0 and the row survives.
func ParseCPRTable(rows [][]string) map[string]model.SkillProfile {
	out := make(map[string]model.SkillProfile)
	if len(rows) < 2 {
		return out
	}

	header := rows[0]
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.TrimSpace(h)] = i
	}
	crimes := crimeColumns(header)

	for _, row := range rows[1:] {
		id := strings.TrimSpace(cell(row, index[colPlayerID]))
		if id == "" {
			continue
		}
		profile := model.SkillProfile{
			MemberID: id,
			Name:     strings.TrimSpace(cell(row, index[colPlayerName])),
			Ratings:  make(map[model.RoleCategory]float64),
			Crimes:   make(map[string]model.CrimeSkill),
		}
		for cat, col := range ratingColumns() {
			profile.Ratings[cat] = parseFloatCell(cell(row, index[col]))
		}
		for _, crime := range crimes {
			role := strings.TrimSpace(cell(row, index[crime+roleSuffix]))
			if role == "" {
				continue
			}
			profile.Crimes[crime] = model.CrimeSkill{
				Role:  role,
				Level: parseIntCell(cell(row, index[crime+levelSuffix])),
				CPR:   parseFloatCell(cell(row, index[crime+cprSuffix])),
			}
		}
		out[id] = profile
	}
	return out
}

// crimeColumns extracts crime names from the header triplets, in column
// order.
func crimeColumns(header []string) []string {
	var crimes []string
	seen := make(map[string]bool)
	for _, h := range header {
		h = strings.TrimSpace(h)
		if !strings.HasSuffix(h, roleSuffix) {
			continue
		}
		crime := strings.TrimSuffix(h, roleSuffix)
		if crime == "" || seen[crime] {
			continue
		}
		seen[crime] = true
		crimes = append(crimes, crime)
	}
	return crimes
}

// ParseRequirements turns requirements tab rows (Crime, Role, Level,
// Influence, CPR) into a table keyed by crime, preserving row order within
// each crime.
func ParseRequirements(rows [][]string) model.RequirementsTable {
	table := make(model.RequirementsTable)
	if len(rows) < 2 {
		return table
	}
	for _, row := range rows[1:] {
		crime := strings.TrimSpace(cell(row, 0))
		role := strings.TrimSpace(cell(row, 1))
		if crime == "" || role == "" {
			continue
		}
		table[crime] = append(table[crime], model.RoleRequirement{
			Crime:       crime,
			Role:        role,
			Level:       parseIntCell(cell(row, 2)),
			Influence:   parseFloatCell(cell(row, 3)),
			RequiredCPR: parseFloatCell(cell(row, 4)),
		})
	}
	return table
}

// ParseDelinquents extracts unresolved transfer rows. Completed rows (any
// status value) and rows missing the from amount or id are skipped; a bad
// to-side leaves the from-side usable.
func ParseDelinquents(rows [][]string) []model.DelinquentTransfer {
	var out []model.DelinquentTransfer
	if len(rows) < 2 {
		return out
	}
	for idx, row := range rows[1:] {
		if len(row) < delinquentMinWidth {
			continue
		}
		if strings.TrimSpace(row[delinquentStatusCol]) != "" {
			continue
		}
		fromAmt, ok := parseAmount(row[delinquentFromAmtCol])
		fromID := strings.TrimSpace(row[delinquentFromIDCol])
		if !ok || fromID == "" {
			continue
		}
		t := model.DelinquentTransfer{
			Row:        idx,
			FromID:     fromID,
			FromAmount: fromAmt,
		}
		if toAmt, ok := parseAmount(row[delinquentToAmtCol]); ok {
			t.ToAmount = toAmt
			t.ToIDs = strings.Fields(row[delinquentToIDsCol])
		}
		out = append(out, t)
	}
	return out
}

// StatusCell returns the cell reference marking a delinquent row complete.
func StatusCell(row int) string {
	return delinquentStatusCell + strconv.Itoa(row+delinquentHeaderOffset)
}

// ClearCells returns the cell references wiped when a delinquent row is
// cleared.
func ClearCells(row int) []string {
	n := strconv.Itoa(row + delinquentHeaderOffset)
	return []string{delinquentFromAmtCell + n, delinquentFromIDCell + n}
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

var nonDigits = regexp.MustCompile(`[^\d]`)

// parseAmount strips currency formatting (and any sign) down to digits.
func parseAmount(raw string) (int64, bool) {
	digits := nonDigits.ReplaceAllString(raw, "")
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		metrics.RecordMalformedRow()
		return 0, false
	}
	return n, true
}

func parseFloatCell(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		metrics.RecordMalformedRow()
		return 0
	}
	return v
}

func parseIntCell(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		metrics.RecordMalformedRow()
		return 0
	}
	return v
}
