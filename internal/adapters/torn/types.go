package torn

import "encoding/json"

// Wire shapes for the game API v2 faction selections. Only the fields the
// service reads are declared; everything else in the payload is ignored.

type factionResponse struct {
	Name    string                `json:"name"`
	Members map[string]memberJSON `json:"members"`
	Crimes  crimesJSON            `json:"crimes"`
}

type memberJSON struct {
	Name       string `json:"name"`
	LastAction struct {
		Timestamp int64 `json:"timestamp"`
	} `json:"last_action"`
	// Non-null while the member is on an active criminal mission; the
	// shape varies by mission type so it stays raw.
	CriminalMission json.RawMessage `json:"criminal_mission"`
}

type crimesJSON struct {
	Scope int         `json:"scope"`
	List  []crimeJSON `json:"list"`
}

type crimeJSON struct {
	Name       string     `json:"name"`
	Difficulty int        `json:"difficulty"`
	ReadyAt    int64      `json:"ready_at"`
	Slots      []slotJSON `json:"slots"`
}

type slotJSON struct {
	Position    string    `json:"position"`
	RequiredCPR float64   `json:"checkpoint_pass_rate"`
	User        *slotUser `json:"user"`
}

type slotUser struct {
	ID int64 `json:"id"`
}

type balancesResponse struct {
	Balance struct {
		Members []balanceJSON `json:"members"`
	} `json:"balance"`
}

type balanceJSON struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Money    int64  `json:"money"`
	Points   int64  `json:"points"`
}
