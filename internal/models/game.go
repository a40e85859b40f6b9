package models

// Side identifies one of the two participating teams of a game
type Side string

const (
	SideHome Side = "home"
	SideRoad Side = "road"
)

// Other returns the opposing side
func (s Side) Other() Side {
	if s == SideHome {
		return SideRoad
	}
	return SideHome
}

// Game types as carried by the report header
const (
	GameTypePreseason = "01"
	GameTypeRegular   = "02"
	GameTypePlayoffs  = "03"
)

// ShootoutPeriod is the period number used for the shootout of a regular-season game
const ShootoutPeriod = 5

// ExpectedColumns is the column count of a well-formed report row
const ExpectedColumns = 8

// Team is a participating team with the fixed-width code used in report text
type Team struct {
	ID   int64  `json:"id" validate:"required"`
	Code string `json:"code" validate:"required,len=3"`
}

// Roster maps side -> jersey number -> player id for the whole game
type Roster map[Side]map[int]int64

// Lookup resolves a jersey number on one side to a player id
func (r Roster) Lookup(side Side, number int) (int64, bool) {
	numbers, ok := r[side]
	if !ok {
		return 0, false
	}
	id, ok := numbers[number]
	return id, ok
}

// OnIceSide is one side's on-ice table for a single row
type OnIceSide struct {
	Skaters map[int]int64 `json:"skaters"` // jersey number -> player id, goalie included
	Goalie  *int64        `json:"goalie,omitempty"`
}

// OnIce holds both sides' on-ice tables for a row
type OnIce struct {
	Home OnIceSide `json:"home"`
	Road OnIceSide `json:"road"`
}

// ReportRow is one tokenized row of the play-by-play report
type ReportRow struct {
	Seq         int    `json:"seq" validate:"required"`
	Period      int    `json:"period" validate:"required"`
	Strength    string `json:"strength"`
	Elapsed     string `json:"elapsed"`
	Type        string `json:"type" validate:"required"`
	Description string `json:"description"`
	Secondary   string `json:"secondary,omitempty"`
	OnIce       OnIce  `json:"on_ice"`
	Columns     int    `json:"columns,omitempty"` // 0 when the tokenizer did not report it
}

// Score is a pair of running tallies
type Score struct {
	Home int `json:"home"`
	Road int `json:"road"`
}

// Of returns the tally for a side
func (s Score) Of(side Side) int {
	if side == SideHome {
		return s.Home
	}
	return s.Road
}

// GameReport is everything the engine needs to reconstruct one game
type GameReport struct {
	GameID     int64       `json:"game_id" validate:"required"`
	Season     int         `json:"season,omitempty"`
	GameType   string      `json:"game_type" validate:"omitempty,oneof=01 02 03 04"`
	Home       Team        `json:"home"`
	Road       Team        `json:"road"`
	Roster     Roster      `json:"roster"`
	Rows       []ReportRow `json:"rows" validate:"required,min=1,dive"`
	Feed       []FeedPlay  `json:"feed,omitempty"`
	FinalScore *Score      `json:"final_score,omitempty"`
}

// TeamOf returns the team playing on a side
func (g *GameReport) TeamOf(side Side) Team {
	if side == SideHome {
		return g.Home
	}
	return g.Road
}

// SideOf returns the side a team id plays on
func (g *GameReport) SideOf(teamID int64) (Side, bool) {
	switch teamID {
	case g.Home.ID:
		return SideHome, true
	case g.Road.ID:
		return SideRoad, true
	}
	return "", false
}

// IsShootout reports whether a period is this game's shootout
func (g *GameReport) IsShootout(period int) bool {
	return g.GameType == GameTypeRegular && period == ShootoutPeriod
}
