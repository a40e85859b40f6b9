package models

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Event type codes as they appear in the report
const (
	TypeFaceoff  = "FAC"
	TypeShot     = "SHOT"
	TypeMiss     = "MISS"
	TypeGoal     = "GOAL"
	TypeBlock    = "BLOCK"
	TypeHit      = "HIT"
	TypeGiveaway = "GIVE"
	TypeTakeaway = "TAKE"
	TypePenalty  = "PENL"
	TypeStop     = "STOP"
	TypeFail     = "FAIL"
)

// Numerical situation codes
const (
	SituationEven        = "EV"
	SituationPowerPlay   = "PP"
	SituationShorthanded = "SH"
)

// Zones, from the acting team's perspective
const (
	ZoneOffensive = "offensive"
	ZoneDefensive = "defensive"
	ZoneNeutral   = "neutral"
)

// Entity kinds
const (
	KindEvent           = "event"
	KindShot            = "shot"
	KindGoal            = "goal"
	KindMiss            = "miss"
	KindBlock           = "block"
	KindPenalty         = "penalty"
	KindFaceoff         = "faceoff"
	KindHit             = "hit"
	KindGiveaway        = "giveaway"
	KindTakeaway        = "takeaway"
	KindShootoutAttempt = "shootout_attempt"
	KindShotAttempt     = "shot_attempt"
)

// Entity is anything the engine persists through the gateway
type Entity interface {
	Kind() string
	Key() Key
}

// Key identifies a stored entity
type Key struct {
	Kind   string
	GameID int64
	Ref    string
}

func (k Key) String() string {
	return fmt.Sprintf("%s/%d/%s", k.Kind, k.GameID, k.Ref)
}

// UUID returns a deterministic row id for the key
func (k Key) UUID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("pbp:"+k.String()))
}

func eventKey(kind string, gameID int64, seq int) Key {
	return Key{Kind: kind, GameID: gameID, Ref: strconv.Itoa(seq)}
}

// EventKey returns the key of the envelope for a row
func EventKey(gameID int64, seq int) Key {
	return eventKey(KindEvent, gameID, seq)
}

// Event is the generic envelope built for every report row
type Event struct {
	GameID      int64    `json:"game_id"`
	Seq         int      `json:"seq"`
	Period      int      `json:"period"`
	Elapsed     int      `json:"elapsed"` // seconds into the period
	Description string   `json:"description"`
	Type        string   `json:"type"`
	HomeOnIce   []int64  `json:"home_on_ice"`
	RoadOnIce   []int64  `json:"road_on_ice"`
	HomeGoalie  *int64   `json:"home_goalie,omitempty"`
	RoadGoalie  *int64   `json:"road_goalie,omitempty"`
	HomeScore   int      `json:"home_score"`
	RoadScore   int      `json:"road_score"`
	X           *float64 `json:"x,omitempty"`
	Y           *float64 `json:"y,omitempty"`
	Situation   string   `json:"situation"`
	Stoppage    string   `json:"stoppage,omitempty"`
}

func (e *Event) Kind() string { return KindEvent }
func (e *Event) Key() Key     { return EventKey(e.GameID, e.Seq) }

// HasCoordinates reports whether both coordinates are set
func (e *Event) HasCoordinates() bool {
	return e.X != nil && e.Y != nil
}

// OnIceOf returns the skater ids of a side
func (e *Event) OnIceOf(side Side) []int64 {
	if side == SideHome {
		return e.HomeOnIce
	}
	return e.RoadOnIce
}

// GoalieOf returns the goalie id of a side, nil when the net is empty
func (e *Event) GoalieOf(side Side) *int64 {
	if side == SideHome {
		return e.HomeGoalie
	}
	return e.RoadGoalie
}

// Shot is a shot on goal, including the shot that produced a goal
type Shot struct {
	GameID       int64  `json:"game_id"`
	Seq          int    `json:"seq"`
	TeamID       int64  `json:"team_id"`
	Zone         string `json:"zone"`
	ShooterID    *int64 `json:"shooter_id,omitempty"`
	GoalieID     *int64 `json:"goalie_id,omitempty"`
	GoalieTeamID int64  `json:"goalie_team_id"`
	ShotType     string `json:"shot_type"`
	Distance     *int   `json:"distance,omitempty"`
	Scored       bool   `json:"scored"`
	PenaltyShot  bool   `json:"penalty_shot"`
}

func (s *Shot) Kind() string { return KindShot }
func (s *Shot) Key() Key     { return eventKey(KindShot, s.GameID, s.Seq) }

// Goal references the Shot it was scored on
type Goal struct {
	GameID         int64  `json:"game_id"`
	Seq            int    `json:"seq"`
	ShotSeq        int    `json:"shot_seq"`
	TeamID         int64  `json:"team_id"`
	ConcededTeamID int64  `json:"conceded_team_id"`
	ScorerID       *int64 `json:"scorer_id,omitempty"`
	Assist1ID      *int64 `json:"assist1_id,omitempty"`
	Assist2ID      *int64 `json:"assist2_id,omitempty"`
	GameGoal       int    `json:"game_goal"`
	TeamGoal       int    `json:"team_goal"`
	Tying          bool   `json:"tying"`
	GoAhead        bool   `json:"go_ahead"`
	EmptyNet       bool   `json:"empty_net"`
}

func (g *Goal) Kind() string { return KindGoal }
func (g *Goal) Key() Key     { return eventKey(KindGoal, g.GameID, g.Seq) }

// Miss is a shot that missed the net
type Miss struct {
	GameID       int64  `json:"game_id"`
	Seq          int    `json:"seq"`
	TeamID       int64  `json:"team_id"`
	Zone         string `json:"zone"`
	ShooterID    *int64 `json:"shooter_id,omitempty"`
	GoalieID     *int64 `json:"goalie_id,omitempty"`
	GoalieTeamID int64  `json:"goalie_team_id"`
	ShotType     string `json:"shot_type"`
	MissType     string `json:"miss_type"`
	Distance     *int   `json:"distance,omitempty"`
	PenaltyShot  bool   `json:"penalty_shot"`
}

func (m *Miss) Kind() string { return KindMiss }
func (m *Miss) Key() Key     { return eventKey(KindMiss, m.GameID, m.Seq) }

// Block is a shot blocked before reaching the net. TeamID is the blocking team.
type Block struct {
	GameID        int64  `json:"game_id"`
	Seq           int    `json:"seq"`
	TeamID        int64  `json:"team_id"`
	BlockerID     *int64 `json:"blocker_id,omitempty"`
	BlockedTeamID int64  `json:"blocked_team_id"`
	ShooterID     *int64 `json:"shooter_id,omitempty"`
	Zone          string `json:"zone"`
	ShotType      string `json:"shot_type"`
}

func (b *Block) Kind() string { return KindBlock }
func (b *Block) Key() Key     { return eventKey(KindBlock, b.GameID, b.Seq) }

// Penalty records the offender, server and drawer of an infraction
type Penalty struct {
	GameID      int64   `json:"game_id"`
	Seq         int     `json:"seq"`
	TeamID      int64   `json:"team_id"`
	PlayerID    *int64  `json:"player_id,omitempty"`
	ServedByID  *int64  `json:"served_by_id,omitempty"`
	DrawnTeamID *int64  `json:"drawn_team_id,omitempty"`
	DrawnByID   *int64  `json:"drawn_by_id,omitempty"`
	Infraction  *string `json:"infraction,omitempty"`
	PIM         int     `json:"pim"`
	PenaltyShot bool    `json:"penalty_shot"`
	Zone        string  `json:"zone,omitempty"`
}

func (p *Penalty) Kind() string { return KindPenalty }
func (p *Penalty) Key() Key     { return eventKey(KindPenalty, p.GameID, p.Seq) }

// Faceoff records winner and loser with zones from each perspective
type Faceoff struct {
	GameID       int64  `json:"game_id"`
	Seq          int    `json:"seq"`
	WinnerTeamID int64  `json:"winner_team_id"`
	WinnerID     *int64 `json:"winner_id,omitempty"`
	LoserTeamID  int64  `json:"loser_team_id"`
	LoserID      *int64 `json:"loser_id,omitempty"`
	Zone         string `json:"zone"`
	LostZone     string `json:"lost_zone"`
}

func (f *Faceoff) Kind() string { return KindFaceoff }
func (f *Faceoff) Key() Key     { return eventKey(KindFaceoff, f.GameID, f.Seq) }

// Hit is a body check
type Hit struct {
	GameID    int64  `json:"game_id"`
	Seq       int    `json:"seq"`
	TeamID    int64  `json:"team_id"`
	HitterID  *int64 `json:"hitter_id,omitempty"`
	HitTeamID int64  `json:"hit_team_id"`
	HitteeID  *int64 `json:"hittee_id,omitempty"`
	Zone      string `json:"zone,omitempty"`
}

func (h *Hit) Kind() string { return KindHit }
func (h *Hit) Key() Key     { return eventKey(KindHit, h.GameID, h.Seq) }

// Turnover is shared by giveaways and takeaways
type Turnover struct {
	GameID      int64  `json:"game_id"`
	Seq         int    `json:"seq"`
	TeamID      int64  `json:"team_id"`
	PlayerID    *int64 `json:"player_id,omitempty"`
	OtherTeamID int64  `json:"other_team_id"`
	Zone        string `json:"zone,omitempty"`
}

// Giveaway is a puck lost by the acting team
type Giveaway struct{ Turnover }

func (g *Giveaway) Kind() string { return KindGiveaway }
func (g *Giveaway) Key() Key     { return eventKey(KindGiveaway, g.GameID, g.Seq) }

// Takeaway is a puck won by the acting team
type Takeaway struct{ Turnover }

func (t *Takeaway) Kind() string { return KindTakeaway }
func (t *Takeaway) Key() Key     { return eventKey(KindTakeaway, t.GameID, t.Seq) }

// Shootout attempt types
const (
	AttemptGoal = "goal"
	AttemptShot = "shot"
	AttemptMiss = "miss"
	AttemptFail = "fail"
)

// ShootoutAttempt is one attempt of a regular-season shootout
type ShootoutAttempt struct {
	GameID       int64  `json:"game_id"`
	Seq          int    `json:"seq"`
	AttemptType  string `json:"attempt_type"`
	TeamID       int64  `json:"team_id"`
	ShooterID    *int64 `json:"shooter_id,omitempty"`
	GoalieTeamID int64  `json:"goalie_team_id"`
	GoalieID     *int64 `json:"goalie_id,omitempty"`
	ShotType     string `json:"shot_type,omitempty"`
	MissType     string `json:"miss_type,omitempty"`
	Distance     *int   `json:"distance,omitempty"`
	OnGoal       bool   `json:"on_goal"`
	Scored       bool   `json:"scored"`
}

func (s *ShootoutAttempt) Kind() string { return KindShootoutAttempt }
func (s *ShootoutAttempt) Key() Key     { return eventKey(KindShootoutAttempt, s.GameID, s.Seq) }

// ShotAttempt is one side's bookkeeping row for a shot-class event
type ShotAttempt struct {
	GameID       int64   `json:"game_id"`
	Seq          int     `json:"seq"`
	PlayerID     int64   `json:"player_id"`
	TeamID       int64   `json:"team_id"`
	OtherTeamID  int64   `json:"other_team_id"`
	ShooterID    *int64  `json:"shooter_id,omitempty"`
	EventType    string  `json:"event_type"`
	Goal         bool    `json:"goal"`
	Situation    string  `json:"situation"`
	Skaters      string  `json:"skaters"`
	ScoreDiff    int     `json:"score_diff"`
	PlusMinus    int     `json:"plus_minus"`
	Actual       bool    `json:"actual"`
	OnIceFor     []int64 `json:"on_ice_for"`
	OnIceAgainst []int64 `json:"on_ice_against"`
}

func (s *ShotAttempt) Kind() string { return KindShotAttempt }
func (s *ShotAttempt) Key() Key {
	return Key{Kind: KindShotAttempt, GameID: s.GameID, Ref: fmt.Sprintf("%d:%d", s.Seq, s.PlayerID)}
}

// NewEntity returns an empty entity for a kind, used when decoding stored payloads
func NewEntity(kind string) (Entity, bool) {
	switch kind {
	case KindEvent:
		return &Event{}, true
	case KindShot:
		return &Shot{}, true
	case KindGoal:
		return &Goal{}, true
	case KindMiss:
		return &Miss{}, true
	case KindBlock:
		return &Block{}, true
	case KindPenalty:
		return &Penalty{}, true
	case KindFaceoff:
		return &Faceoff{}, true
	case KindHit:
		return &Hit{}, true
	case KindGiveaway:
		return &Giveaway{}, true
	case KindTakeaway:
		return &Takeaway{}, true
	case KindShootoutAttempt:
		return &ShootoutAttempt{}, true
	case KindShotAttempt:
		return &ShotAttempt{}, true
	}
	return nil, false
}
