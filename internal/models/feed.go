package models

import "strings"

// FeedPlay is one play of the secondary structured feed
type FeedPlay struct {
	Period     int      `json:"period"`
	Elapsed    string   `json:"elapsed"`
	Type       string   `json:"type"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	ActiveID   *int64   `json:"active_id,omitempty"`
	PassiveID  *int64   `json:"passive_id,omitempty"`
	PIM        *int     `json:"pim,omitempty"`
	Infraction string   `json:"infraction,omitempty"`
	ShotType   string   `json:"shot_type,omitempty"`
}

// feedTypeAliases maps feed event names onto report type codes
var feedTypeAliases = map[string]string{
	"FACEOFF":      TypeFaceoff,
	"SHOT":         TypeShot,
	"SHOT_ON_GOAL": TypeShot,
	"MISSED_SHOT":  TypeMiss,
	"MISSED-SHOT":  TypeMiss,
	"GOAL":         TypeGoal,
	"BLOCKED_SHOT": TypeBlock,
	"BLOCKED-SHOT": TypeBlock,
	"HIT":          TypeHit,
	"GIVEAWAY":     TypeGiveaway,
	"TAKEAWAY":     TypeTakeaway,
	"PENALTY":      TypePenalty,
}

// NormalizedType returns the report type code for the play
func (p *FeedPlay) NormalizedType() string {
	t := strings.ToUpper(strings.TrimSpace(p.Type))
	if alias, ok := feedTypeAliases[t]; ok {
		return alias
	}
	return t
}
