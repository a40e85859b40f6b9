package logic

import (
	"regexp"
	"strings"

	"github.com/openhockey/pbp-engine/internal/models"
)

var goalRules = []rule{
	{name: "zone", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,(]*(?:\(\d+\))?, (?P<type>[^,]+), (?:Off|Def|Neu)\. Zone(?:, (?P<distance>\d+) ft\.?)?`)},
	{name: "zone_only", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,(]*(?:\(\d+\))?, (?:Off|Def|Neu)\. Zone(?:, (?P<distance>\d+) ft\.?)?`)},
	{name: "no_zone", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,(]*(?:\(\d+\))?, (?P<type>[^,]+), (?P<distance>\d+) ft\.?`)},
	{name: "distance_only", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,(]*(?:\(\d+\))?, (?P<distance>\d+) ft\.?`)},
	// the assists clause follows the shot clause without a comma
	{name: "type_only", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,(]*(?:\(\d+\))?, (?P<type>[^,]+?)\.?(?:\s+Assists?:.*)?\s*$`)},
	{name: "scorer_only", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+)`)},
}

var assistsPattern = regexp.MustCompile(`Assists?:\s*(.+)$`)

// extractGoal produces the scored Shot and the Goal that references it
func extractGoal(gc *gameContext, ev *models.Event) []models.Entity {
	text, penaltyShot := stripPenaltyShot(ev.Description)
	m, ok := firstMatch(goalRules, text)
	if !ok {
		gc.unmatched(ev, "goal")
		return nil
	}
	sc, ok := gc.shotContext(ev, m.get("number"), penaltyShot)
	if !ok {
		gc.unmatched(ev, "goal")
		return nil
	}

	shot := &models.Shot{
		GameID:       ev.GameID,
		Seq:          ev.Seq,
		TeamID:       sc.teamID,
		Zone:         sc.zone,
		ShooterID:    sc.shooterID,
		GoalieID:     sc.goalieID,
		GoalieTeamID: sc.goalieTeamID,
		ShotType:     m.get("type"),
		Distance:     m.intPtr("distance"),
		Scored:       true,
		PenaltyShot:  sc.penaltyShot,
	}

	outcome := gc.score.Apply(sc.primary)
	goal := &models.Goal{
		GameID:         ev.GameID,
		Seq:            ev.Seq,
		ShotSeq:        shot.Seq,
		TeamID:         sc.teamID,
		ConcededTeamID: sc.goalieTeamID,
		ScorerID:       sc.shooterID,
		GameGoal:       outcome.GameGoal,
		TeamGoal:       outcome.TeamGoal,
		Tying:          outcome.Tying,
		GoAhead:        outcome.GoAhead,
		EmptyNet:       shot.GoalieID == nil,
	}

	assists := gc.assists(sc.primary, text)
	if len(assists) > 0 {
		goal.Assist1ID = assists[0]
	}
	if len(assists) > 1 {
		goal.Assist2ID = assists[1]
	}

	return []models.Entity{shot, goal}
}

// assists resolves up to two assisters from the "Assists:" clause through
// the scoring side's roster
func (gc *gameContext) assists(side models.Side, text string) []*int64 {
	sub := assistsPattern.FindStringSubmatch(text)
	if sub == nil {
		return nil
	}

	var out []*int64
	for _, part := range strings.Split(sub[1], ";") {
		num := numberPattern.FindStringSubmatch(part)
		if num == nil {
			continue
		}
		out = append(out, gc.player(side, num[1]))
		if len(out) == 2 {
			break
		}
	}
	return out
}
