package logic

import (
	"regexp"

	"github.com/openhockey/pbp-engine/internal/models"
)

var failRules = []rule{
	{name: "shooter", re: regexp.MustCompile(`^(?P<team>.{3})(?: [A-Z]+ -)? #(?P<number>\d+)`)},
	{name: "team", re: regexp.MustCompile(`^(?P<team>.{3})\b`)},
}

var attemptTypes = map[string]string{
	models.TypeGoal: models.AttemptGoal,
	models.TypeShot: models.AttemptShot,
	models.TypeMiss: models.AttemptMiss,
	models.TypeFail: models.AttemptFail,
}

// extractShootoutAttempt handles shot-class and FAIL rows of a shootout.
// The running score is not touched.
func extractShootoutAttempt(gc *gameContext, ev *models.Event) []models.Entity {
	attempt := attemptTypes[ev.Type]

	var rules []rule
	switch ev.Type {
	case models.TypeGoal:
		rules = goalRules
	case models.TypeShot:
		rules = shotRules
	case models.TypeMiss:
		rules = missRules
	default:
		rules = failRules
	}

	text, _ := stripPenaltyShot(ev.Description)
	m, ok := firstMatch(rules, text)
	if !ok {
		gc.unmatched(ev, "shootout")
		return nil
	}
	sc, ok := gc.shotContext(ev, m.get("number"), false)
	if !ok {
		gc.unmatched(ev, "shootout")
		return nil
	}

	sa := &models.ShootoutAttempt{
		GameID:       ev.GameID,
		Seq:          ev.Seq,
		AttemptType:  attempt,
		TeamID:       sc.teamID,
		ShooterID:    sc.shooterID,
		GoalieTeamID: sc.goalieTeamID,
		GoalieID:     sc.goalieID,
		ShotType:     m.get("type"),
		MissType:     m.get("miss"),
		Distance:     m.intPtr("distance"),
		OnGoal:       attempt == models.AttemptGoal || attempt == models.AttemptShot,
		Scored:       attempt == models.AttemptGoal,
	}
	if m.has("token") {
		sa.ShotType, sa.MissType = gc.classifyMissToken(ev, m.get("token"))
	}
	return []models.Entity{sa}
}
