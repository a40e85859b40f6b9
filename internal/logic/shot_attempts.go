package logic

import (
	"strconv"
	"strings"

	"github.com/openhockey/pbp-engine/internal/models"
)

// attemptSource is the shot-class information the deriver needs
type attemptSource struct {
	teamID    int64
	shooterID *int64
	eventType string
	goal      bool
	situation string
}

// deriveShotAttempts emits one record per on-ice skater of the attempting
// side, then the mirrored set for the opposing side
func (gc *gameContext) deriveShotAttempts(ev *models.Event, specific models.Entity) []*models.ShotAttempt {
	var src attemptSource
	switch e := specific.(type) {
	case *models.Shot:
		src = attemptSource{teamID: e.TeamID, shooterID: e.ShooterID, eventType: models.TypeShot, goal: e.Scored, situation: ev.Situation}
	case *models.Miss:
		src = attemptSource{teamID: e.TeamID, shooterID: e.ShooterID, eventType: models.TypeMiss, situation: ev.Situation}
	case *models.Block:
		// the report authors blocks from the blocker's side
		src = attemptSource{teamID: e.BlockedTeamID, shooterID: e.ShooterID, eventType: models.TypeBlock, situation: reverseSituation(ev.Situation)}
	default:
		return nil
	}

	forSide, ok := gc.game.SideOf(src.teamID)
	if !ok {
		return nil
	}
	againstSide := forSide.Other()

	forIce, againstIce := ev.OnIceOf(forSide), ev.OnIceOf(againstSide)
	skaters := strconv.Itoa(len(forIce)) + "v" + strconv.Itoa(len(againstIce))
	// differential before this event, from the envelope's pre-event score
	pre := ScoreTracker{home: ev.HomeScore, road: ev.RoadScore}
	diff := pre.Diff(forSide)
	forTeam, againstTeam := gc.game.TeamOf(forSide).ID, gc.game.TeamOf(againstSide).ID

	out := make([]*models.ShotAttempt, 0, len(forIce)+len(againstIce))
	for _, id := range forIce {
		out = append(out, &models.ShotAttempt{
			GameID:       ev.GameID,
			Seq:          ev.Seq,
			PlayerID:     id,
			TeamID:       forTeam,
			OtherTeamID:  againstTeam,
			ShooterID:    src.shooterID,
			EventType:    src.eventType,
			Goal:         src.goal,
			Situation:    src.situation,
			Skaters:      skaters,
			ScoreDiff:    diff,
			PlusMinus:    1,
			Actual:       src.shooterID != nil && *src.shooterID == id,
			OnIceFor:     forIce,
			OnIceAgainst: againstIce,
		})
	}
	for _, id := range againstIce {
		out = append(out, &models.ShotAttempt{
			GameID:       ev.GameID,
			Seq:          ev.Seq,
			PlayerID:     id,
			TeamID:       againstTeam,
			OtherTeamID:  forTeam,
			ShooterID:    src.shooterID,
			EventType:    src.eventType,
			Goal:         src.goal,
			Situation:    reverseSituation(src.situation),
			Skaters:      reverseSkaters(skaters),
			ScoreDiff:    -diff,
			PlusMinus:    -1,
			Actual:       false,
			OnIceFor:     againstIce,
			OnIceAgainst: forIce,
		})
	}
	return out
}

// reverseSituation swaps PP and SH and reverses skater-count notation
func reverseSituation(s string) string {
	switch s {
	case models.SituationPowerPlay:
		return models.SituationShorthanded
	case models.SituationShorthanded:
		return models.SituationPowerPlay
	case models.SituationEven, "":
		return s
	}
	return reverseSkaters(s)
}

// reverseSkaters turns "AvB" into "BvA"
func reverseSkaters(s string) string {
	a, b, ok := strings.Cut(s, "v")
	if !ok {
		return s
	}
	return b + "v" + a
}
