package logic

import (
	"regexp"

	"github.com/openhockey/pbp-engine/internal/models"
)

var blockRules = []rule{
	{name: "both", re: regexp.MustCompile(`^(?P<shooter_team>.{3}) #(?P<shooter>\d+) .*?\bBLOCKED BY\s+(?P<blocker_team>.{3}) #(?P<blocker>\d+)`)},
	{name: "shooter_only", re: regexp.MustCompile(`^(?P<shooter_team>.{3}) #(?P<shooter>\d+) .*?\bBLOCKED BY\b`)},
	{name: "blocker_only", re: regexp.MustCompile(`\bBLOCKED BY\s+(?P<blocker_team>.{3}) #(?P<blocker>\d+)`)},
}

var hitRules = []rule{
	{name: "both", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<hitter>\d+) .*?\bHIT\s+(?P<hit_team>.{3}) #(?P<hittee>\d+)`)},
	{name: "hitter_only", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<hitter>\d+) .*?\bHIT\b`)},
	{name: "hittee_only", re: regexp.MustCompile(`^(?P<team>.{3}) .*?\bHIT\s+(?P<hit_team>.{3}) #(?P<hittee>\d+)`)},
}

var (
	blockShotTypePattern = regexp.MustCompile(`, ([^,]+), (?:Off|Def|Neu)\. Zone`)
	// no zone clause: the shot type is the last comma-delimited token
	blockTrailingTypePattern = regexp.MustCompile(`, ([^,]+?)\s*$`)
)

// extractBlock resolves the blocking and the blocked side. The text is
// prefixed with the shooter's team; the record's team is the blocker's.
func extractBlock(gc *gameContext, ev *models.Event) []models.Entity {
	text := ev.Description
	m, ok := firstMatch(blockRules, text)
	if !ok {
		gc.unmatched(ev, "block")
		return nil
	}

	var blocking, blocked models.Side
	switch {
	case m.has("blocker_team"):
		_, side, ok := gc.teamByCode(m.get("blocker_team"))
		if !ok {
			gc.unmatched(ev, "block")
			return nil
		}
		blocking, blocked = side, side.Other()
	default:
		// no blocking team is printed, as in "BLOCKED BY TEAMMATE"; the
		// blocking side is then the shooter's opponent, not the teammate's team
		_, side, ok := gc.teamByCode(m.get("shooter_team"))
		if !ok {
			gc.unmatched(ev, "block")
			return nil
		}
		blocked, blocking = side, side.Other()
	}

	// only the zone is taken; the text's team prefix is the shooter's
	sp, _ := gc.standardParams(text, true)

	b := &models.Block{
		GameID:        ev.GameID,
		Seq:           ev.Seq,
		TeamID:        gc.game.TeamOf(blocking).ID,
		BlockedTeamID: gc.game.TeamOf(blocked).ID,
		Zone:          sp.zone,
		ShotType:      blockShotType(text),
	}
	if m.has("blocker") {
		b.BlockerID = gc.player(blocking, m.get("blocker"))
	}
	if m.has("shooter") {
		b.ShooterID = gc.player(blocked, m.get("shooter"))
	}

	if b.BlockerID == nil && b.ShooterID == nil {
		gc.logger.Warnw("Block without resolved participants", "game_id", ev.GameID, "seq", ev.Seq, "rule", m.rule)
		if gc.strict {
			gc.result.Invalid++
		}
	}
	return []models.Entity{b}
}

// blockShotType reads the blocked attempt's shot type with or without a
// trailing zone clause
func blockShotType(text string) string {
	if sub := blockShotTypePattern.FindStringSubmatch(text); sub != nil {
		return sub[1]
	}
	sub := blockTrailingTypePattern.FindStringSubmatch(text)
	if sub == nil || parseZone(sub[1]) != "" {
		return ""
	}
	return sub[1]
}

func extractHit(gc *gameContext, ev *models.Event) []models.Entity {
	text := ev.Description
	m, ok := firstMatch(hitRules, text)
	if !ok {
		gc.unmatched(ev, "hit")
		return nil
	}
	sp, ok := gc.standardParams(text, false)
	if !ok {
		gc.unmatched(ev, "hit")
		return nil
	}
	primary, secondary := gc.resolveSides(sp.teamID)

	h := &models.Hit{
		GameID:    ev.GameID,
		Seq:       ev.Seq,
		TeamID:    sp.teamID,
		HitTeamID: gc.game.TeamOf(secondary).ID,
		Zone:      sp.zone,
	}
	if m.has("hitter") {
		h.HitterID = gc.player(primary, m.get("hitter"))
	}
	if m.has("hittee") {
		h.HitteeID = gc.player(secondary, m.get("hittee"))
	}
	return []models.Entity{h}
}
