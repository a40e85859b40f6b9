package logic

import (
	"regexp"
	"strings"

	"github.com/openhockey/pbp-engine/internal/models"
)

var faceoffRules = []rule{
	{name: "both", re: regexp.MustCompile(`^(?P<winner>.{3}) won (?:(?:Off|Def|Neu)\. Zone )?- (?P<team_a>.{3}) #(?P<num_a>\d+) .*?\bvs\s+(?P<team_b>.{3}) #(?P<num_b>\d+)`)},
	{name: "winner_only", re: regexp.MustCompile(`^(?P<winner>.{3}) won\b`)},
}

// extractFaceoff resolves winner and loser. The two participants can be
// listed in either side order; the winner is the team named first.
func extractFaceoff(gc *gameContext, ev *models.Event) []models.Entity {
	text := ev.Description
	m, ok := firstMatch(faceoffRules, text)
	if !ok {
		gc.unmatched(ev, "faceoff")
		return nil
	}
	sp, ok := gc.standardParams(text, false)
	if !ok {
		gc.unmatched(ev, "faceoff")
		return nil
	}
	primary, secondary := gc.resolveSides(sp.teamID)

	f := &models.Faceoff{
		GameID:       ev.GameID,
		Seq:          ev.Seq,
		WinnerTeamID: sp.teamID,
		LoserTeamID:  gc.game.TeamOf(secondary).ID,
		Zone:         sp.zone,
		LostZone:     mirrorZone(sp.zone),
	}

	if m.rule == "both" {
		winnerNum, loserNum := m.get("num_a"), m.get("num_b")
		if strings.EqualFold(m.get("team_b"), m.get("winner")) && !strings.EqualFold(m.get("team_a"), m.get("winner")) {
			winnerNum, loserNum = loserNum, winnerNum
		}
		f.WinnerID = gc.player(primary, winnerNum)
		f.LoserID = gc.player(secondary, loserNum)
	}
	return []models.Entity{f}
}
