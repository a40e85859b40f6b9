package logic

import (
	"regexp"
	"strconv"

	"github.com/openhockey/pbp-engine/internal/models"
)

// penaltyRules resolve the offender. Order is by specificity.
var penaltyRules = []rule{
	{
		name: "regular",
		re:   regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) (?:[A-Z'.\-]+ )+?(?P<ps>PS-)?(?P<infraction>[A-Z][a-z][^(]*?)\s*\((?P<pim>\d+) min\)`),
	},
	{
		name:   "team",
		re:     regexp.MustCompile(`^(?P<team>.{3}) TEAM (?P<infraction>[^(]*?)(?:\s*-\s*bench)?\s*\((?P<pim>\d+) min\)`),
		reject: regexp.MustCompile(`(?i)-\s*coach\s*\(`),
	},
	{
		name: "bench",
		re:   regexp.MustCompile(`^(?P<team>.{3}) (?P<infraction>[A-Z][a-z][^(]*?)\s*-\s*bench\s*\((?P<pim>\d+) min\)`),
	},
	{
		name: "coach",
		re:   regexp.MustCompile(`^(?P<team>.{3}) TEAM (?P<infraction>[^(]*?)\s*-\s*coach\s*\((?P<pim>\d+) min\)`),
	},
}

var (
	servedByPattern = regexp.MustCompile(`Served By: #(\d+)`)
	drawnByPattern  = regexp.MustCompile(`Drawn By: (.{3}) #(\d+)`)
	pimPattern      = regexp.MustCompile(`\((\d+) min\)`)
	offenderPattern = regexp.MustCompile(`^.{3} #(\d+)`)
)

func extractPenalty(gc *gameContext, ev *models.Event) []models.Entity {
	text := ev.Description
	sp, ok := gc.standardParams(text, false)
	if !ok {
		gc.unmatched(ev, "penalty")
		return nil
	}
	primary, _ := gc.resolveSides(sp.teamID)

	p := &models.Penalty{
		GameID: ev.GameID,
		Seq:    ev.Seq,
		TeamID: sp.teamID,
		Zone:   sp.zone,
	}

	if m, ok := firstMatch(penaltyRules, text); ok {
		if m.has("number") {
			p.PlayerID = gc.player(primary, m.get("number"))
		}
		if m.has("infraction") {
			p.Infraction = stringPtr(m.get("infraction"))
		}
		p.PIM, _ = m.int("pim")
		p.PenaltyShot = m.has("ps")
	} else {
		if sub := pimPattern.FindStringSubmatch(text); sub != nil {
			p.PIM, _ = strconv.Atoi(sub[1])
		}
		if sub := offenderPattern.FindStringSubmatch(text); sub != nil {
			p.PlayerID = gc.player(primary, sub[1])
		}
	}

	if sub := servedByPattern.FindStringSubmatch(text); sub != nil {
		p.ServedByID = gc.player(primary, sub[1])
	}

	if sub := drawnByPattern.FindStringSubmatch(text); sub != nil {
		if team, side, ok := gc.teamByCode(sub[1]); ok {
			p.DrawnTeamID = int64Ptr(team.ID)
			p.DrawnByID = gc.player(side, sub[2])
		}
	}

	if p.Infraction == nil {
		gc.logger.Errorw("Penalty without infraction", "game_id", ev.GameID, "seq", ev.Seq, "type", ev.Type, "description", text)
		if gc.strict {
			gc.result.Invalid++
		}
	}

	return []models.Entity{p}
}
