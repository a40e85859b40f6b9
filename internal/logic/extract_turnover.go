package logic

import (
	"regexp"

	"github.com/openhockey/pbp-engine/internal/models"
)

var giveawayRules = []rule{
	{name: "player", re: regexp.MustCompile(`^(?P<team>.{3}) GIVEAWAY - #(?P<number>\d+)`)},
	{name: "team", re: regexp.MustCompile(`^(?P<team>.{3}) GIVEAWAY\b`)},
}

var takeawayRules = []rule{
	{name: "player", re: regexp.MustCompile(`^(?P<team>.{3}) TAKEAWAY - #(?P<number>\d+)`)},
	{name: "team", re: regexp.MustCompile(`^(?P<team>.{3}) TAKEAWAY\b`)},
}

// turnover resolves the single actor; the other team is always the opposing side
func (gc *gameContext) turnover(ev *models.Event, rules []rule, category string) (models.Turnover, bool) {
	m, ok := firstMatch(rules, ev.Description)
	if !ok {
		gc.unmatched(ev, category)
		return models.Turnover{}, false
	}
	sp, ok := gc.standardParams(ev.Description, false)
	if !ok {
		gc.unmatched(ev, category)
		return models.Turnover{}, false
	}
	primary, secondary := gc.resolveSides(sp.teamID)

	return models.Turnover{
		GameID:      ev.GameID,
		Seq:         ev.Seq,
		TeamID:      sp.teamID,
		PlayerID:    gc.player(primary, m.get("number")),
		OtherTeamID: gc.game.TeamOf(secondary).ID,
		Zone:        sp.zone,
	}, true
}

func extractGiveaway(gc *gameContext, ev *models.Event) []models.Entity {
	t, ok := gc.turnover(ev, giveawayRules, "giveaway")
	if !ok {
		return nil
	}
	return []models.Entity{&models.Giveaway{Turnover: t}}
}

func extractTakeaway(gc *gameContext, ev *models.Event) []models.Entity {
	t, ok := gc.turnover(ev, takeawayRules, "takeaway")
	if !ok {
		return nil
	}
	return []models.Entity{&models.Takeaway{Turnover: t}}
}
