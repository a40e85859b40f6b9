package logic

import (
	"regexp"
	"strings"

	"github.com/openhockey/pbp-engine/internal/models"
)

var penaltyShotPattern = regexp.MustCompile(`(?i)\bpenalty shot\b,?\s*`)

var shotRules = []rule{
	{name: "zone", re: regexp.MustCompile(`^(?P<team>.{3}) ONGOAL - (?:#(?P<number>\d+) [^,]*, )?(?P<type>[^,#][^,]*), (?:Off|Def|Neu)\. Zone(?:, (?P<distance>\d+) ft\.?)?`)},
	{name: "zone_only", re: regexp.MustCompile(`^(?P<team>.{3}) ONGOAL - #(?P<number>\d+) [^,]*, (?:Off|Def|Neu)\. Zone(?:, (?P<distance>\d+) ft\.?)?`)},
	{name: "no_zone", re: regexp.MustCompile(`^(?P<team>.{3}) ONGOAL - (?:#(?P<number>\d+) [^,]*, )?(?P<type>[^,#][^,]*), (?P<distance>\d+) ft\.?`)},
	{name: "distance_only", re: regexp.MustCompile(`^(?P<team>.{3}) ONGOAL - #(?P<number>\d+) [^,]*, (?P<distance>\d+) ft\.?\s*$`)},
	{name: "type_only", re: regexp.MustCompile(`^(?P<team>.{3}) ONGOAL - #(?P<number>\d+) [^,]*, (?P<type>[^,]+?)\s*$`)},
	{name: "shooter_only", re: regexp.MustCompile(`^(?P<team>.{3}) ONGOAL - #(?P<number>\d+)`)},
}

var missRules = []rule{
	{name: "zone", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,]*, (?P<type>[^,]+), (?P<miss>[^,]+), (?:Off|Def|Neu)\. Zone(?:, (?P<distance>\d+) ft\.?)?`)},
	{name: "single_zone", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,]*, (?P<token>[^,]+), (?:Off|Def|Neu)\. Zone(?:, (?P<distance>\d+) ft\.?)?`)},
	{name: "no_zone", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,]*, (?P<type>[^,]+), (?P<miss>[^,]+), (?P<distance>\d+) ft\.?`)},
	{name: "single", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+) [^,]*, (?P<token>[^,]+), (?P<distance>\d+) ft\.?`)},
	{name: "shooter_only", re: regexp.MustCompile(`^(?P<team>.{3}) #(?P<number>\d+)`)},
}

var shotTypes = vocabulary(
	"Wrist", "Slap", "Snap", "Backhand", "Tip-In", "Deflected",
	"Wrap-around", "Poke", "Bat", "Between Legs", "Cradle",
)

var missTypes = vocabulary(
	"Wide of Net", "Over Net", "Hit Crossbar", "Goalpost", "Hit Left Post",
	"Hit Right Post", "Above Crossbar", "Short Side", "Over Crossbar",
)

// vocabulary maps lower-cased terms to their canonical spelling
func vocabulary(terms ...string) map[string]string {
	out := make(map[string]string, len(terms))
	for _, t := range terms {
		out[strings.ToLower(t)] = t
	}
	return out
}

// shotContext is what every shot-class extractor resolves before its own fields
type shotContext struct {
	standardParams
	primary      models.Side
	secondary    models.Side
	shooterID    *int64
	goalieID     *int64
	goalieTeamID int64
	penaltyShot  bool
}

// stripPenaltyShot removes the penalty-shot marker so the clause rules see
// the plain shot text
func stripPenaltyShot(text string) (string, bool) {
	if !penaltyShotPattern.MatchString(text) {
		return text, false
	}
	return penaltyShotPattern.ReplaceAllString(text, ""), true
}

// shotContext resolves team, sides, shooter and the opposing goalie of a
// shot-class envelope
func (gc *gameContext) shotContext(ev *models.Event, number string, penaltyShot bool) (shotContext, bool) {
	sp, ok := gc.standardParams(ev.Description, true)
	if !ok {
		return shotContext{}, false
	}
	primary, secondary := gc.resolveSides(sp.teamID)
	return shotContext{
		standardParams: sp,
		primary:        primary,
		secondary:      secondary,
		shooterID:      gc.player(primary, number),
		goalieID:       ev.GoalieOf(secondary),
		goalieTeamID:   gc.game.TeamOf(secondary).ID,
		penaltyShot:    penaltyShot,
	}, true
}

// unmatched logs a description no rule of its category recognizes
func (gc *gameContext) unmatched(ev *models.Event, category string) {
	gc.logger.Warnw("Unrecognized event text",
		"game_id", ev.GameID,
		"seq", ev.Seq,
		"type", ev.Type,
		"category", category,
		"description", ev.Description,
	)
}

func (gc *gameContext) parseShot(ev *models.Event) (*models.Shot, shotContext, bool) {
	text, penaltyShot := stripPenaltyShot(ev.Description)
	m, ok := firstMatch(shotRules, text)
	if !ok {
		gc.unmatched(ev, "shot")
		return nil, shotContext{}, false
	}
	sc, ok := gc.shotContext(ev, m.get("number"), penaltyShot)
	if !ok {
		gc.unmatched(ev, "shot")
		return nil, shotContext{}, false
	}

	return &models.Shot{
		GameID:       ev.GameID,
		Seq:          ev.Seq,
		TeamID:       sc.teamID,
		Zone:         sc.zone,
		ShooterID:    sc.shooterID,
		GoalieID:     sc.goalieID,
		GoalieTeamID: sc.goalieTeamID,
		ShotType:     m.get("type"),
		Distance:     m.intPtr("distance"),
		PenaltyShot:  sc.penaltyShot,
	}, sc, true
}

func extractShot(gc *gameContext, ev *models.Event) []models.Entity {
	shot, _, ok := gc.parseShot(ev)
	if !ok {
		return nil
	}
	return []models.Entity{shot}
}

func extractMiss(gc *gameContext, ev *models.Event) []models.Entity {
	miss, ok := gc.parseMiss(ev)
	if !ok {
		return nil
	}
	return []models.Entity{miss}
}

func (gc *gameContext) parseMiss(ev *models.Event) (*models.Miss, bool) {
	text, penaltyShot := stripPenaltyShot(ev.Description)
	m, ok := firstMatch(missRules, text)
	if !ok {
		gc.unmatched(ev, "miss")
		return nil, false
	}
	sc, ok := gc.shotContext(ev, m.get("number"), penaltyShot)
	if !ok {
		gc.unmatched(ev, "miss")
		return nil, false
	}

	shotType, missType := m.get("type"), m.get("miss")
	if m.has("token") {
		shotType, missType = gc.classifyMissToken(ev, m.get("token"))
	}

	return &models.Miss{
		GameID:       ev.GameID,
		Seq:          ev.Seq,
		TeamID:       sc.teamID,
		Zone:         sc.zone,
		ShooterID:    sc.shooterID,
		GoalieID:     sc.goalieID,
		GoalieTeamID: sc.goalieTeamID,
		ShotType:     shotType,
		MissType:     missType,
		Distance:     m.intPtr("distance"),
		PenaltyShot:  sc.penaltyShot,
	}, true
}

// classifyMissToken places a lone descriptive token. Tokens in neither
// vocabulary are kept as the miss type.
func (gc *gameContext) classifyMissToken(ev *models.Event, token string) (shotType, missType string) {
	key := strings.ToLower(token)
	if t, ok := shotTypes[key]; ok {
		return t, ""
	}
	if t, ok := missTypes[key]; ok {
		return "", t
	}
	gc.logger.Debugw("Unknown miss token", "game_id", ev.GameID, "seq", ev.Seq, "token", token)
	return "", token
}
