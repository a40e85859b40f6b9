package logic

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/openhockey/pbp-engine/internal/models"
)

// rule is one named free-text pattern. A rule matches when re matches and
// reject (if set) does not.
type rule struct {
	name   string
	re     *regexp.Regexp
	reject *regexp.Regexp
}

// match holds the named captures of the rule that fired
type match struct {
	rule   string
	fields map[string]string
}

func (m match) get(name string) string {
	return strings.TrimSpace(m.fields[name])
}

func (m match) has(name string) bool {
	return m.get(name) != ""
}

func (m match) int(name string) (int, bool) {
	v := m.get(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func (m match) intPtr(name string) *int {
	if n, ok := m.int(name); ok {
		return &n
	}
	return nil
}

// firstMatch tries rules in order and returns the first that fires
func firstMatch(rules []rule, text string) (match, bool) {
	for _, r := range rules {
		if r.reject != nil && r.reject.MatchString(text) {
			continue
		}
		sub := r.re.FindStringSubmatch(text)
		if sub == nil {
			continue
		}
		fields := make(map[string]string, len(sub))
		for i, name := range r.re.SubexpNames() {
			if name != "" && i < len(sub) {
				fields[name] = sub[i]
			}
		}
		return match{rule: r.name, fields: fields}, true
	}
	return match{}, false
}

var (
	zonePattern   = regexp.MustCompile(`\b(Off|Def|Neu)\. Zone`)
	numberPattern = regexp.MustCompile(`#(\d+)`)
)

var zoneNames = map[string]string{
	"Off": models.ZoneOffensive,
	"Def": models.ZoneDefensive,
	"Neu": models.ZoneNeutral,
}

// parseZone returns the zone named in text, or "" when none is present
func parseZone(text string) string {
	sub := zonePattern.FindStringSubmatch(text)
	if sub == nil {
		return ""
	}
	return zoneNames[sub[1]]
}

// mirrorZone returns the same rink area seen from the other team
func mirrorZone(zone string) string {
	switch zone {
	case models.ZoneOffensive:
		return models.ZoneDefensive
	case models.ZoneDefensive:
		return models.ZoneOffensive
	}
	return zone
}

// standardParams are the acting team and zone shared by every extractor
type standardParams struct {
	teamID int64
	side   models.Side
	zone   string
}

// teamByCode resolves a fixed-width team code to a side of the game
func (gc *gameContext) teamByCode(code string) (models.Team, models.Side, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	switch code {
	case strings.ToUpper(gc.game.Home.Code):
		return gc.game.Home, models.SideHome, true
	case strings.ToUpper(gc.game.Road.Code):
		return gc.game.Road, models.SideRoad, true
	}
	return models.Team{}, "", false
}

// standardParams reads the team from the text's code prefix and the zone from
// its zone token. Shot-class events default to the offensive zone.
func (gc *gameContext) standardParams(text string, shotClass bool) (standardParams, bool) {
	zone := parseZone(text)
	if zone == "" && shotClass {
		zone = models.ZoneOffensive
	}

	if len(text) < 3 {
		return standardParams{zone: zone}, false
	}
	team, side, ok := gc.teamByCode(text[:3])
	if !ok {
		return standardParams{zone: zone}, false
	}
	return standardParams{teamID: team.ID, side: side, zone: zone}, true
}

// resolveSides returns the acting side and the opposing side for a team
func (gc *gameContext) resolveSides(teamID int64) (primary, secondary models.Side) {
	primary, secondary = models.SideHome, models.SideRoad
	if teamID == gc.game.Road.ID {
		primary, secondary = secondary, primary
	}
	return primary, secondary
}

// player resolves a captured jersey number on a side through the roster
func (gc *gameContext) player(side models.Side, number string) *int64 {
	number = strings.TrimPrefix(strings.TrimSpace(number), "#")
	if number == "" {
		return nil
	}
	n, err := strconv.Atoi(number)
	if err != nil {
		return nil
	}
	id, ok := gc.game.Roster.Lookup(side, n)
	if !ok {
		gc.logger.Debugw("Jersey number not on roster", "game_id", gc.game.GameID, "side", side, "number", n)
		return nil
	}
	return &id
}

func int64Ptr(v int64) *int64 { return &v }

func stringPtr(v string) *string { return &v }
