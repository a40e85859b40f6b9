package logic

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/openhockey/pbp-engine/internal/models"
)

var (
	// ErrRowShape marks a row whose column count does not match a player row
	ErrRowShape = errors.New("inconsistent row shape")
	// ErrElapsed marks a row whose elapsed time cannot be parsed
	ErrElapsed = errors.New("invalid elapsed time")
)

// extractor turns one stored envelope into its specific event(s). The first
// returned entity is the one the coordinate predicates run against.
type extractor func(gc *gameContext, ev *models.Event) []models.Entity

var extractors = map[string]extractor{
	models.TypeShot:     extractShot,
	models.TypeMiss:     extractMiss,
	models.TypeGoal:     extractGoal,
	models.TypeBlock:    extractBlock,
	models.TypeHit:      extractHit,
	models.TypeFaceoff:  extractFaceoff,
	models.TypeGiveaway: extractGiveaway,
	models.TypeTakeaway: extractTakeaway,
	models.TypePenalty:  extractPenalty,
}

// Type codes that only ever produce the envelope
var passiveTypes = map[string]bool{
	"PSTR":   true,
	"PEND":   true,
	"GEND":   true,
	"GOFF":   true,
	"SOC":    true,
	"EISTR":  true,
	"EIEND":  true,
	"EGT":    true,
	"EGPID":  true,
	"DELPEN": true,
	"CHL":    true,
	"STOP":   true,
}

// classify builds the envelope for one report row
func (gc *gameContext) classify(row *models.ReportRow) (*models.Event, error) {
	if row.Columns != 0 && row.Columns != models.ExpectedColumns {
		return nil, fmt.Errorf("%w: %d columns", ErrRowShape, row.Columns)
	}

	elapsed, err := parseElapsed(row.Elapsed)
	if err != nil {
		return nil, err
	}

	score := gc.score.Score()
	ev := &models.Event{
		GameID:      gc.game.GameID,
		Seq:         row.Seq,
		Period:      row.Period,
		Elapsed:     elapsed,
		Description: strings.TrimSpace(row.Description),
		Type:        strings.ToUpper(strings.TrimSpace(row.Type)),
		HomeScore:   score.Home,
		RoadScore:   score.Road,
		Situation:   normalizeSituation(row.Strength),
	}
	if sec := strings.TrimSpace(row.Secondary); sec != "" {
		ev.Description += " " + sec
	}

	ev.HomeOnIce, ev.HomeGoalie = onIceSkaters(row.OnIce.Home)
	ev.RoadOnIce, ev.RoadGoalie = onIceSkaters(row.OnIce.Road)

	if ev.Type == models.TypeStop {
		ev.Stoppage = normalizeStoppage(ev.Description)
	}
	return ev, nil
}

// extractorFor picks the extractor for an envelope
func (gc *gameContext) extractorFor(ev *models.Event) (extractor, bool) {
	if gc.game.IsShootout(ev.Period) {
		switch ev.Type {
		case models.TypeShot, models.TypeMiss, models.TypeGoal, models.TypeFail:
			return extractShootoutAttempt, true
		}
	}

	if fn, ok := extractors[ev.Type]; ok {
		return fn, true
	}
	if !passiveTypes[ev.Type] {
		gc.logger.Debugw("No extractor for type code", "game_id", ev.GameID, "seq", ev.Seq, "type", ev.Type)
	}
	return nil, false
}

// parseElapsed reads "M:SS" or a plain number of seconds. A trailing
// "/remaining" part is ignored.
func parseElapsed(s string) (int, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	if s == "" {
		return 0, fmt.Errorf("%w: empty", ErrElapsed)
	}

	minutes, seconds, found := strings.Cut(s, ":")
	if !found {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrElapsed, s)
		}
		return n, nil
	}

	m, err := strconv.Atoi(minutes)
	if err != nil || m < 0 {
		return 0, fmt.Errorf("%w: %q", ErrElapsed, s)
	}
	sec, err := strconv.Atoi(seconds)
	if err != nil || sec < 0 || sec > 59 || len(seconds) != 2 {
		return 0, fmt.Errorf("%w: %q", ErrElapsed, s)
	}
	return m*60 + sec, nil
}

// normalizeSituation upper-cases the letter codes and keeps skater-count
// notation such as "4v4" as is
func normalizeSituation(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.SituationEven
	}
	upper := strings.ToUpper(s)
	switch upper {
	case models.SituationEven, models.SituationPowerPlay, models.SituationShorthanded:
		return upper
	}
	return strings.ToLower(s)
}

// onIceSkaters returns the sorted skater ids of a side without its goalie
func onIceSkaters(side models.OnIceSide) ([]int64, *int64) {
	skaters := make([]int64, 0, len(side.Skaters))
	for _, id := range side.Skaters {
		if side.Goalie != nil && id == *side.Goalie {
			continue
		}
		skaters = append(skaters, id)
	}
	sort.Slice(skaters, func(i, j int) bool { return skaters[i] < skaters[j] })

	var goalie *int64
	if side.Goalie != nil {
		goalie = int64Ptr(*side.Goalie)
	}
	return skaters, goalie
}
