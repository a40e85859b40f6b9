package logic

import (
	"strings"

	"go.uber.org/zap"

	"github.com/openhockey/pbp-engine/internal/models"
)

type feedKey struct {
	period  int
	elapsed int
	typ     string
}

// Reconciler merges the structured feed's coordinates into the report's
// events. The index is built once per game and never changes afterwards.
type Reconciler struct {
	index  map[feedKey][]models.FeedPlay
	logger *zap.SugaredLogger
}

// NewReconciler indexes a game's feed by (period, elapsed, type)
func NewReconciler(feed []models.FeedPlay, logger *zap.SugaredLogger) *Reconciler {
	r := &Reconciler{
		index:  make(map[feedKey][]models.FeedPlay, len(feed)),
		logger: logger,
	}
	for _, play := range feed {
		elapsed, err := parseElapsed(play.Elapsed)
		if err != nil {
			logger.Debugw("Skipping feed play", "period", play.Period, "elapsed", play.Elapsed, "error", err)
			continue
		}
		k := feedKey{period: play.Period, elapsed: elapsed, typ: play.NormalizedType()}
		r.index[k] = append(r.index[k], play)
	}
	return r
}

func (r *Reconciler) candidates(ev *models.Event) []models.FeedPlay {
	return r.index[feedKey{period: ev.Period, elapsed: ev.Elapsed, typ: ev.Type}]
}

// Assign copies coordinates when exactly one feed play shares the event's
// key. It reports whether the event is ambiguous and must wait for its
// specific event.
func (r *Reconciler) Assign(ev *models.Event) bool {
	if ev.HasCoordinates() {
		return false
	}
	plays := r.candidates(ev)
	switch {
	case len(plays) == 1:
		copyCoordinates(ev, plays[0])
		return false
	case len(plays) > 1:
		return true
	}
	return false
}

// Resolve picks the first candidate satisfying the category predicate for
// the specific event and copies its coordinates
func (r *Reconciler) Resolve(ev *models.Event, specific models.Entity) bool {
	plays := r.candidates(ev)
	for _, play := range plays {
		if !matchesPlay(specific, play) {
			continue
		}
		if play.X == nil || play.Y == nil {
			break
		}
		copyCoordinates(ev, play)
		return true
	}
	r.logger.Warnw("Coordinates unresolved",
		"game_id", ev.GameID,
		"seq", ev.Seq,
		"type", ev.Type,
		"candidates", len(plays),
	)
	return false
}

func copyCoordinates(ev *models.Event, play models.FeedPlay) {
	if play.X == nil || play.Y == nil {
		return
	}
	x, y := *play.X, *play.Y
	ev.X, ev.Y = &x, &y
}

// matchesPlay is the single source of truth for whether a feed play
// describes a specific event
func matchesPlay(specific models.Entity, play models.FeedPlay) bool {
	switch e := specific.(type) {
	case *models.Penalty:
		return matchesPenalty(e, play)
	case *models.Faceoff:
		return matchIDs(pair{e.WinnerID, play.ActiveID}, pair{e.LoserID, play.PassiveID})
	case *models.Hit:
		return matchIDs(pair{e.HitterID, play.ActiveID}, pair{e.HitteeID, play.PassiveID})
	case *models.Block:
		return matchIDs(pair{e.BlockerID, play.ActiveID}, pair{e.ShooterID, play.PassiveID})
	case *models.Shot:
		return matchIDs(pair{e.ShooterID, play.ActiveID}) && sameShotType(e.ShotType, play.ShotType)
	case *models.Miss:
		return matchIDs(pair{e.ShooterID, play.ActiveID}) && sameShotType(e.ShotType, play.ShotType)
	case *models.Giveaway:
		return matchIDs(pair{e.PlayerID, play.ActiveID})
	case *models.Takeaway:
		return matchIDs(pair{e.PlayerID, play.ActiveID})
	case *models.ShootoutAttempt:
		return matchIDs(pair{e.ShooterID, play.ActiveID})
	}
	return false
}

// matchesPenalty narrows the predicate to what is known about the penalty:
// offender and drawer, then offender only, then neither
func matchesPenalty(p *models.Penalty, play models.FeedPlay) bool {
	if play.PIM == nil || *play.PIM != p.PIM {
		return false
	}
	infraction := ""
	if p.Infraction != nil {
		infraction = *p.Infraction
	}
	if !strings.EqualFold(strings.TrimSpace(infraction), strings.TrimSpace(play.Infraction)) {
		return false
	}

	switch {
	case p.PlayerID != nil && p.DrawnByID != nil:
		return sameID(p.PlayerID, play.ActiveID) && sameID(p.DrawnByID, play.PassiveID)
	case p.PlayerID != nil:
		return sameID(p.PlayerID, play.ActiveID)
	}
	return true
}

// pair is (known on the specific event, carried by the feed play)
type pair struct {
	want *int64
	got  *int64
}

// matchIDs requires every known id to equal the play's. A predicate with no
// known id at all does not match.
func matchIDs(pairs ...pair) bool {
	constrained := false
	for _, p := range pairs {
		if p.want == nil {
			continue
		}
		constrained = true
		if !sameID(p.want, p.got) {
			return false
		}
	}
	return constrained
}

func sameID(a, b *int64) bool {
	return a != nil && b != nil && *a == *b
}

func sameShotType(reported, feed string) bool {
	if reported == "" || feed == "" {
		return true
	}
	return strings.EqualFold(strings.TrimSpace(reported), strings.TrimSpace(feed))
}
