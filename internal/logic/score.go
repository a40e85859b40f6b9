package logic

import "github.com/openhockey/pbp-engine/internal/models"

// ScoreTracker holds the running score of one game. It is only advanced by
// goals, strictly in report order.
type ScoreTracker struct {
	home int
	road int
}

// GoalOutcome is the classification of a goal after it is applied
type GoalOutcome struct {
	GameGoal int
	TeamGoal int
	Tying    bool
	GoAhead  bool
}

// Score returns the current tallies
func (s *ScoreTracker) Score() models.Score {
	return models.Score{Home: s.home, Road: s.road}
}

// Apply credits a goal to a side and classifies it
func (s *ScoreTracker) Apply(side models.Side) GoalOutcome {
	if side == models.SideHome {
		s.home++
	} else {
		s.road++
	}

	own, other := s.home, s.road
	if side == models.SideRoad {
		own, other = other, own
	}

	return GoalOutcome{
		GameGoal: s.home + s.road,
		TeamGoal: own,
		Tying:    own == other,
		GoAhead:  own-other == 1,
	}
}

// Diff returns the score differential from a side's perspective
func (s *ScoreTracker) Diff(side models.Side) int {
	score := s.Score()
	return score.Of(side) - score.Of(side.Other())
}
