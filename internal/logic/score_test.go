package logic

import (
	"testing"

	"github.com/openhockey/pbp-engine/internal/models"
)

func TestScoreTrackerApply(t *testing.T) {
	tests := []struct {
		name  string
		goals []models.Side
		want  GoalOutcome
	}{
		{"opening goal goes ahead", []models.Side{models.SideHome}, GoalOutcome{GameGoal: 1, TeamGoal: 1, GoAhead: true}},
		{"equalizer ties", []models.Side{models.SideHome, models.SideRoad}, GoalOutcome{GameGoal: 2, TeamGoal: 1, Tying: true}},
		{"extending a lead is neither", []models.Side{models.SideRoad, models.SideRoad}, GoalOutcome{GameGoal: 2, TeamGoal: 2}},
		{"from behind to tied", []models.Side{models.SideRoad, models.SideRoad, models.SideHome, models.SideHome}, GoalOutcome{GameGoal: 4, TeamGoal: 2, Tying: true}},
		{"back in front", []models.Side{models.SideHome, models.SideRoad, models.SideRoad}, GoalOutcome{GameGoal: 3, TeamGoal: 2, GoAhead: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s ScoreTracker
			var got GoalOutcome
			for _, side := range tt.goals {
				got = s.Apply(side)
			}
			if got != tt.want {
				t.Errorf("Apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScoreTrackerConsistency(t *testing.T) {
	var s ScoreTracker
	sequence := []models.Side{models.SideHome, models.SideRoad, models.SideRoad, models.SideHome, models.SideHome, models.SideRoad, models.SideHome}

	for i, side := range sequence {
		before := s.Score()
		out := s.Apply(side)
		after := s.Score()

		if out.GameGoal != after.Home+after.Road || out.GameGoal != i+1 {
			t.Fatalf("goal %d: GameGoal = %d, tally %+v", i+1, out.GameGoal, after)
		}
		if out.TeamGoal != after.Of(side) {
			t.Errorf("goal %d: TeamGoal = %d, want %d", i+1, out.TeamGoal, after.Of(side))
		}
		own, other := after.Of(side), after.Of(side.Other())
		if out.Tying != (own == other) || out.GoAhead != (own-other == 1) {
			t.Errorf("goal %d: tying=%v goAhead=%v for %d-%d", i+1, out.Tying, out.GoAhead, own, other)
		}
		if out.Tying && out.GoAhead {
			t.Errorf("goal %d is both tying and go-ahead", i+1)
		}
		if before.Of(side.Other()) != other {
			t.Errorf("goal %d changed the other side's tally", i+1)
		}
	}

	if s.Diff(models.SideHome) != 1 || s.Diff(models.SideRoad) != -1 {
		t.Errorf("Diff() = %d/%d at %+v", s.Diff(models.SideHome), s.Diff(models.SideRoad), s.Score())
	}
}
