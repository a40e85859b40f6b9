package logic

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/openhockey/pbp-engine/internal/models"
)

func TestReconcilerAssign(t *testing.T) {
	feed := []models.FeedPlay{
		{Period: 1, Elapsed: "00:00", Type: "FACEOFF", X: f64(0), Y: f64(0)},
		{Period: 1, Elapsed: "03:15", Type: "PENALTY", X: f64(-60), Y: f64(20)},
		{Period: 1, Elapsed: "03:15", Type: "PENALTY", X: f64(20), Y: f64(-5)},
		{Period: 1, Elapsed: "bogus", Type: "HIT", X: f64(1), Y: f64(1)},
	}
	r := NewReconciler(feed, zap.NewNop().Sugar())

	tests := []struct {
		name        string
		ev          *models.Event
		wantPending bool
		wantX       *float64
	}{
		{"single candidate at centre ice", &models.Event{Period: 1, Elapsed: 0, Type: models.TypeFaceoff}, false, f64(0)},
		{"two candidates wait for the specific event", &models.Event{Period: 1, Elapsed: 195, Type: models.TypePenalty}, true, nil},
		{"no candidate", &models.Event{Period: 2, Elapsed: 0, Type: models.TypeFaceoff}, false, nil},
		{"type must match", &models.Event{Period: 1, Elapsed: 0, Type: models.TypeHit}, false, nil},
		{"existing coordinates are kept", &models.Event{Period: 1, Elapsed: 0, Type: models.TypeFaceoff, X: f64(5), Y: f64(5)}, false, f64(5)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pending := r.Assign(tt.ev)
			if pending != tt.wantPending {
				t.Errorf("Assign() pending = %v, want %v", pending, tt.wantPending)
			}
			switch {
			case tt.wantX == nil && tt.ev.X != nil:
				t.Errorf("unexpected coordinates %v", *tt.ev.X)
			case tt.wantX != nil && (tt.ev.X == nil || *tt.ev.X != *tt.wantX):
				t.Errorf("X = %v, want %v", tt.ev.X, *tt.wantX)
			}
		})
	}
}

func TestReconcilerResolvePenalties(t *testing.T) {
	feed := []models.FeedPlay{
		{Period: 1, Elapsed: "03:15", Type: "PENALTY", X: f64(-60), Y: f64(20), ActiveID: i64(8402), PassiveID: i64(8551), PIM: intp(2), Infraction: "hooking"},
		{Period: 1, Elapsed: "03:15", Type: "PENALTY", X: f64(20), Y: f64(-5), ActiveID: i64(8576), PassiveID: i64(8481), PIM: intp(2), Infraction: "slashing"},
	}
	r := NewReconciler(feed, zap.NewNop().Sugar())

	tests := []struct {
		name    string
		penalty *models.Penalty
		wantOK  bool
		wantX   float64
	}{
		{"offender and drawer", &models.Penalty{PlayerID: i64(8576), DrawnByID: i64(8481), PIM: 2, Infraction: stringPtr("Slashing")}, true, 20},
		{"offender only", &models.Penalty{PlayerID: i64(8402), PIM: 2, Infraction: stringPtr("Hooking")}, true, -60},
		{"no participants", &models.Penalty{PIM: 2, Infraction: stringPtr("Slashing")}, true, 20},
		{"minutes differ", &models.Penalty{PlayerID: i64(8402), PIM: 5, Infraction: stringPtr("Hooking")}, false, 0},
		{"wrong drawer", &models.Penalty{PlayerID: i64(8402), DrawnByID: i64(8481), PIM: 2, Infraction: stringPtr("Hooking")}, false, 0},
		{"missing infraction", &models.Penalty{PlayerID: i64(8402), PIM: 2}, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := &models.Event{Period: 1, Elapsed: 195, Type: models.TypePenalty}
			ok := r.Resolve(ev, tt.penalty)
			if ok != tt.wantOK {
				t.Fatalf("Resolve() = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				if ev.HasCoordinates() {
					t.Error("unresolved event must keep absent coordinates")
				}
				return
			}
			if *ev.X != tt.wantX {
				t.Errorf("X = %v, want %v", *ev.X, tt.wantX)
			}
		})
	}
}

func TestReconcilerResolveLogsUnresolved(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	feed := []models.FeedPlay{
		{Period: 2, Elapsed: "04:12", Type: "HIT", X: f64(1), Y: f64(2), ActiveID: i64(1), PassiveID: i64(2)},
		{Period: 2, Elapsed: "04:12", Type: "HIT", X: f64(3), Y: f64(4), ActiveID: i64(3), PassiveID: i64(4)},
	}
	r := NewReconciler(feed, zap.New(core).Sugar())

	ev := &models.Event{GameID: 9, Seq: 10, Period: 2, Elapsed: 252, Type: models.TypeHit}
	if r.Resolve(ev, &models.Hit{HitterID: i64(8402), HitteeID: i64(8579)}) {
		t.Fatal("no candidate describes this hit")
	}
	if logs.FilterMessage("Coordinates unresolved").Len() != 1 {
		t.Errorf("expected one unresolved warning, got %v", logs.All())
	}

	if !r.Resolve(ev, &models.Hit{HitterID: i64(3)}) {
		t.Fatal("known hitter should select the second candidate")
	}
	if *ev.X != 3 || *ev.Y != 4 {
		t.Errorf("coordinates = (%v, %v)", *ev.X, *ev.Y)
	}
}

func TestMatchesPlay(t *testing.T) {
	play := models.FeedPlay{ActiveID: i64(1), PassiveID: i64(2), ShotType: "Wrist"}

	tests := []struct {
		name     string
		specific models.Entity
		want     bool
	}{
		{"faceoff both known", &models.Faceoff{WinnerID: i64(1), LoserID: i64(2)}, true},
		{"faceoff loser unknown", &models.Faceoff{WinnerID: i64(1)}, true},
		{"faceoff nothing known", &models.Faceoff{}, false},
		{"block blocker against active", &models.Block{BlockerID: i64(1), ShooterID: i64(2)}, true},
		{"block reversed", &models.Block{BlockerID: i64(2), ShooterID: i64(1)}, false},
		{"shot same type", &models.Shot{ShooterID: i64(1), ShotType: "wrist"}, true},
		{"shot other type", &models.Shot{ShooterID: i64(1), ShotType: "Slap"}, false},
		{"miss without type", &models.Miss{ShooterID: i64(1)}, true},
		{"giveaway", &models.Giveaway{Turnover: models.Turnover{PlayerID: i64(1)}}, true},
		{"takeaway other player", &models.Takeaway{Turnover: models.Turnover{PlayerID: i64(2)}}, false},
		{"goal has no predicate", &models.Goal{ScorerID: i64(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesPlay(tt.specific, play); got != tt.want {
				t.Errorf("matchesPlay() = %v, want %v", got, tt.want)
			}
		})
	}
}
