package logic

import (
	"go.uber.org/zap"

	"github.com/openhockey/pbp-engine/internal/models"
	"github.com/openhockey/pbp-engine/internal/store"
)

const (
	torID = int64(10)
	mtlID = int64(8)
)

func i64(v int64) *int64     { return &v }
func f64(v float64) *float64 { return &v }
func intp(v int) *int        { return &v }

func deref(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

// Jersey numbers map to 8400+n at home and 8500+n on the road
func testRoster() models.Roster {
	home := map[int]int64{}
	for _, n := range []int{2, 3, 19, 34, 42, 43, 81} {
		home[n] = 8400 + int64(n)
	}
	road := map[int]int64{}
	for _, n := range []int{8, 19, 31, 47, 51, 76, 79} {
		road[n] = 8500 + int64(n)
	}
	return models.Roster{models.SideHome: home, models.SideRoad: road}
}

func homeIce() models.OnIceSide {
	return models.OnIceSide{
		Skaters: map[int]int64{81: 8481, 42: 8442, 19: 8419, 2: 8402, 3: 8403, 34: 8434},
		Goalie:  i64(8434),
	}
}

func roadIce() models.OnIceSide {
	return models.OnIceSide{
		Skaters: map[int]int64{76: 8576, 51: 8551, 8: 8508, 79: 8579, 47: 8547, 31: 8531},
		Goalie:  i64(8531),
	}
}

func fullIce() models.OnIce {
	return models.OnIce{Home: homeIce(), Road: roadIce()}
}

func testGame() *models.GameReport {
	return &models.GameReport{
		GameID:   2013020001,
		Season:   20132014,
		GameType: models.GameTypeRegular,
		Home:     models.Team{ID: torID, Code: "TOR"},
		Road:     models.Team{ID: mtlID, Code: "MTL"},
		Roster:   testRoster(),
	}
}

func row(seq, period int, elapsed, typ, strength, desc string) models.ReportRow {
	return models.ReportRow{
		Seq:         seq,
		Period:      period,
		Strength:    strength,
		Elapsed:     elapsed,
		Type:        typ,
		Description: desc,
		OnIce:       fullIce(),
		Columns:     models.ExpectedColumns,
	}
}

// newTestContext builds the per-game state the extractors run against
func newTestContext(game *models.GameReport) *gameContext {
	logger := zap.NewNop().Sugar()
	return &gameContext{
		game:       game,
		gateway:    store.NewMemory(),
		logger:     logger,
		score:      &ScoreTracker{},
		reconciler: NewReconciler(game.Feed, logger),
		result:     &Result{GameID: game.GameID},
	}
}

// envelope classifies a single row in a fresh context
func envelope(gc *gameContext, r models.ReportRow) *models.Event {
	ev, err := gc.classify(&r)
	if err != nil {
		panic(err)
	}
	return ev
}

// sampleGame is a short regular-season game touching every extractor
func sampleGame() *models.GameReport {
	g := testGame()
	g.Rows = []models.ReportRow{
		row(1, 1, "0:00", "FAC", "EV", "TOR won Neu. Zone - TOR #43 KADRI vs MTL #19 PLEKANEC"),
		row(2, 1, "0:35", "SHOT", "EV", "TOR ONGOAL - #81 KESSEL, Wrist, Off. Zone, 32 ft."),
		row(3, 1, "1:10", "MISS", "EV", "MTL #76 SUBBAN, Slap, Wide of Net, Off. Zone, 58 ft."),
		row(4, 1, "2:00", "BLOCK", "EV", "MTL #8 PRUST BLOCKED BY  TOR #3 PHANEUF, Wrist, Def. Zone"),
		row(5, 1, "3:15", "PENL", "EV", "TOR #2 FRASER Hooking(2 min), Def. Zone Drawn By: MTL #51 DESHARNAIS"),
		row(6, 1, "3:15", "PENL", "EV", "MTL #76 SUBBAN Slashing(2 min), Off. Zone Drawn By: TOR #81 KESSEL"),
		row(7, 1, "5:00", "GOAL", "PP", "TOR #81 KESSEL(1), Wrist, Off. Zone, 21 ft. Assists: #42 BOZAK(1); #19 VAN RIEMSDYK(1)"),
		row(8, 1, "5:00", "FAC", "EV", "MTL won Neu. Zone - TOR #43 KADRI vs MTL #51 DESHARNAIS"),
		row(9, 1, "7:30", "STOP", "", "ICING,TV TIMEOUT"),
		row(10, 2, "4:12", "HIT", "EV", "TOR #2 FRASER HIT MTL #79 MARKOV, Def. Zone"),
		row(11, 2, "6:40", "GIVE", "EV", "MTL GIVEAWAY - #76 SUBBAN, Def. Zone"),
		row(12, 2, "6:55", "TAKE", "EV", "TOR TAKEAWAY - #81 KESSEL, Off. Zone"),
		row(13, 2, "10:00", "GOAL", "EV", "MTL #76 SUBBAN(1), Slap, Off. Zone, 50 ft. Assist: #51 DESHARNAIS(1)"),
		row(14, 2, "bad", "SHOT", "EV", "TOR ONGOAL - #81 KESSEL, Wrist, Off. Zone, 32 ft."),
		{Seq: 15, Period: 2, Elapsed: "11:00", Type: "SHOT", Description: "TOR ONGOAL", Columns: 6},
		row(16, 3, "20:00", "PEND", "", "Period End"),
	}
	g.Feed = []models.FeedPlay{
		{Period: 1, Elapsed: "00:00", Type: "FACEOFF", X: f64(0), Y: f64(0), ActiveID: i64(8443), PassiveID: i64(8519)},
		{Period: 1, Elapsed: "00:35", Type: "SHOT", X: f64(-55), Y: f64(8), ActiveID: i64(8481), ShotType: "Wrist"},
		{Period: 1, Elapsed: "03:15", Type: "PENALTY", X: f64(-60), Y: f64(20), ActiveID: i64(8402), PassiveID: i64(8551), PIM: intp(2), Infraction: "hooking"},
		{Period: 1, Elapsed: "03:15", Type: "PENALTY", X: f64(20), Y: f64(-5), ActiveID: i64(8576), PassiveID: i64(8481), PIM: intp(2), Infraction: "slashing"},
	}
	g.FinalScore = &models.Score{Home: 1, Road: 1}
	return g
}
