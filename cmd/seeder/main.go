package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/openhockey/pbp-engine/internal/models"
)

func main() {
	apiURL := flag.String("url", "http://localhost:8080/api/v1/games", "game ingestion endpoint")
	gameID := flag.Int64("game", 2013020001, "game id of the sample report")
	flag.Parse()

	payload, err := json.Marshal(sampleReport(*gameID))
	if err != nil {
		log.Fatalf("Failed to marshal JSON: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, *apiURL, bytes.NewBuffer(payload))
	if err != nil {
		log.Fatalf("Failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Failed to send request: %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	fmt.Printf("Status: %s\n", resp.Status)
	fmt.Printf("Response: %s\n", string(body))

	if resp.StatusCode == http.StatusAccepted {
		fmt.Println("Game queued")
	} else {
		fmt.Println("Game refused")
	}
}

// sampleReport is the opening minutes of a regular-season game
func sampleReport(gameID int64) *models.GameReport {
	homeGoalie, roadGoalie := int64(8471679), int64(8471418)
	home := models.OnIceSide{
		Skaters: map[int]int64{81: 8473548, 42: 8475098, 19: 8474037, 2: 8470602, 3: 8470601, 34: homeGoalie},
		Goalie:  &homeGoalie,
	}
	road := models.OnIceSide{
		Skaters: map[int]int64{76: 8474056, 51: 8471976, 8: 8470231, 79: 8467496, 47: 8474668, 31: roadGoalie},
		Goalie:  &roadGoalie,
	}
	onIce := models.OnIce{Home: home, Road: road}

	roster := models.Roster{models.SideHome: {}, models.SideRoad: {}}
	for n, id := range home.Skaters {
		roster[models.SideHome][n] = id
	}
	for n, id := range road.Skaters {
		roster[models.SideRoad][n] = id
	}

	row := func(seq, period int, elapsed, typ, strength, desc string) models.ReportRow {
		return models.ReportRow{Seq: seq, Period: period, Elapsed: elapsed, Type: typ, Strength: strength, Description: desc, OnIce: onIce, Columns: models.ExpectedColumns}
	}
	x, y := 0.0, 0.0

	return &models.GameReport{
		GameID:   gameID,
		Season:   20132014,
		GameType: models.GameTypeRegular,
		Home:     models.Team{ID: 10, Code: "TOR"},
		Road:     models.Team{ID: 8, Code: "MTL"},
		Roster:   roster,
		Rows: []models.ReportRow{
			row(1, 1, "0:00", "PSTR", "", "Period Start- Local time: 7:08 EDT"),
			row(2, 1, "0:00", "FAC", "EV", "TOR won Neu. Zone - TOR #42 BOZAK vs MTL #51 DESHARNAIS"),
			row(3, 1, "0:35", "SHOT", "EV", "TOR ONGOAL - #81 KESSEL, Wrist, Off. Zone, 32 ft."),
			row(4, 1, "1:10", "MISS", "EV", "MTL #76 SUBBAN, Slap, Wide of Net, Off. Zone, 58 ft."),
			row(5, 1, "2:00", "BLOCK", "EV", "MTL #8 PRUST BLOCKED BY  TOR #3 PHANEUF, Wrist, Def. Zone"),
			row(6, 1, "3:15", "PENL", "EV", "TOR #2 FRASER Hooking(2 min), Def. Zone Drawn By: MTL #51 DESHARNAIS"),
			row(7, 1, "4:40", "GOAL", "PP", "MTL #76 SUBBAN(1), Slap, Off. Zone, 50 ft. Assist: #51 DESHARNAIS(1)"),
			row(8, 1, "6:02", "STOP", "", "ICING,TV TIMEOUT"),
		},
		Feed: []models.FeedPlay{
			{Period: 1, Elapsed: "00:00", Type: "FACEOFF", X: &x, Y: &y},
		},
	}
}
