package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/ClickHouse/clickhouse-go/v2"
)

// Prints the on-ice shot-attempt differential of every player of one game
func main() {
	gameID := flag.Int64("game", 0, "game id")
	flag.Parse()
	if *gameID == 0 {
		log.Fatal("-game is required")
	}

	dsn := os.Getenv("CLICKHOUSE_URL")
	if dsn == "" {
		dsn = "clickhouse://localhost:9000/pbp"
	}
	opts, err := clickhouse.ParseDSN(dsn)
	if err != nil {
		log.Fatal(err)
	}
	conn, err := clickhouse.Open(opts)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()

	var count uint64
	err = conn.QueryRow(ctx, "SELECT count() FROM pbp.shot_attempts FINAL WHERE game_id = ?", *gameID).Scan(&count)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Shot attempt records: %d\n", count)

	rows, err := conn.Query(ctx, `
		SELECT player_id, team_id, sum(plus_minus) AS diff, countIf(actual) AS own
		FROM pbp.shot_attempts FINAL
		WHERE game_id = ?
		GROUP BY player_id, team_id
		ORDER BY team_id, diff DESC`, *gameID)
	if err != nil {
		log.Fatal(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			playerID, teamID int64
			diff             int64
			own              uint64
		)
		if err := rows.Scan(&playerID, &teamID, &diff, &own); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("team %-4d player %-8d diff %+4d own %d\n", teamID, playerID, diff, own)
	}
	if err := rows.Err(); err != nil {
		log.Fatal(err)
	}
}
