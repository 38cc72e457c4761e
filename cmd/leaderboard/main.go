// Command leaderboard prints one week's standings to stdout. It is the
// operational answer to "who is winning right now" without going through the
// scheduled summary SMS.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"nfl_pickem/service/internal/client"
	"nfl_pickem/service/internal/config"
	"nfl_pickem/service/internal/repository"
	"nfl_pickem/service/internal/schedule"
	"nfl_pickem/service/internal/season"
	"nfl_pickem/service/internal/service"
)

func main() {
	week := flag.Int("week", 0, "week to rank (default: current week)")
	flag.Parse()

	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	ctx := context.Background()
	cfg := config.MustLoad()

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.Health(ctx); err != nil {
		log.Fatal().Err(err).Msg("Database health check failed")
	}

	anchor, err := cfg.AnchorDate()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid season anchor")
	}
	seasonYear, err := cfg.Season()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid season year")
	}
	calendar := season.NewCalendar(anchor, seasonYear)

	feed := client.NewFeedClient(cfg.FeedBaseURL, cfg.FeedAPIKey, cfg.FeedLeagueID, cfg.FeedTimeout)
	sched := schedule.NewAdapter(feed, nil, cfg.FeedCacheTTL)
	identity := client.NewIdentityClient(cfg.IdentityBaseURL, cfg.IdentityAPIKey, cfg.IdentityTimeout)

	pickem := service.NewPickem(identity, db.Users, db.Picks, sched, calendar)

	target := *week
	if target == 0 {
		target = pickem.CurrentWeek()
	}

	board, err := pickem.WeeklyLeaderboard(ctx, target)
	if err != nil {
		log.Fatal().Err(err).Int("week", target).Msg("Failed to compute leaderboard")
	}

	if len(board.Rows) == 0 {
		fmt.Printf("Week %d: no submissions yet\n", target)
		os.Exit(0)
	}

	fmt.Printf("Week %d standings (%d players)\n", board.Week, len(board.Rows))
	if board.TiebreakLabel != "" {
		fmt.Printf("Tiebreaker %s: %d combined points\n", board.TiebreakLabel, board.ActualTiebreak)
	}
	for _, row := range board.Rows {
		fmt.Printf("%3d. %-24s %3d correct  (guess %d, submitted %s)\n",
			row.Rank, row.DisplayName, row.CorrectCount,
			row.TiebreakerGuess, row.SubmittedAt.Format("Mon 15:04"),
		)
	}
}
