// Command selfplay pits two bots against each other and records every round in the
// results ledger.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-engine/internal/config"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository"
	"github.com/rocketscienceinc/tictactoe-engine/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-engine/internal/service"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type options struct {
	configPath string
	rounds     int
	size       int
	skills     [2]float64
	seed       int64
}

func main() {
	opts := options{}
	flag.StringVar(&opts.configPath, "config", "config.yml", "path to the config file")
	flag.IntVar(&opts.rounds, "rounds", 10, "number of games to play")
	flag.IntVar(&opts.size, "size", 0, "board size, 0 uses the config")
	flag.Float64Var(&opts.skills[0], "first-skill", 1, "optimal move probability of the first bot")
	flag.Float64Var(&opts.skills[1], "second-skill", 1, "optimal move probability of the second bot")
	flag.Int64Var(&opts.seed, "seed", 0, "random seed, 0 seeds from the clock")
	flag.Parse()

	conf, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "selfplay: %v\n", err)
		os.Exit(1)
	}

	logger := pkg.NewLogger(os.Stdout, conf.LogLevel)

	if err = run(logger, conf, opts); err != nil {
		logger.Error("selfplay failed", "error", err)
		os.Exit(1)
	}
}

func run(logger *slog.Logger, conf *config.Config, opts options) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if opts.size == 0 {
		opts.size = conf.Game.BoardSize
	}

	players := conf.Game.GamePlayers()
	if len(players) != len(opts.skills) {
		return fmt.Errorf("selfplay needs exactly %d players, config has %d", len(opts.skills), len(players))
	}

	bots := make(map[entity.Mark]service.BotService, len(players))
	for i := range players {
		players[i].Bot = true

		bot, err := service.NewBotService(logger, service.BotConfig{
			OptimalMoveProbability: opts.skills[i],
			NodeBudget:             conf.Game.SearchNodeBudget,
			SearchTimeout:          conf.Game.SearchTimeout,
			Seed:                   seedFor(opts.seed, i),
		})
		if err != nil {
			return fmt.Errorf("could not create bot %s: %w", players[i].Mark, err)
		}
		bots[players[i].Mark] = bot
	}

	sqliteStorage, err := storage.NewSQLiteStorage(conf.SQLiteStoragePath)
	if err != nil {
		return fmt.Errorf("could not open sqlite storage: %w", err)
	}
	defer func() {
		if closeErr := sqliteStorage.Close(); closeErr != nil {
			logger.Error("could not close sqlite storage", "error", closeErr)
		}
	}()

	if err = sqliteStorage.Init(ctx); err != nil {
		return fmt.Errorf("could not init sqlite storage: %w", err)
	}

	results := service.NewResultService(repository.NewResultRepository(sqliteStorage.Connection))

	game, err := tictactoe.NewGame(players, opts.size)
	if err != nil {
		return err
	}

	for round := range opts.rounds {
		if ctx.Err() != nil {
			break
		}

		tictactoe.Reset(game)
		for game.IsOngoing() {
			if _, err = bots[game.CurrentMark()].MakeTurn(ctx, game); err != nil {
				return fmt.Errorf("round %d: %w", round, err)
			}
		}

		outcome := tictactoe.Status(game)
		logger.Info("round finished", "round", round, "status", outcome.Status, "winner", outcome.Winner, "moves", len(game.Moves))

		if err = results.RecordResult(ctx, game); err != nil {
			return err
		}
	}

	stats, err := results.GetStats(ctx)
	if err != nil {
		return err
	}

	logger.Info("ledger totals", "games", stats.Games, "ties", stats.Ties, "wins", stats.Wins)

	return nil
}

func seedFor(seed int64, seat int) int64 {
	if seed == 0 {
		return 0
	}

	return seed + int64(seat)
}
