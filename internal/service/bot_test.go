package service

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewBotService(t *testing.T) {
	for _, probability := range []float64{-0.1, 1.01, math.NaN()} {
		_, err := NewBotService(discardLogger(), BotConfig{OptimalMoveProbability: probability})

		assert.ErrorIs(t, err, apperror.ErrConfiguration)
		assert.ErrorIs(t, err, apperror.ErrInvalidSkill)
	}
}

func TestBotService_ChooseMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Perfect bot takes the win", func(t *testing.T) {
		// Given: X can complete the top row
		bot, err := NewBotService(discardLogger(), BotConfig{OptimalMoveProbability: 1})
		require.NoError(t, err)

		game, err := entity.NewGame("bot", entity.DefaultPlayers(), 3)
		require.NoError(t, err)
		for _, move := range []entity.Move{
			{Row: 0, Col: 0, Mark: entity.PlayerX}, {Row: 1, Col: 0, Mark: entity.PlayerO},
			{Row: 0, Col: 1, Mark: entity.PlayerX}, {Row: 1, Col: 1, Mark: entity.PlayerO},
		} {
			require.NoError(t, game.Apply(move))
		}

		// When: the bot chooses
		move, err := bot.ChooseMove(ctx, game)

		// Then: it wins and the game is not touched
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 2, Mark: entity.PlayerX}, move)
		assert.Len(t, game.Moves, 4)
	})

	t.Run("Random bot plays only legal moves", func(t *testing.T) {
		bot, err := NewBotService(discardLogger(), BotConfig{OptimalMoveProbability: 0, Seed: 11})
		require.NoError(t, err)

		game, err := entity.NewGame("bot", entity.DefaultPlayers(), 3)
		require.NoError(t, err)

		for game.IsOngoing() {
			_, err = bot.MakeTurn(ctx, game)
			require.NoError(t, err)
		}

		assert.True(t, game.IsFinished())
	})

	t.Run("Finished game has no move", func(t *testing.T) {
		bot, err := NewBotService(discardLogger(), BotConfig{OptimalMoveProbability: 1})
		require.NoError(t, err)

		game, err := entity.NewGame("bot", entity.DefaultPlayers(), 1)
		require.NoError(t, err)
		require.NoError(t, game.Apply(entity.Move{Mark: entity.PlayerX}))

		_, err = bot.MakeTurn(ctx, game)

		assert.ErrorIs(t, err, apperror.ErrNoMoveAvailable)
	})
}
