package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/testing/suite"
)

func newGame(t *testing.T) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("123", entity.DefaultPlayers(), entity.DefaultBoardSize)
	require.NoError(t, err)

	return game
}

func TestGameRepository_CreateOrUpdate(t *testing.T) {
	ctx, st := suite.New(t)

	gameRepo := NewGameRepository(st.Storage, time.Hour)

	// Given: a game with one move
	game := newGame(t)
	require.NoError(t, game.Apply(entity.Move{Row: 1, Col: 1, Mark: entity.PlayerX}))

	// When: CreateOrUpdate is called
	err := gameRepo.CreateOrUpdate(ctx, game)

	// Then: the game is stored with the session ttl
	require.NoError(t, err)

	ttl, err := st.Storage.TTL(ctx, "game:123").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Hour)
}

func TestGameRepository_GetByID(t *testing.T) {
	t.Run("Stored game round-trips", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a game in the middle of play
		game := newGame(t)
		require.NoError(t, game.Apply(entity.Move{Row: 0, Col: 0, Mark: entity.PlayerX}))
		require.NoError(t, game.Apply(entity.Move{Row: 2, Col: 2, Mark: entity.PlayerO}))

		err := gameRepo.CreateOrUpdate(ctx, game)
		require.NoError(t, err)

		// When: GetByID is called with existing ID
		retrievedGame, err := gameRepo.GetByID(ctx, game.ID)

		// Then: the retrieved game keeps its board, turn and history
		require.NoError(t, err)
		assert.Equal(t, game.ID, retrievedGame.ID)
		assert.Equal(t, game.Board, retrievedGame.Board)
		assert.Equal(t, game.Moves, retrievedGame.Moves)
		assert.Equal(t, entity.PlayerX, retrievedGame.CurrentMark())

		// And: the restored game keeps playing
		require.NoError(t, retrievedGame.Apply(entity.Move{Row: 0, Col: 1, Mark: entity.PlayerX}))
	})

	t.Run("Missing game is not found", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// When: GetByID is called with non-existent ID
		retrievedGame, err := gameRepo.GetByID(ctx, "9999999")

		// Then: ErrGameNotFound is returned
		require.ErrorIs(t, err, apperror.ErrGameNotFound)
		assert.Nil(t, retrievedGame)
	})
}

func TestGameRepository_DeleteByID(t *testing.T) {
	t.Run("Deleted game is gone", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		// Given: a stored game
		game := newGame(t)
		require.NoError(t, gameRepo.CreateOrUpdate(ctx, game))

		// When: DeleteByID is called
		err := gameRepo.DeleteByID(ctx, game.ID)
		require.NoError(t, err)

		// Then: the game can no longer be read
		_, err = gameRepo.GetByID(ctx, game.ID)
		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})

	t.Run("Deleting a missing game is not found", func(t *testing.T) {
		ctx, st := suite.New(t)

		gameRepo := NewGameRepository(st.Storage, 0)

		err := gameRepo.DeleteByID(ctx, "9999999")

		assert.ErrorIs(t, err, apperror.ErrGameNotFound)
	})
}
