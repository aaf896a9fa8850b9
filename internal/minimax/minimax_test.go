package minimax

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func newGame(t *testing.T, size int) *entity.Game {
	t.Helper()

	game, err := entity.NewGame("search", entity.DefaultPlayers(), size)
	require.NoError(t, err)

	return game
}

// play applies moves for whoever is to move, in order.
func play(t *testing.T, game *entity.Game, cells ...entity.Cell) {
	t.Helper()

	for _, cell := range cells {
		move := entity.Move{Row: cell.Row, Col: cell.Col, Mark: game.CurrentMark()}
		require.NoError(t, game.Apply(move), "move %s", move)
	}
}

func TestSearcher_BestMove(t *testing.T) {
	ctx := context.Background()

	t.Run("Prefers an immediate win over blocking", func(t *testing.T) {
		// Given: X at (0,0),(0,1), O at (1,0),(1,1), X to move
		game := newGame(t, 3)
		play(t, game,
			entity.Cell{Row: 0, Col: 0}, entity.Cell{Row: 1, Col: 0},
			entity.Cell{Row: 0, Col: 1}, entity.Cell{Row: 1, Col: 1},
		)

		// When: searching for the best move
		result, err := New().BestMove(ctx, game)
		require.NoError(t, err)

		// Then: X completes the top row
		assert.Equal(t, entity.Move{Row: 0, Col: 2, Mark: entity.PlayerX}, result.Move)
		assert.Equal(t, ScoreWin, result.Score)
		assert.True(t, result.Complete)
	})

	t.Run("Blocks the opponent's winning cell", func(t *testing.T) {
		// Given: O at (2,0),(2,1), X at (0,1),(1,2) with no immediate win, X to move
		game := newGame(t, 3)
		play(t, game,
			entity.Cell{Row: 0, Col: 1}, entity.Cell{Row: 2, Col: 0},
			entity.Cell{Row: 1, Col: 2}, entity.Cell{Row: 2, Col: 1},
		)

		// When: searching for the best move
		result, err := New().BestMove(ctx, game)
		require.NoError(t, err)

		// Then: X blocks at (2,2)
		assert.Equal(t, entity.Move{Row: 2, Col: 2, Mark: entity.PlayerX}, result.Move)
		assert.GreaterOrEqual(t, result.Score, ScoreTie)
	})

	t.Run("Scores from the point of view of the player to move", func(t *testing.T) {
		// Given: O to move with a win available on the middle row
		game := newGame(t, 3)
		play(t, game,
			entity.Cell{Row: 0, Col: 0}, entity.Cell{Row: 1, Col: 0},
			entity.Cell{Row: 0, Col: 1}, entity.Cell{Row: 1, Col: 1},
			entity.Cell{Row: 2, Col: 2},
		)
		require.Equal(t, entity.PlayerO, game.CurrentMark())

		// When: searching for O
		result, err := New().BestMove(ctx, game)
		require.NoError(t, err)

		// Then: the win is scored positively for O
		assert.Equal(t, entity.PlayerO, result.Move.Mark)
		assert.Equal(t, ScoreWin, result.Score)
	})

	t.Run("Does not modify the searched game", func(t *testing.T) {
		game := newGame(t, 3)
		play(t, game, entity.Cell{Row: 1, Col: 1})
		before := game.Clone()

		_, err := New().BestMove(ctx, game)
		require.NoError(t, err)

		assert.Equal(t, before, game)
	})

	t.Run("Tied board has no move", func(t *testing.T) {
		// Given: a tied game
		game := newGame(t, 3)
		play(t, game,
			entity.Cell{Row: 0, Col: 0}, entity.Cell{Row: 0, Col: 1}, entity.Cell{Row: 0, Col: 2},
			entity.Cell{Row: 1, Col: 1}, entity.Cell{Row: 1, Col: 0}, entity.Cell{Row: 1, Col: 2},
			entity.Cell{Row: 2, Col: 1}, entity.Cell{Row: 2, Col: 0}, entity.Cell{Row: 2, Col: 2},
		)
		require.Equal(t, entity.StatusTied, game.Status)

		// When: searching
		_, err := New().BestMove(ctx, game)

		// Then: ErrNoMoveAvailable is returned
		assert.ErrorIs(t, err, apperror.ErrNoMoveAvailable)
	})

	t.Run("Won board has no move", func(t *testing.T) {
		game := newGame(t, 3)
		play(t, game,
			entity.Cell{Row: 0, Col: 0}, entity.Cell{Row: 1, Col: 0},
			entity.Cell{Row: 0, Col: 1}, entity.Cell{Row: 1, Col: 1},
			entity.Cell{Row: 0, Col: 2},
		)

		_, err := New().BestMove(ctx, game)

		assert.ErrorIs(t, err, apperror.ErrNoMoveAvailable)
	})
}

func TestSearcher_SelfPlay(t *testing.T) {
	t.Run("Optimal play from the empty board is a tie", func(t *testing.T) {
		// Given: an empty 3x3 board
		game := newGame(t, 3)
		searcher := New()

		// When: both sides play the searched move until the end
		for game.IsOngoing() {
			result, err := searcher.BestMove(context.Background(), game)
			require.NoError(t, err)
			require.NoError(t, game.Apply(result.Move))
		}

		// Then: the game is tied
		assert.Equal(t, entity.StatusTied, game.Status)
	})

	t.Run("Self-play is reproducible", func(t *testing.T) {
		first := newGame(t, 3)
		second := newGame(t, 3)

		for _, game := range []*entity.Game{first, second} {
			for game.IsOngoing() {
				result, err := New().BestMove(context.Background(), game)
				require.NoError(t, err)
				require.NoError(t, game.Apply(result.Move))
			}
		}

		assert.Equal(t, first.Moves, second.Moves)
	})
}

func TestSearcher_PruningEquivalence(t *testing.T) {
	ctx := context.Background()
	pruned := New()
	plain := New(WithoutPruning())

	// Given: every state within two plies of the empty board and a sample of deeper ones
	states := []*entity.Game{newGame(t, 3)}
	for _, first := range newGame(t, 3).AvailableMoves() {
		game := newGame(t, 3)
		require.NoError(t, game.Apply(first))
		states = append(states, game.Clone())

		for _, second := range game.AvailableMoves() {
			next := game.Clone()
			require.NoError(t, next.Apply(second))
			states = append(states, next)
		}
	}

	rnd := rand.New(rand.NewSource(2024))
	for range 200 {
		game := newGame(t, 3)
		plies := 2 + rnd.Intn(6)
		for range plies {
			moves := game.AvailableMoves()
			if len(moves) == 0 {
				break
			}
			require.NoError(t, game.Apply(moves[rnd.Intn(len(moves))]))
		}
		if game.IsOngoing() {
			states = append(states, game)
		}
	}

	for _, game := range states {
		// When: searching with and without pruning
		withPruning, err := pruned.BestMove(ctx, game)
		require.NoError(t, err)

		withoutPruning, err := plain.BestMove(ctx, game)
		require.NoError(t, err)

		// Then: the move and the score agree, and pruning never visits more nodes
		require.Equal(t, withoutPruning.Move, withPruning.Move, "moves %v", game.Moves)
		require.Equal(t, withoutPruning.Score, withPruning.Score, "moves %v", game.Moves)
		require.LessOrEqual(t, withPruning.Nodes, withoutPruning.Nodes)
	}
}

func TestSearcher_Expiry(t *testing.T) {
	t.Run("Node budget returns a legal move early", func(t *testing.T) {
		// Given: a 4x4 board, far too big for a ten-thousand node budget
		game := newGame(t, 4)

		// When: searching with the budget
		result, err := New(WithNodeBudget(10_000)).BestMove(context.Background(), game)

		// Then: a legal move comes back, flagged incomplete
		require.NoError(t, err)
		assert.False(t, result.Complete)
		assert.True(t, game.IsLegal(result.Move))
		assert.LessOrEqual(t, result.Nodes, 10_001)
	})

	t.Run("Canceled context returns the first available move", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		game := newGame(t, 3)
		result, err := New().BestMove(ctx, game)

		require.NoError(t, err)
		assert.False(t, result.Complete)
		assert.Equal(t, game.AvailableMoves()[0], result.Move)
	})

	t.Run("Deadline search keeps an immediate win", func(t *testing.T) {
		// Given: X can win at (0,3), the first root move searched
		game := newGame(t, 4)
		play(t, game,
			entity.Cell{Row: 0, Col: 0}, entity.Cell{Row: 1, Col: 0},
			entity.Cell{Row: 0, Col: 1}, entity.Cell{Row: 1, Col: 1},
			entity.Cell{Row: 0, Col: 2}, entity.Cell{Row: 1, Col: 2},
		)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		// When: searching under a short deadline
		result, err := New().BestMove(ctx, game)

		// Then: the win found on the first root move is kept
		require.NoError(t, err)
		assert.Equal(t, entity.Move{Row: 0, Col: 3, Mark: entity.PlayerX}, result.Move)
		assert.Equal(t, ScoreWin, result.Score)
	})
}
