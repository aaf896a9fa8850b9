// Package tictactoe is the entry point drivers use to play: it creates games, validates
// and applies moves from any source, and asks the search engine for automated turns.
package tictactoe

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
	"github.com/rocketscienceinc/tictactoe-engine/internal/pkg"
)

var searcher = minimax.New()

// NewGame - creates an empty game with a fresh id.
func NewGame(players []entity.Player, size int) (*entity.Game, error) {
	game, err := entity.NewGame(pkg.GenerateGameID(), players, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	return game, nil
}

func IsLegal(game *entity.Game, move entity.Move) bool {
	return game.IsLegal(move)
}

// Apply - validates and applies the move. The game is left unchanged on error.
func Apply(game *entity.Game, move entity.Move) (*entity.Game, error) {
	if err := game.Apply(move); err != nil {
		return game, fmt.Errorf("invalid turn: %w", err)
	}

	return game, nil
}

// BestMove - searches the optimal move for the player to move.
func BestMove(ctx context.Context, game *entity.Game) (entity.Move, error) {
	result, err := searcher.BestMove(ctx, game)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to search best move: %w", err)
	}

	return result.Move, nil
}

func Status(game *entity.Game) entity.Outcome {
	return game.Outcome()
}

func Reset(game *entity.Game) *entity.Game {
	game.Reset()
	return game
}
