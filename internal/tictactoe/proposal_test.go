package tictactoe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

func TestParseProposal(t *testing.T) {
	valid := map[string]entity.Move{
		"1 2 X":       {Row: 1, Col: 2, Mark: entity.PlayerX},
		"0,0,O":       {Row: 0, Col: 0, Mark: entity.PlayerO},
		"(2, 1) X":    {Row: 2, Col: 1, Mark: entity.PlayerX},
		"  1   1  O ": {Row: 1, Col: 1, Mark: entity.PlayerO},
	}

	for text, expected := range valid {
		t.Run("Parses "+text, func(t *testing.T) {
			move, err := ParseProposal(text)

			require.NoError(t, err)
			assert.Equal(t, expected, move)
		})
	}

	for _, text := range []string{"", "1 2", "a 1 X", "1 b X", "1 2 X extra"} {
		t.Run("Rejects "+text, func(t *testing.T) {
			_, err := ParseProposal(text)

			assert.ErrorIs(t, err, apperror.ErrIllegalMove)
			assert.ErrorIs(t, err, apperror.ErrMalformedProposal)
		})
	}
}

func TestApplyProposal(t *testing.T) {
	t.Run("Applies a well-formed legal proposal", func(t *testing.T) {
		game, err := NewGame(entity.DefaultPlayers(), 3)
		require.NoError(t, err)

		move, err := ApplyProposal(game, "1 1 X")

		require.NoError(t, err)
		assert.Equal(t, entity.PlayerX, game.Board.At(move.Cell()))
		assert.Equal(t, entity.PlayerO, game.CurrentMark())
	})

	t.Run("Rejects a well-formed illegal proposal", func(t *testing.T) {
		// Given: X to move
		game, err := NewGame(entity.DefaultPlayers(), 3)
		require.NoError(t, err)

		// When: O proposes out of turn
		_, err = ApplyProposal(game, "0 0 O")

		// Then: it is an illegal move and the board stays empty
		assert.ErrorIs(t, err, apperror.ErrNotYourTurn)
		assert.Len(t, game.AvailableMoves(), 9)
	})

	t.Run("Rejects an out of range proposal", func(t *testing.T) {
		game, err := NewGame(entity.DefaultPlayers(), 3)
		require.NoError(t, err)

		_, err = ApplyProposal(game, "3 0 X")

		assert.ErrorIs(t, err, apperror.ErrInvalidCell)
	})
}
