package tictactoe

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// ParseProposal reads a move written as "row col symbol", e.g. "1 2 X". Commas and
// parentheses are treated as separators. The parsed move is not validated against
// any game; pass it through Apply.
func ParseProposal(text string) (entity.Move, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || r == ',' || r == '(' || r == ')'
	})

	if len(fields) != 3 {
		return entity.Move{}, fmt.Errorf("%w: %w: want \"row col symbol\", got %q",
			apperror.ErrIllegalMove, apperror.ErrMalformedProposal, text)
	}

	row, err := strconv.Atoi(fields[0])
	if err != nil {
		return entity.Move{}, fmt.Errorf("%w: %w: row %q", apperror.ErrIllegalMove, apperror.ErrMalformedProposal, fields[0])
	}

	col, err := strconv.Atoi(fields[1])
	if err != nil {
		return entity.Move{}, fmt.Errorf("%w: %w: col %q", apperror.ErrIllegalMove, apperror.ErrMalformedProposal, fields[1])
	}

	return entity.Move{Row: row, Col: col, Mark: entity.Mark(fields[2])}, nil
}

// ApplyProposal - parses an external proposal and applies it like any other move.
func ApplyProposal(game *entity.Game, text string) (entity.Move, error) {
	move, err := ParseProposal(text)
	if err != nil {
		return entity.Move{}, err
	}

	if _, err = Apply(game, move); err != nil {
		return move, err
	}

	return move, nil
}
