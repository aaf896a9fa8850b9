package entity

import (
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
)

type Status string

const (
	StatusOngoing Status = "ongoing"
	StatusWon     Status = "won"
	StatusTied    Status = "tied"
)

// Move places Mark on the cell at Row, Col.
type Move struct {
	Row  int  `json:"row"`
	Col  int  `json:"col"`
	Mark Mark `json:"mark"`
}

func (that Move) Cell() Cell {
	return Cell{Row: that.Row, Col: that.Col}
}

func (that Move) String() string {
	return fmt.Sprintf("%s@(%d,%d)", that.Mark, that.Row, that.Col)
}

// Outcome is the terminal status of a game. Winner and Line are set only for StatusWon.
type Outcome struct {
	Status Status `json:"status"`
	Winner Mark   `json:"winner,omitempty"`
	Line   Line   `json:"line,omitempty"`
}

// Game is the rules engine. It is not safe for concurrent use.
type Game struct {
	ID          string   `json:"id"`
	Players     []Player `json:"players"`
	Board       Board    `json:"board"`
	Turn        int      `json:"turn"`
	Status      Status   `json:"status"`
	Winner      Mark     `json:"winner,omitempty"`
	WinningLine Line     `json:"winning_line,omitempty"`
	Moves       []Move   `json:"moves,omitempty"`

	lines []Line
}

// NewGame creates an empty game where players[0] moves first.
func NewGame(id string, players []Player, size int) (*Game, error) {
	if err := ValidateBoardSize(size); err != nil {
		return nil, err
	}

	if err := validatePlayers(players); err != nil {
		return nil, err
	}

	seats := make([]Player, len(players))
	copy(seats, players)

	return &Game{
		ID:      id,
		Players: seats,
		Board:   NewBoard(size),
		Status:  StatusOngoing,
		lines:   WinningLines(size),
	}, nil
}

// ValidateBoardSize accepts sizes from 1 to MaxBoardSize.
func ValidateBoardSize(size int) error {
	if size < 1 || size > MaxBoardSize {
		return fmt.Errorf("%w: %w: got %d, want 1..%d", apperror.ErrConfiguration, apperror.ErrInvalidBoardSize, size, MaxBoardSize)
	}

	return nil
}

func validatePlayers(players []Player) error {
	if len(players) < 2 {
		return fmt.Errorf("%w: %w: got %d", apperror.ErrConfiguration, apperror.ErrNotEnoughPlayers, len(players))
	}

	seen := make(map[Mark]struct{}, len(players))
	for _, player := range players {
		if _, ok := seen[player.Mark]; ok || player.Mark == EmptyCell {
			return fmt.Errorf("%w: %w: %q", apperror.ErrConfiguration, apperror.ErrDuplicateMark, player.Mark)
		}
		seen[player.Mark] = struct{}{}
	}

	return nil
}

func (that *Game) CurrentPlayer() Player {
	return that.Players[that.Turn]
}

func (that *Game) CurrentMark() Mark {
	return that.Players[that.Turn].Mark
}

func (that *Game) IsFinished() bool {
	return that.Status == StatusWon || that.Status == StatusTied
}

func (that *Game) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *Game) Outcome() Outcome {
	return Outcome{
		Status: that.Status,
		Winner: that.Winner,
		Line:   that.WinningLine,
	}
}

// IsLegal reports whether Apply would accept move.
func (that *Game) IsLegal(move Move) bool {
	return that.validate(move) == nil
}

func (that *Game) validate(move Move) error {
	if that.IsFinished() {
		return fmt.Errorf("%w: %w", apperror.ErrIllegalMove, apperror.ErrGameFinished)
	}

	if !that.Board.InBounds(move.Cell()) {
		return fmt.Errorf("%w: %w: (%d, %d)", apperror.ErrIllegalMove, apperror.ErrInvalidCell, move.Row, move.Col)
	}

	if that.Board.At(move.Cell()) != EmptyCell {
		return fmt.Errorf("%w: %w: (%d, %d)", apperror.ErrIllegalMove, apperror.ErrCellOccupied, move.Row, move.Col)
	}

	if move.Mark != that.CurrentMark() {
		return fmt.Errorf("%w: %w: %s to move, got %s", apperror.ErrIllegalMove, apperror.ErrNotYourTurn, that.CurrentMark(), move.Mark)
	}

	return nil
}

// Apply places the move, then updates the status and the turn. A rejected move leaves
// the game untouched.
func (that *Game) Apply(move Move) error {
	if err := that.validate(move); err != nil {
		return err
	}

	that.Board.set(move.Cell(), move.Mark)
	that.Moves = append(that.Moves, move)
	that.updateStatus()

	return nil
}

// updateStatus scans the winning lines in canonical order. The turn advances only
// while the game goes on.
func (that *Game) updateStatus() {
	for _, line := range that.winningLines() {
		if owner := that.Board.LineOwner(line); owner != EmptyCell {
			that.Status = StatusWon
			that.Winner = owner
			that.WinningLine = line
			return
		}
	}

	if that.Board.IsFull() {
		that.Status = StatusTied
		return
	}

	that.Turn = (that.Turn + 1) % len(that.Players)
}

// Undo takes back the last applied move.
func (that *Game) Undo(move Move) error {
	last := len(that.Moves) - 1
	if last < 0 || that.Moves[last] != move {
		return fmt.Errorf("%w: %w: %s", apperror.ErrIllegalMove, apperror.ErrNotLastMove, move)
	}

	that.Board.set(move.Cell(), EmptyCell)
	if last == 0 {
		that.Moves = nil
	} else {
		that.Moves = that.Moves[:last]
	}

	that.Status = StatusOngoing
	that.Winner = EmptyCell
	that.WinningLine = nil
	that.Turn = that.playerIndex(move.Mark)

	return nil
}

// AvailableMoves pairs every empty cell, in row-major order, with the mark to move.
func (that *Game) AvailableMoves() []Move {
	if that.IsFinished() {
		return nil
	}

	mark := that.CurrentMark()
	cells := that.Board.EmptyCells()

	moves := make([]Move, 0, len(cells))
	for _, cell := range cells {
		moves = append(moves, Move{Row: cell.Row, Col: cell.Col, Mark: mark})
	}

	return moves
}

// Reset empties the board and gives the turn back to the first player.
func (that *Game) Reset() {
	that.Board = NewBoard(that.Board.Size)
	that.Turn = 0
	that.Status = StatusOngoing
	that.Winner = EmptyCell
	that.WinningLine = nil
	that.Moves = nil
}

func (that *Game) Clone() *Game {
	clone := *that

	clone.Players = make([]Player, len(that.Players))
	copy(clone.Players, that.Players)

	clone.Board = that.Board.clone()

	if that.Moves != nil {
		clone.Moves = make([]Move, len(that.Moves))
		copy(clone.Moves, that.Moves)
	}

	return &clone
}

func (that *Game) winningLines() []Line {
	if that.lines == nil {
		that.lines = WinningLines(that.Board.Size)
	}

	return that.lines
}

func (that *Game) playerIndex(mark Mark) int {
	for i, player := range that.Players {
		if player.Mark == mark {
			return i
		}
	}

	return that.Turn
}
