package apperror

import "errors"

// Illegal move and its causes. Callers match the family with errors.Is(err, ErrIllegalMove)
// and the concrete cause with the detail error.
var (
	ErrIllegalMove       = errors.New("illegal move")
	ErrInvalidCell       = errors.New("invalid cell")
	ErrCellOccupied      = errors.New("cell is already occupied")
	ErrGameFinished      = errors.New("game is already finished")
	ErrNotYourTurn       = errors.New("it's not your turn")
	ErrNotLastMove       = errors.New("move is not the last applied move")
	ErrMalformedProposal = errors.New("malformed move proposal")
)

var ErrNoMoveAvailable = errors.New("no move available")

// Configuration errors.
var (
	ErrConfiguration    = errors.New("invalid configuration")
	ErrInvalidBoardSize = errors.New("board size is out of range")
	ErrNotEnoughPlayers = errors.New("at least two players are required")
	ErrDuplicateMark    = errors.New("player marks must be distinct and non-empty")
	ErrInvalidSkill     = errors.New("optimal move probability must be within [0, 1]")
)

var ErrGameNotFound = errors.New("game not found")
