package entity

import "time"

// Result is a finished round kept in the ledger.
type Result struct {
	GameID     string    `json:"game_id"`
	BoardSize  int       `json:"board_size"`
	Status     Status    `json:"status"`
	Winner     Mark      `json:"winner,omitempty"`
	Moves      []Move    `json:"moves"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewResult snapshots a finished game.
func NewResult(game *Game, finishedAt time.Time) *Result {
	moves := make([]Move, len(game.Moves))
	copy(moves, game.Moves)

	return &Result{
		GameID:     game.ID,
		BoardSize:  game.Board.Size,
		Status:     game.Status,
		Winner:     game.Winner,
		Moves:      moves,
		FinishedAt: finishedAt.UTC(),
	}
}

// Stats aggregates the ledger.
type Stats struct {
	Games int          `json:"games"`
	Ties  int          `json:"ties"`
	Wins  map[Mark]int `json:"wins"`
}
