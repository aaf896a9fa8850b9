// Package minimax picks moves by exhaustive game-tree search with alpha-beta pruning.
//
// Scores are always taken from the point of view of the player to move at the root:
// +1 when that player wins, -1 when anyone else wins, 0 for a tie.
package minimax

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	ScoreWin  = 1
	ScoreTie  = 0
	ScoreLoss = -1

	negInf = ScoreLoss - 1
	posInf = ScoreWin + 1
)

var errExpired = errors.New("search expired")

// Result is the outcome of a search. Complete is false when the node budget or the
// context ran out before the whole tree was explored.
type Result struct {
	Move     entity.Move `json:"move"`
	Score    int         `json:"score"`
	Nodes    int         `json:"nodes"`
	Complete bool        `json:"complete"`
}

type Option func(*Searcher)

// WithoutPruning disables alpha-beta cutoffs.
func WithoutPruning() Option {
	return func(that *Searcher) {
		that.pruning = false
	}
}

// WithNodeBudget caps the number of visited nodes. Zero means unlimited.
func WithNodeBudget(budget int) Option {
	return func(that *Searcher) {
		that.nodeBudget = budget
	}
}

type Searcher struct {
	pruning    bool
	nodeBudget int
}

func New(opts ...Option) *Searcher {
	searcher := &Searcher{pruning: true}
	for _, opt := range opts {
		opt(searcher)
	}

	return searcher
}

// BestMove returns the first move, in row-major order, with the best guaranteed score
// for the player to move. The game itself is not modified.
//
// When the context is done or the node budget is spent, the best root move evaluated so
// far is returned with Complete set to false.
func (that *Searcher) BestMove(ctx context.Context, game *entity.Game) (Result, error) {
	moves := game.AvailableMoves()
	if len(moves) == 0 {
		return Result{}, fmt.Errorf("%w: game is %s", apperror.ErrNoMoveAvailable, game.Status)
	}

	run := &search{
		ctx:     ctx,
		game:    game.Clone(),
		root:    game.CurrentMark(),
		pruning: that.pruning,
		budget:  that.nodeBudget,
		nodes:   1,
	}

	result := Result{Move: moves[0]}
	best := negInf
	alpha := negInf

	for _, move := range moves {
		score, err := run.value(move, alpha, posInf)
		if errors.Is(err, errExpired) {
			break
		}
		if err != nil {
			return Result{}, err
		}

		if score > best {
			best = score
			result.Move = move
		}

		if that.pruning {
			alpha = max(alpha, best)
		}
	}

	if best != negInf {
		result.Score = best
	}
	result.Nodes = run.nodes
	result.Complete = !run.expired

	return result, nil
}

// search holds the state of one BestMove call. It explores a private copy of the game
// by applying and undoing moves.
type search struct {
	ctx     context.Context
	game    *entity.Game
	root    entity.Mark
	pruning bool
	budget  int

	nodes   int
	expired bool
}

func (that *search) value(move entity.Move, alpha, beta int) (int, error) {
	if err := that.game.Apply(move); err != nil {
		return 0, fmt.Errorf("failed to apply %s: %w", move, err)
	}

	score, err := that.minimax(alpha, beta)

	if undoErr := that.game.Undo(move); undoErr != nil {
		return 0, fmt.Errorf("failed to undo %s: %w", move, undoErr)
	}

	return score, err
}

func (that *search) minimax(alpha, beta int) (int, error) {
	if err := that.tick(); err != nil {
		return 0, err
	}

	switch that.game.Status {
	case entity.StatusWon:
		if that.game.Winner == that.root {
			return ScoreWin, nil
		}
		return ScoreLoss, nil
	case entity.StatusTied:
		return ScoreTie, nil
	}

	maximizing := that.game.CurrentMark() == that.root

	best := posInf
	if maximizing {
		best = negInf
	}

	for _, move := range that.game.AvailableMoves() {
		score, err := that.value(move, alpha, beta)
		if err != nil {
			return 0, err
		}

		if maximizing {
			best = max(best, score)
			alpha = max(alpha, best)
		} else {
			best = min(best, score)
			beta = min(beta, best)
		}

		if that.pruning && beta <= alpha {
			break
		}
	}

	return best, nil
}

// tick counts a node and reports expiry of the budget or the context.
func (that *search) tick() error {
	that.nodes++

	if that.budget > 0 && that.nodes > that.budget {
		that.expired = true
		return errExpired
	}

	if that.ctx.Err() != nil {
		that.expired = true
		return errExpired
	}

	return nil
}
