package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/minimax"
)

type BotService interface {
	ChooseMove(ctx context.Context, game *entity.Game) (entity.Move, error)
	MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error)
}

// BotConfig tunes the automated player.
type BotConfig struct {
	// OptimalMoveProbability is the chance of playing the searched move. The rest of the
	// time a uniformly random legal move is played.
	OptimalMoveProbability float64
	NodeBudget             int
	SearchTimeout          time.Duration
	// Seed feeds the random source. Zero seeds from the clock.
	Seed int64
}

type botService struct {
	logger   *slog.Logger
	searcher *minimax.Searcher
	config   BotConfig

	mu  sync.Mutex
	rnd *rand.Rand
}

func NewBotService(logger *slog.Logger, config BotConfig) (BotService, error) {
	if !entity.IsProbability(config.OptimalMoveProbability) {
		return nil, fmt.Errorf("%w: %w: %v", apperror.ErrConfiguration, apperror.ErrInvalidSkill, config.OptimalMoveProbability)
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &botService{
		logger:   logger.With("component", "bot"),
		searcher: minimax.New(minimax.WithNodeBudget(config.NodeBudget)),
		config:   config,
		rnd:      rand.New(rand.NewSource(seed)), //nolint: gosec // it's ok
	}, nil
}

// ChooseMove - picks a move for the player to move without applying it.
func (that *botService) ChooseMove(ctx context.Context, game *entity.Game) (entity.Move, error) {
	moves := game.AvailableMoves()
	if len(moves) == 0 {
		return entity.Move{}, fmt.Errorf("%w: game is %s", apperror.ErrNoMoveAvailable, game.Status)
	}

	if !that.playsOptimally() {
		move := moves[that.intn(len(moves))]
		that.logger.Debug("random move", "gameID", game.ID, "move", move.String())

		return move, nil
	}

	if that.config.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, that.config.SearchTimeout)
		defer cancel()
	}

	result, err := that.searcher.BestMove(ctx, game)
	if err != nil {
		return entity.Move{}, fmt.Errorf("failed to search move: %w", err)
	}

	log := that.logger.With("gameID", game.ID, "move", result.Move.String(), "score", result.Score, "nodes", result.Nodes)
	if !result.Complete {
		log.Warn("search expired, playing best move so far")
	} else {
		log.Debug("searched move")
	}

	return result.Move, nil
}

func (that *botService) MakeTurn(ctx context.Context, game *entity.Game) (entity.Move, error) {
	move, err := that.ChooseMove(ctx, game)
	if err != nil {
		return entity.Move{}, err
	}

	if err = game.Apply(move); err != nil {
		return entity.Move{}, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return move, nil
}

func (that *botService) playsOptimally() bool {
	if that.config.OptimalMoveProbability >= 1 {
		return true
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Float64() < that.config.OptimalMoveProbability
}

func (that *botService) intn(n int) int {
	that.mu.Lock()
	defer that.mu.Unlock()

	return that.rnd.Intn(n)
}
