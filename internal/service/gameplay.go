package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
	"github.com/rocketscienceinc/tictactoe-engine/internal/tictactoe"
)

type GamePlayService interface {
	CreateGame(ctx context.Context, players []entity.Player, size int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error)
	BotTurn(ctx context.Context, gameID string) (*entity.Game, error)
	ProposeTurn(ctx context.Context, gameID, proposal string, fallbackToBot bool) (*entity.Game, error)

	ResetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

// DefaultAutoPlayTimeout bounds the bot moves made within one call, below the HTTP write timeout.
const DefaultAutoPlayTimeout = 5 * time.Second

type GamePlayOption func(*gamePlayService)

// WithAutoPlayTimeout sets how long bot seats may keep searching within one call. Once it
// passes, the remaining bot moves take the best move found so far.
func WithAutoPlayTimeout(timeout time.Duration) GamePlayOption {
	return func(that *gamePlayService) {
		that.autoPlayTimeout = timeout
	}
}

type gamePlayService struct {
	logger          *slog.Logger
	autoPlayTimeout time.Duration

	gameService   GameService
	botService    BotService
	resultService ResultService
}

func NewGamePlayService(
	logger *slog.Logger,
	gameService GameService,
	botService BotService,
	resultService ResultService,
	opts ...GamePlayOption,
) GamePlayService {
	gamePlay := &gamePlayService{
		logger:          logger.With("component", "gameplay"),
		autoPlayTimeout: DefaultAutoPlayTimeout,
		gameService:     gameService,
		botService:      botService,
		resultService:   resultService,
	}
	for _, opt := range opts {
		opt(gamePlay)
	}

	return gamePlay
}

// CreateGame - creates a game and lets bot seats play until a human is to move.
func (that *gamePlayService) CreateGame(ctx context.Context, players []entity.Player, size int) (*entity.Game, error) {
	game, err := that.gameService.CreateGame(ctx, players, size)
	if err != nil {
		return nil, fmt.Errorf("failed to create game: %w", err)
	}

	that.logger.Info("game created", "gameID", game.ID, "size", size, "players", len(players))

	if !game.CurrentPlayer().IsBot() {
		return game, nil
	}

	return that.finishTurn(ctx, game)
}

func (that *gamePlayService) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gameService.GetGameByID(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to get game by id: %w", err)
	}

	return game, nil
}

// MakeTurn - applies an externally supplied move, then lets bot seats reply.
func (that *gamePlayService) MakeTurn(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if _, err = tictactoe.Apply(game, move); err != nil {
		that.logger.Debug("move rejected", "gameID", gameID, "move", move.String(), "error", err)
		return game, err
	}

	return that.finishTurn(ctx, game)
}

// BotTurn - plays the current seat with the bot, whoever sits there.
func (that *gamePlayService) BotTurn(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if _, err = that.botService.MakeTurn(ctx, game); err != nil {
		return game, fmt.Errorf("bot failed to make turn: %w", err)
	}

	return that.finishTurn(ctx, game)
}

// ProposeTurn - applies a "row col symbol" proposal. A rejected proposal is replaced by
// a bot move when fallbackToBot is set.
func (that *gamePlayService) ProposeTurn(ctx context.Context, gameID, proposal string, fallbackToBot bool) (*entity.Game, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	_, err = tictactoe.ApplyProposal(game, proposal)
	if err != nil {
		if !fallbackToBot || !errors.Is(err, apperror.ErrIllegalMove) {
			return game, err
		}

		that.logger.Warn("proposal rejected, falling back to bot", "gameID", gameID, "proposal", proposal, "error", err)

		if _, err = that.botService.MakeTurn(ctx, game); err != nil {
			return game, fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	return that.finishTurn(ctx, game)
}

// ResetGame - starts a new round in the same game.
func (that *gamePlayService) ResetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	tictactoe.Reset(game)
	that.logger.Info("game reset", "gameID", gameID)

	return that.finishTurn(ctx, game)
}

// autoPlay moves for bot seats until a human is to move or the game is over. All of it
// shares one deadline.
func (that *gamePlayService) autoPlay(ctx context.Context, game *entity.Game) error {
	if !game.IsOngoing() || !game.CurrentPlayer().IsBot() {
		return nil
	}

	playCtx, cancel := context.WithTimeout(ctx, that.autoPlayTimeout)
	defer cancel()

	for game.IsOngoing() && game.CurrentPlayer().IsBot() {
		if _, err := that.botService.MakeTurn(playCtx, game); err != nil {
			return fmt.Errorf("bot failed to make turn: %w", err)
		}
	}

	if playCtx.Err() != nil {
		that.logger.Warn("auto play ran out of time", "gameID", game.ID, "moves", len(game.Moves))
	}

	return nil
}

// finishTurn lets bot seats move while the game goes on, then stores the game and
// records the result once it is over.
func (that *gamePlayService) finishTurn(ctx context.Context, game *entity.Game) (*entity.Game, error) {
	if err := that.autoPlay(ctx, game); err != nil {
		return game, err
	}

	if err := that.gameService.UpdateGame(ctx, game); err != nil {
		return nil, fmt.Errorf("failed to update game: %w", err)
	}

	if game.IsFinished() {
		that.logger.Info("game finished", "gameID", game.ID, "status", game.Status, "winner", game.Winner)

		if err := that.resultService.RecordResult(ctx, game); err != nil {
			that.logger.Error("failed to record result", "gameID", game.ID, "error", err)
		}
	}

	return game, nil
}
