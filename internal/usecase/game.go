package usecase

import (
	"context"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type GameUseCase interface {
	CreateGame(ctx context.Context, players []entity.Player, size int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)

	MakeTurn(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error)
	BotTurn(ctx context.Context, gameID string) (*entity.Game, error)
	ProposeTurn(ctx context.Context, gameID, proposal string, fallbackToBot bool) (*entity.Game, error)
	ResetGame(ctx context.Context, gameID string) (*entity.Game, error)

	GetStats(ctx context.Context) (*entity.Stats, error)
}

type gamePlayService interface {
	CreateGame(ctx context.Context, players []entity.Player, size int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error)
	BotTurn(ctx context.Context, gameID string) (*entity.Game, error)
	ProposeTurn(ctx context.Context, gameID, proposal string, fallbackToBot bool) (*entity.Game, error)
	ResetGame(ctx context.Context, gameID string) (*entity.Game, error)
}

type resultService interface {
	GetStats(ctx context.Context) (*entity.Stats, error)
}

// gameUseCase runs at most one state change per game at a time, since every change is a
// read-modify-write of the stored game.
type gameUseCase struct {
	gamePlayService gamePlayService
	resultService   resultService

	locks *keyedMutex
}

func NewGameUseCase(gamePlayService gamePlayService, resultService resultService) GameUseCase {
	return &gameUseCase{
		gamePlayService: gamePlayService,
		resultService:   resultService,
		locks:           newKeyedMutex(),
	}
}

func (that *gameUseCase) CreateGame(ctx context.Context, players []entity.Player, size int) (*entity.Game, error) {
	game, err := that.gamePlayService.CreateGame(ctx, players, size)
	if err != nil {
		return nil, fmt.Errorf("could not create game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	game, err := that.gamePlayService.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("could not get game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) MakeTurn(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error) {
	defer that.locks.Lock(gameID)()

	game, err := that.gamePlayService.MakeTurn(ctx, gameID, move)
	if err != nil {
		return game, fmt.Errorf("failed to make turn: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) BotTurn(ctx context.Context, gameID string) (*entity.Game, error) {
	defer that.locks.Lock(gameID)()

	game, err := that.gamePlayService.BotTurn(ctx, gameID)
	if err != nil {
		return game, fmt.Errorf("failed to make bot turn: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) ProposeTurn(ctx context.Context, gameID, proposal string, fallbackToBot bool) (*entity.Game, error) {
	defer that.locks.Lock(gameID)()

	game, err := that.gamePlayService.ProposeTurn(ctx, gameID, proposal, fallbackToBot)
	if err != nil {
		return game, fmt.Errorf("failed to apply proposal: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) ResetGame(ctx context.Context, gameID string) (*entity.Game, error) {
	defer that.locks.Lock(gameID)()

	game, err := that.gamePlayService.ResetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to reset game: %w", err)
	}

	return game, nil
}

func (that *gameUseCase) GetStats(ctx context.Context) (*entity.Stats, error) {
	stats, err := that.resultService.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get stats: %w", err)
	}

	return stats, nil
}
