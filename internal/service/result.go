package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type ResultService interface {
	RecordResult(ctx context.Context, game *entity.Game) error
	GetResultsByGame(ctx context.Context, gameID string) ([]*entity.Result, error)
	GetStats(ctx context.Context) (*entity.Stats, error)
}

type resultRepo interface {
	Save(ctx context.Context, result *entity.Result) error
	FindByGame(ctx context.Context, gameID string) ([]*entity.Result, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type resultService struct {
	resultRepo resultRepo
	now        func() time.Time
}

func NewResultService(resultRepo resultRepo) ResultService {
	return &resultService{
		resultRepo: resultRepo,
		now:        time.Now,
	}
}

// RecordResult - saves a finished game to the ledger. Ongoing games are ignored.
func (that *resultService) RecordResult(ctx context.Context, game *entity.Game) error {
	if !game.IsFinished() {
		return nil
	}

	if err := that.resultRepo.Save(ctx, entity.NewResult(game, that.now())); err != nil {
		return fmt.Errorf("could not record result: %w", err)
	}
	return nil
}

func (that *resultService) GetResultsByGame(ctx context.Context, gameID string) ([]*entity.Result, error) {
	results, err := that.resultRepo.FindByGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("could not get results by game: %w", err)
	}

	return results, nil
}

func (that *resultService) GetStats(ctx context.Context) (*entity.Stats, error) {
	stats, err := that.resultRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get stats: %w", err)
	}

	return stats, nil
}
