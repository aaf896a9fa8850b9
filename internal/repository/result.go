package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type ResultRepository interface {
	Save(ctx context.Context, result *entity.Result) error
	FindByGame(ctx context.Context, gameID string) ([]*entity.Result, error)
	Stats(ctx context.Context) (*entity.Stats, error)
}

type resultRepository struct {
	conn *sql.DB
}

func NewResultRepository(conn *sql.DB) ResultRepository {
	return &resultRepository{
		conn: conn,
	}
}

func (that *resultRepository) Save(ctx context.Context, result *entity.Result) error {
	moves, err := json.Marshal(result.Moves)
	if err != nil {
		return fmt.Errorf("can't marshal moves: %w", err)
	}

	query := `INSERT INTO results (game_id, board_size, status, winner, moves, finished_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err = that.conn.ExecContext(ctx, query,
		result.GameID,
		result.BoardSize,
		string(result.Status),
		string(result.Winner),
		string(moves),
		result.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("can't save result: %w", err)
	}

	return nil
}

// FindByGame - returns the rounds of one game, oldest first.
func (that *resultRepository) FindByGame(ctx context.Context, gameID string) ([]*entity.Result, error) {
	query := `SELECT game_id, board_size, status, winner, moves, finished_at FROM results WHERE game_id = ? ORDER BY id`

	rows, err := that.conn.QueryContext(ctx, query, gameID)
	if err != nil {
		return nil, fmt.Errorf("can't find results: %w", err)
	}
	defer rows.Close()

	var results []*entity.Result
	for rows.Next() {
		var (
			result     entity.Result
			status     string
			winner     string
			moves      string
			finishedAt string
		)

		if err = rows.Scan(&result.GameID, &result.BoardSize, &status, &winner, &moves, &finishedAt); err != nil {
			return nil, fmt.Errorf("can't scan result: %w", err)
		}

		if err = json.Unmarshal([]byte(moves), &result.Moves); err != nil {
			return nil, fmt.Errorf("can't unmarshal moves: %w", err)
		}

		if result.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("can't parse finish time: %w", err)
		}

		result.Status = entity.Status(status)
		result.Winner = entity.Mark(winner)
		results = append(results, &result)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read results: %w", err)
	}

	return results, nil
}

func (that *resultRepository) Stats(ctx context.Context) (*entity.Stats, error) {
	query := `SELECT status, winner, COUNT(*) FROM results GROUP BY status, winner`

	rows, err := that.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("can't count results: %w", err)
	}
	defer rows.Close()

	stats := &entity.Stats{Wins: make(map[entity.Mark]int)}
	for rows.Next() {
		var (
			status string
			winner string
			count  int
		)

		if err = rows.Scan(&status, &winner, &count); err != nil {
			return nil, fmt.Errorf("can't scan stats: %w", err)
		}

		stats.Games += count
		switch entity.Status(status) {
		case entity.StatusTied:
			stats.Ties += count
		case entity.StatusWon:
			stats.Wins[entity.Mark(winner)] += count
		}
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read stats: %w", err)
	}

	return stats, nil
}
