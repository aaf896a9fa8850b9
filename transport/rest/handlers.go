package rest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const fallbackBot = "bot"

type Handlers interface {
	PingHandler(w http.ResponseWriter, _ *http.Request)

	CreateGame(w http.ResponseWriter, r *http.Request)
	GetGame(w http.ResponseWriter, r *http.Request)
	MakeTurn(w http.ResponseWriter, r *http.Request)
	BotTurn(w http.ResponseWriter, r *http.Request)
	ProposeTurn(w http.ResponseWriter, r *http.Request)
	ResetGame(w http.ResponseWriter, r *http.Request)
	GetStats(w http.ResponseWriter, r *http.Request)
}

type gameUseCase interface {
	CreateGame(ctx context.Context, players []entity.Player, size int) (*entity.Game, error)
	GetGame(ctx context.Context, gameID string) (*entity.Game, error)
	MakeTurn(ctx context.Context, gameID string, move entity.Move) (*entity.Game, error)
	BotTurn(ctx context.Context, gameID string) (*entity.Game, error)
	ProposeTurn(ctx context.Context, gameID, proposal string, fallbackToBot bool) (*entity.Game, error)
	ResetGame(ctx context.Context, gameID string) (*entity.Game, error)
	GetStats(ctx context.Context) (*entity.Stats, error)
}

// GameDefaults fill in a create request that leaves the board or the players out.
type GameDefaults struct {
	BoardSize int
	Players   []entity.Player
}

type handlers struct {
	logger   *slog.Logger
	useCase  gameUseCase
	defaults GameDefaults
}

func NewHandlers(logger *slog.Logger, useCase gameUseCase, defaults GameDefaults) Handlers {
	return &handlers{
		logger:   logger.With("component", "rest"),
		useCase:  useCase,
		defaults: defaults,
	}
}

// NewRouter - routes every handler.
func NewRouter(h Handlers) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /ping", h.PingHandler)
	mux.HandleFunc("POST /games", h.CreateGame)
	mux.HandleFunc("GET /games/{id}", h.GetGame)
	mux.HandleFunc("POST /games/{id}/moves", h.MakeTurn)
	mux.HandleFunc("POST /games/{id}/bot", h.BotTurn)
	mux.HandleFunc("POST /games/{id}/proposals", h.ProposeTurn)
	mux.HandleFunc("POST /games/{id}/reset", h.ResetGame)
	mux.HandleFunc("GET /stats", h.GetStats)

	return mux
}

type createGameRequest struct {
	Size    int             `json:"size"`
	Players []entity.Player `json:"players"`
}

type proposalRequest struct {
	Proposal string `json:"proposal"`
}

type errorResponse struct {
	Error string       `json:"error"`
	Game  *entity.Game `json:"game,omitempty"`
}

func (that *handlers) CreateGame(w http.ResponseWriter, r *http.Request) {
	var request createGameRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			return
		}
	}

	if request.Size == 0 {
		request.Size = that.defaults.BoardSize
	}
	if len(request.Players) == 0 {
		request.Players = that.defaults.Players
	}

	if err := entity.ValidateBoardSize(request.Size); err != nil {
		that.writeError(w, nil, err)
		return
	}

	game, err := that.useCase.CreateGame(r.Context(), request.Players, request.Size)
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	that.writeJSON(w, http.StatusCreated, game)
}

func (that *handlers) GetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.useCase.GetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) MakeTurn(w http.ResponseWriter, r *http.Request) {
	var move entity.Move
	if err := json.NewDecoder(r.Body).Decode(&move); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	game, err := that.useCase.MakeTurn(r.Context(), r.PathValue("id"), move)
	if err != nil {
		that.writeError(w, game, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) BotTurn(w http.ResponseWriter, r *http.Request) {
	game, err := that.useCase.BotTurn(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, game, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

// ProposeTurn - applies a "row col symbol" proposal. With ?fallback=bot a rejected
// proposal is replaced by a bot move.
func (that *handlers) ProposeTurn(w http.ResponseWriter, r *http.Request) {
	var request proposalRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		that.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	fallbackToBot := r.URL.Query().Get("fallback") == fallbackBot

	game, err := that.useCase.ProposeTurn(r.Context(), r.PathValue("id"), request.Proposal, fallbackToBot)
	if err != nil {
		that.writeError(w, game, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) ResetGame(w http.ResponseWriter, r *http.Request) {
	game, err := that.useCase.ResetGame(r.Context(), r.PathValue("id"))
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, game)
}

func (that *handlers) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := that.useCase.GetStats(r.Context())
	if err != nil {
		that.writeError(w, nil, err)
		return
	}

	that.writeJSON(w, http.StatusOK, stats)
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, apperror.ErrGameNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrIllegalMove):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperror.ErrNoMoveAvailable):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrConfiguration):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError reports err with its status. A rejected move carries the unchanged game.
func (that *handlers) writeError(w http.ResponseWriter, game *entity.Game, err error) {
	code := statusCode(err)
	if code == http.StatusInternalServerError {
		that.logger.Error("request failed", "error", err)
		that.writeJSON(w, code, errorResponse{Error: http.StatusText(code)})
		return
	}

	that.writeJSON(w, code, errorResponse{Error: err.Error(), Game: game})
}

func (that *handlers) writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
