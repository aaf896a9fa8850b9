package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/rocketscienceinc/tictactoe-engine/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

type Config struct {
	LogLevel          string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort          string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	Redis             Redis  `yaml:"redis"`
	SQLiteStoragePath string `yaml:"sqlite-storage-path" env:"SQLITE_STORAGE_PATH" env-default:"results.db"`
	Game              Game   `yaml:"game"`
}

type Redis struct {
	Host string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
}

// Game holds the defaults for new games and the bot.
type Game struct {
	BoardSize int      `yaml:"board-size" env:"GAME_BOARD_SIZE" env-default:"3"`
	Players   []string `yaml:"players" env:"GAME_PLAYERS" env-default:"X,O"`
	Colors    []string `yaml:"colors" env:"GAME_COLORS" env-default:"blue,red"`

	// RandomMoveProbability is the chance the bot plays a uniformly random move instead of
	// the searched one. Zero gives a perfect bot.
	RandomMoveProbability float64       `yaml:"random-move-probability" env:"GAME_RANDOM_MOVE_PROBABILITY"`
	// SearchNodeBudget caps every bot search. Zero falls back to the default.
	SearchNodeBudget      int           `yaml:"search-node-budget" env:"GAME_SEARCH_NODE_BUDGET" env-default:"100000"`
	SearchTimeout         time.Duration `yaml:"search-timeout" env:"GAME_SEARCH_TIMEOUT" env-default:"2s"`
	SessionTTL            time.Duration `yaml:"session-ttl" env:"GAME_SESSION_TTL" env-default:"24h"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

// Load - reads the file, applies env overrides and validates the game defaults.
func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Game.Validate(); err != nil {
		return nil, fmt.Errorf("invalid game config: %w", err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}

// GamePlayers - builds the seats in turn order. Colors are matched by position.
func (that *Game) GamePlayers() []entity.Player {
	players := make([]entity.Player, 0, len(that.Players))
	for i, mark := range that.Players {
		player := entity.Player{Mark: entity.Mark(mark)}
		if i < len(that.Colors) {
			player.Color = that.Colors[i]
		}
		players = append(players, player)
	}

	return players
}

// OptimalMoveProbability - the chance the bot plays the searched move.
func (that *Game) OptimalMoveProbability() float64 {
	return 1 - that.RandomMoveProbability
}

func (that *Game) Validate() error {
	if _, err := entity.NewGame("", that.GamePlayers(), that.BoardSize); err != nil {
		return err
	}

	if !entity.IsProbability(that.RandomMoveProbability) {
		return fmt.Errorf("%w: %w: %v", apperror.ErrConfiguration, apperror.ErrInvalidSkill, that.RandomMoveProbability)
	}

	if that.SearchNodeBudget < 0 {
		return fmt.Errorf("%w: search node budget %d", apperror.ErrConfiguration, that.SearchNodeBudget)
	}

	return nil
}
