package entity

import "math"

const (
	PlayerX Mark = "X"
	PlayerO Mark = "O"
)

// Player is a seat in the fixed turn rotation.
type Player struct {
	Mark  Mark   `json:"mark"`
	Color string `json:"color,omitempty"`
	Bot   bool   `json:"bot,omitempty"`
}

func DefaultPlayers() []Player {
	return []Player{
		{Mark: PlayerX, Color: "blue"},
		{Mark: PlayerO, Color: "red"},
	}
}

func (that Player) IsBot() bool {
	return that.Bot
}

// IsProbability reports whether p lies in [0, 1]. NaN does not.
func IsProbability(p float64) bool {
	return !math.IsNaN(p) && p >= 0 && p <= 1
}
