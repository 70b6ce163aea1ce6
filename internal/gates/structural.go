package gates

import (
	"fmt"

	"TradeCore/internal/domain/models"
)

// Buffer distance in front of a wall inside which entries are refused.
const wallBuffer = 30.0

// Structural vetoes trades that would enter directly into a heavy
// option-positioning wall. Without wall data it fails open.
func Structural(signal models.Action, price float64, walls *models.WallData) (bool, string) {
	if walls == nil {
		return true, "No wall data"
	}

	if signal == models.ActionBuy && price > walls.CallWall-wallBuffer {
		return false, fmt.Sprintf("Approaching heavy call wall @ %.0f", walls.CallWall)
	}
	if signal == models.ActionSell && price < walls.PutWall+wallBuffer {
		return false, fmt.Sprintf("Approaching heavy put wall @ %.0f", walls.PutWall)
	}

	return true, "Path clear"
}
