package strategy

import (
	"sort"

	"TradeCore/internal/domain/models"
)

// ATR multiples for the target ladder by regime capacity.
const (
	trendTargetNear = 3.0
	trendTargetFar  = 5.0
	baseTargetNear  = 1.5
	baseTargetFar   = 2.5

	// Exit slightly before a heavy option wall.
	wallClipDistance = 10.0
)

// Trailing-stop risk distance multiples.
const (
	stopMultVolatile = 2.0
	stopMultBase     = 1.5
)

// Targets computes the take-profit ladder from price, side, ATR, pivots,
// regime and wall data. The result is de-duplicated and sorted ascending for
// BUY, descending for SELL.
func Targets(price float64, side models.Action, atr float64, pivots *models.PivotLevels, regime models.Regime, walls *models.WallData) []float64 {
	var targets []float64

	sign := 1.0
	if side == models.ActionSell {
		sign = -1.0
	}

	near, far := baseTargetNear, baseTargetFar
	if regime.Trending() {
		near, far = trendTargetNear, trendTargetFar
	}
	targets = append(targets, price+sign*atr*near, price+sign*atr*far)

	if pivots != nil {
		if side == models.ActionBuy {
			if pivots.R1 > 0 {
				targets = append(targets, pivots.R1)
			}
			if regime.Trending() && pivots.R2 > 0 {
				targets = append(targets, pivots.R2)
			}
		} else {
			if pivots.S1 > 0 {
				targets = append(targets, pivots.S1)
			}
			if regime.Trending() && pivots.S2 > 0 {
				targets = append(targets, pivots.S2)
			}
		}
	}

	if walls != nil {
		if side == models.ActionBuy && walls.CallWall > price {
			targets = append(targets, walls.CallWall-wallClipDistance)
		} else if side == models.ActionSell && walls.PutWall > 0 && walls.PutWall < price {
			targets = append(targets, walls.PutWall+wallClipDistance)
		}
	}

	return dedupeSorted(targets, side == models.ActionSell)
}

// TrailingStop computes the regime-padded trailing stop. The stop only
// tightens: for BUY it never drops below the entry-anchored level, and once
// price advances it follows at the risk distance.
func TrailingStop(entryPrice, currentPrice float64, side models.Action, atr float64, regime models.Regime) float64 {
	mult := stopMultBase
	if regime == models.RegimeVolatile {
		mult = stopMultVolatile
	}
	riskDist := atr * mult

	if side == models.ActionBuy {
		stop := currentPrice - riskDist
		if floor := entryPrice - riskDist; floor > stop {
			return floor
		}
		return stop
	}
	stop := currentPrice + riskDist
	if ceil := entryPrice + riskDist; ceil < stop {
		return ceil
	}
	return stop
}

func dedupeSorted(xs []float64, descending bool) []float64 {
	seen := make(map[float64]struct{}, len(xs))
	out := xs[:0]
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	sort.Float64s(out)
	if descending {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}
