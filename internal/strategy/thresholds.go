package strategy

import "TradeCore/internal/domain/models"

// Minimum |convergence score| required to act, by regime class.
const (
	thresholdCalm       = 0.3
	thresholdVolatile   = 0.5
	thresholdStrict     = 0.7 // unknown regimes get the strict default
	thresholdAggressive = 0.1 // simulation density only, never live capital
)

// RequiredScore maps a regime label to the minimum score magnitude needed
// for a directional decision.
func RequiredScore(regime models.Regime, aggressive bool) float64 {
	if aggressive {
		return thresholdAggressive
	}

	switch regime {
	case models.RegimeNominal, models.RegimeRangeBound, models.RegimeTrending,
		models.RegimePowerHour, models.RegimeLunchLull:
		return thresholdCalm
	case models.RegimeVolatile, models.RegimeOpeningVolatile:
		return thresholdVolatile
	default:
		return thresholdStrict
	}
}
