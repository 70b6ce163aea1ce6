package gates

import (
	"math"

	"TradeCore/internal/domain/models"
	"TradeCore/pkg/logger"
)

// DefaultMetaLabelThreshold is the institutional-grade success-probability bar.
const DefaultMetaLabelThreshold = 0.65

// Adverse-side wall distance that triggers the proximity penalty.
const wallProximity = 40.0

// MetaLabelGate is the second-stage success-probability filter over a raw
// directional signal. It adjusts the primary confidence with regime-specific
// structure readings and squashes the result through a sharpened logistic.
type MetaLabelGate struct {
	threshold float64
	log       *logger.Logger
}

// NewMetaLabelGate creates the gate with the given probability threshold.
func NewMetaLabelGate(threshold float64, log *logger.Logger) *MetaLabelGate {
	if threshold <= 0 {
		threshold = DefaultMetaLabelThreshold
	}
	return &MetaLabelGate{threshold: threshold, log: log}
}

// Vet returns the raw signal unchanged with its success probability when the
// probability clears the threshold, otherwise HOLD with the probability kept
// for reasoning.
func (g *MetaLabelGate) Vet(signal models.Action, confidence float64, tech models.TechnicalContext, leadership models.LeadershipScore, walls *models.WallData) (models.Action, float64) {
	prob := g.successProbability(signal, confidence, tech, leadership, walls)
	if prob >= g.threshold {
		return signal, prob
	}
	return models.ActionHold, prob
}

// Threshold returns the configured probability bar.
func (g *MetaLabelGate) Threshold() float64 {
	return g.threshold
}

func (g *MetaLabelGate) successProbability(signal models.Action, confidence float64, tech models.TechnicalContext, leadership models.LeadershipScore, walls *models.WallData) float64 {
	if signal == models.ActionHold {
		return 0.0
	}

	score := confidence / 100.0

	switch tech.Regime {
	case models.RegimeTrending:
		// Trend alignment: components and causality must carry the move.
		if (signal == models.ActionBuy && leadership.Score > 0.3) ||
			(signal == models.ActionSell && leadership.Score < -0.3) {
			score += 0.25
		}
		if tech.CausalStrength > 0.7 {
			score += 0.20
		} else if tech.CausalStrength < 0.3 {
			score -= 0.15
		}

	case models.RegimeRangeBound, models.RegimeLunchLull:
		// Reversion logic: over-extension is a liability, contrarian option
		// positioning is support.
		if math.Abs(leadership.Score) > 0.7 {
			score -= 0.20
		}
		pcr := 1.0
		if walls != nil {
			pcr = walls.PCR
		}
		if (signal == models.ActionBuy && pcr > 1.2) ||
			(signal == models.ActionSell && pcr < 0.8) {
			score += 0.15
		}

	case models.RegimeOpeningVolatile:
		if math.Abs(leadership.Score) < 0.5 {
			score -= 0.10
		} else {
			score += 0.10
		}
	}

	// Entering within wallProximity of the adverse wall gets a hard penalty.
	if walls != nil && tech.LastPrice > 0 {
		if signal == models.ActionBuy {
			if d := walls.CallWall - tech.LastPrice; d > 0 && d < wallProximity {
				score -= 0.30
			}
		} else if signal == models.ActionSell {
			if d := tech.LastPrice - walls.PutWall; d > 0 && d < wallProximity {
				score -= 0.30
			}
		}
	}

	// Sharpened logistic for selectivity.
	prob := 1.0 / (1.0 + math.Exp(-12.0*(score-0.55)))

	if g.log != nil {
		g.log.Debug("meta-label vetting",
			logger.String("signal", string(signal)),
			logger.String("regime", string(tech.Regime)),
			logger.Float64("probability", prob),
		)
	}

	return prob
}
