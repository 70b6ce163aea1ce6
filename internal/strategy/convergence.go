package strategy

import "TradeCore/internal/domain/models"

// Fixed fusion weights. They sum to 1.0 but the score is not normalized:
// the sentiment factor is continuous and bonuses stack, so the magnitude
// can exceed 1. Overflow reads as extra conviction and must not be clamped.
const (
	weightTechnical = 0.40
	weightTemporal  = 0.20
	weightTiming    = 0.15
	weightSentiment = 0.15
	weightOptions   = 0.10
)

// Option-positioning bias thresholds on the put-call ratio.
const (
	pcrBullishBelow = 0.85
	pcrBearishAbove = 1.15
)

// ConvergenceInput is the fixed signal set fused into one score.
type ConvergenceInput struct {
	Technical      models.Direction
	Temporal       models.Direction
	TimingAction   int
	SentimentScore float64 // -1..1
	PCR            float64
}

// Convergence fuses the independent directional signals into a single signed
// scalar with a per-factor contribution breakdown. Deterministic and
// order-independent for a fixed input.
func Convergence(in ConvergenceInput) models.ConvergenceResult {
	score := 0.0
	breakdown := map[string]float64{
		"technical": 0,
		"temporal":  0,
		"timing":    0,
		"sentiment": 0,
		"options":   0,
	}

	switch in.Technical {
	case models.DirectionUp:
		breakdown["technical"] = weightTechnical
	case models.DirectionDown:
		breakdown["technical"] = -weightTechnical
	}

	switch in.Temporal {
	case models.DirectionUp:
		breakdown["temporal"] = weightTemporal
	case models.DirectionDown:
		breakdown["temporal"] = -weightTemporal
	}

	switch in.TimingAction {
	case models.TimingBuy:
		breakdown["timing"] = weightTiming
	case models.TimingSell:
		breakdown["timing"] = -weightTiming
	}

	breakdown["sentiment"] = in.SentimentScore * weightSentiment

	if in.PCR > 0 && in.PCR < pcrBullishBelow {
		breakdown["options"] = weightOptions
	} else if in.PCR > pcrBearishAbove {
		breakdown["options"] = -weightOptions
	}

	for _, v := range breakdown {
		score += v
	}

	return models.ConvergenceResult{Score: score, Breakdown: breakdown}
}
