package workflow

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/gates"
	"TradeCore/internal/strategy"
)

// aggregateStep consolidates all signals into the final vetted decision:
// convergence scoring, regime threshold, meta-label vetting, structural
// gating, exit plan and strike selection.
func (e *Engine) aggregateStep(ctx context.Context, s *Snapshot) (Update, error) {
	res := strategy.Convergence(strategy.ConvergenceInput{
		Technical:      s.TechnicalDirection,
		Temporal:       s.TemporalDirection,
		TimingAction:   s.TimingAction,
		SentimentScore: s.SentimentScore,
		PCR:            s.PCR,
	})
	required := strategy.RequiredScore(s.Regime, s.Aggressive)

	finalSignal := models.ActionHold
	confidence := s.Confidence
	successProb := 0.0
	var reasoning string

	if math.Abs(res.Score) >= required && s.RiskApproved {
		raw := models.ActionBuy
		if res.Score < 0 {
			raw = models.ActionSell
		}

		// Meta-label vetting. Absent gate fails open; aggressive runs skip it
		// for simulation density.
		vetted := raw
		successProb = 1.0
		if e.meta != nil && !s.Aggressive {
			vetted, successProb = e.meta.Vet(raw, confidence, s.Technical, s.Leadership, s.Walls)
		}

		allow, gateReason := gates.Structural(vetted, s.Technical.LastPrice, s.Walls)

		switch {
		case vetted != models.ActionHold && allow:
			finalSignal = vetted
			reasoning = fmt.Sprintf("Vetted Alpha: Success Prob %.2f | Confidence %.1f%%", successProb, confidence)
		case vetted == models.ActionHold:
			e.metrics.RecordGateRejection("meta_label")
			reasoning = fmt.Sprintf("Signal Refused (Meta-Label): Prob %.2f below threshold.", successProb)
		default:
			e.metrics.RecordGateRejection("structural")
			reasoning = fmt.Sprintf("Structural Block: %s", gateReason)
		}
	}

	ltp := s.Technical.LastPrice
	atr := s.Technical.ATR
	if atr == 0 {
		atr = ltp * 0.01
	}

	var plan *models.ExitPlan
	if finalSignal != models.ActionHold {
		var pivots *models.PivotLevels
		if s.Technical.Levels != (models.PivotLevels{}) {
			pivots = &s.Technical.Levels
		}
		plan = &models.ExitPlan{
			InitialStop:    strategy.TrailingStop(ltp, ltp, finalSignal, atr, s.Regime),
			Targets:        strategy.Targets(ltp, finalSignal, atr, pivots, s.Regime, s.Walls),
			TrailingActive: true,
		}
	}

	strike := math.Round(ltp/100) * 100
	optionType := "N/A"
	instrument := "WAITING FOR SIGNAL"
	switch finalSignal {
	case models.ActionBuy:
		optionType = "CE"
	case models.ActionSell:
		optionType = "PE"
	}
	if finalSignal != models.ActionHold {
		instrument = fmt.Sprintf("%s %.0f %s", strings.TrimPrefix(s.Symbol, "^"), strike, optionType)
	} else {
		strike = 0
	}

	reasoning += fmt.Sprintf(" | Regime: %s (Convergence: %.2f vs Req: %.2f)", s.Regime, res.Score, required)
	if !s.RiskApproved {
		reasoning = "Trade Blocked by Risk Guard."
	}

	decision := &models.DecisionRecord{
		Symbol:             s.Symbol,
		Timestamp:          time.Now().UTC(),
		FinalSignal:        finalSignal,
		Confidence:         confidence,
		SuccessProbability: successProb,
		ModelScores:        res.Breakdown,
		Recommendation: models.TradeRecommendation{
			Instrument: instrument,
			Action:     finalSignal,
			Strike:     strike,
			OptionType: optionType,
			Reasoning:  reasoning,
			ExitPlan:   plan,
		},
	}

	return Update{Decision: decision}, nil
}
