package workflow

import (
	"context"
	"fmt"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/strategy"
	"TradeCore/pkg/logger"
)

// exitMonitorStep evaluates open positions for exit conditions: a crossed
// stop, or a regime flip to CRASH while holding a long. It only recommends;
// closing positions is the external execution layer's job.
func (e *Engine) exitMonitorStep(ctx context.Context, s *Snapshot) (Update, error) {
	ltp := s.Technical.LastPrice
	atr := s.Technical.ATR
	if atr == 0 {
		atr = ltp * 0.01
	}

	var recs []models.ExitRecommendation
	for _, pos := range s.Positions {
		// Recompute the trailing stop so the tightened level is visible to
		// the execution layer even when no exit fires.
		tightened := strategy.TrailingStop(pos.EntryPrice, ltp, pos.Side, atr, s.Regime)

		var reason string
		switch pos.Side {
		case models.ActionBuy:
			if ltp <= pos.StopLoss {
				reason = fmt.Sprintf("Stop Loss Hit (LTP %.2f <= SL %.2f)", ltp, pos.StopLoss)
			} else if s.Regime == models.RegimeCrash {
				reason = "Regime Flip: CRASH detected"
			}
		case models.ActionSell:
			if ltp >= pos.StopLoss {
				reason = fmt.Sprintf("Stop Loss Hit (LTP %.2f >= SL %.2f)", ltp, pos.StopLoss)
			}
		}

		if reason == "" {
			e.log.Debug("position holding",
				logger.String("instrument", pos.Instrument),
				logger.Float64("trailing_stop", tightened),
			)
			continue
		}

		e.log.Warn("exit signal",
			logger.String("instrument", pos.Instrument),
			logger.String("reason", reason),
		)
		recs = append(recs, models.ExitRecommendation{Instrument: pos.Instrument, Reason: reason})
	}

	if recs == nil {
		recs = []models.ExitRecommendation{}
	}
	return Update{ExitSignals: recs}, nil
}
