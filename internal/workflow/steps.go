package workflow

import (
	"context"
	"fmt"
	"time"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/domain/service"
	"TradeCore/internal/risk"
	"TradeCore/pkg/logger"
)

// Steps holds the signal producers the graph nodes call out to. These calls
// are the only points where a run may block on I/O.
type Steps struct {
	predictor service.Predictor
	temporal  service.TemporalPredictor
	timing    service.TimingPolicy
	regimes   service.RegimeClassifier
	causality service.CausalityDetector
	tracker   service.LeadershipTracker
	chains    service.ChainAnalyzer
	news      service.NewsFetcher
	sentiment service.SentimentAnalyzer
	broker    service.Broker

	guard *risk.Guard
	log   *logger.Logger
}

// sentimentStep fetches headlines and labels aggregate sentiment.
// Neutral default: NEUTRAL / 0.
func (st *Steps) sentimentStep(ctx context.Context, s *Snapshot) (Update, error) {
	news, err := st.news.FetchLatestNews(ctx, s.Symbol)
	if err != nil {
		return Update{}, fmt.Errorf("fetch news: %w", err)
	}

	label, score, narrative, err := st.sentiment.Analyze(ctx, s.Symbol, news)
	if err != nil {
		return Update{}, fmt.Errorf("analyze sentiment: %w", err)
	}

	return Update{
		Narrative:      narrative,
		News:           news,
		SentimentLabel: ptr(label),
		SentimentScore: ptr(score),
	}, nil
}

// technicalStep runs the regime/causality/leadership context reads and the
// primary model prediction. Producer failures inside the step degrade to
// their individual neutral values; only a missing prediction fails the step.
func (st *Steps) technicalStep(ctx context.Context, s *Snapshot) (Update, error) {
	regime := models.RegimeNominal
	if r, err := st.regimes.Classify(ctx, s.Symbol, time.Now()); err == nil {
		regime = r
	} else {
		st.log.Debug("regime classifier unavailable", logger.Error(err))
	}

	causalStrength := 0.5
	if cs, err := st.causality.DetectCausalStrength(ctx, s.Symbol); err == nil {
		causalStrength = cs
	} else {
		st.log.Debug("causality detector unavailable", logger.Error(err))
	}

	leadership := models.LeadershipScore{Status: "NEUTRAL"}
	if ls, err := st.tracker.Score(ctx); err == nil {
		leadership = ls
	} else {
		st.log.Debug("leadership tracker unavailable", logger.Error(err))
	}

	pred, err := st.predictor.PredictWithConfidence(ctx, s.Symbol, regime, causalStrength)
	if err != nil {
		return Update{}, fmt.Errorf("predict: %w", err)
	}
	if pred.Regime != "" {
		regime = pred.Regime
	}

	// Broker unavailable reads as price zero; the run still completes.
	ltp, err := st.broker.LastPrice(ctx, s.Symbol)
	if err != nil {
		st.log.Warn("broker price unavailable", logger.Error(err))
		ltp = 0
	}

	narrative := fmt.Sprintf("Technical: Pred=%s, Conf=%.1f%%, Regime=%s, Causal=%.2f.",
		pred.Direction, pred.Confidence, regime, causalStrength)
	if pred.IsOOD {
		narrative += " [OOD WARNING]"
	}

	return Update{
		Narrative:          narrative,
		TechnicalDirection: ptr(pred.Direction),
		Regime:             ptr(regime),
		Confidence:         ptr(pred.Confidence),
		Leadership:         ptr(leadership),
		Technical: &models.TechnicalContext{
			LastPrice:      ltp,
			Probability:    pred.Probability,
			Conviction:     pred.Conviction,
			IsOOD:          pred.IsOOD,
			Regime:         regime,
			Confidence:     pred.Confidence,
			CausalStrength: causalStrength,
			ATR:            pred.ATR,
			Levels:         pred.Levels,
		},
	}, nil
}

// optionsStep maps the option chain into PCR and positioning walls.
// Neutral default: PCR 1.0, no walls.
func (st *Steps) optionsStep(ctx context.Context, s *Snapshot) (Update, error) {
	chain, err := st.broker.OptionChain(ctx, s.Symbol)
	if err != nil || len(chain) == 0 {
		// Degenerate but valid: institutional bias reads neutral.
		return Update{
			Narrative: "Options Matrix: PCR=1.00. Institutional bias is NEUTRAL.",
			PCR:       ptr(1.0),
		}, nil
	}

	spot, err := st.broker.LastPrice(ctx, s.Symbol)
	if err != nil {
		spot = 0
	}

	walls, err := st.chains.Analyze(chain, spot)
	if err != nil {
		return Update{}, fmt.Errorf("analyze chain: %w", err)
	}

	narrative := fmt.Sprintf("Options Matrix: PCR=%.2f. Call Wall: %.0f, Put Wall: %.0f, Max Pain: %.0f.",
		walls.PCR, walls.CallWall, walls.PutWall, walls.MaxPain)

	return Update{
		Narrative: narrative,
		PCR:       ptr(walls.PCR),
		Walls:     &walls,
	}, nil
}

// temporalStep asks the sequence model for temporal context.
// Neutral default: NEUTRAL.
func (st *Steps) temporalStep(ctx context.Context, s *Snapshot) (Update, error) {
	dir, err := st.temporal.Predict(ctx, s.Symbol)
	if err != nil {
		return Update{}, fmt.Errorf("temporal predict: %w", err)
	}

	return Update{
		Narrative:         fmt.Sprintf("[Temporal Context: %s]", dir),
		TemporalDirection: ptr(dir),
	}, nil
}

// timingStep asks the execution-timing policy for an action code.
// Neutral default: hold.
func (st *Steps) timingStep(ctx context.Context, s *Snapshot) (Update, error) {
	action, err := st.timing.Action(ctx, s.Symbol)
	if err != nil {
		return Update{}, fmt.Errorf("timing action: %w", err)
	}

	return Update{TimingAction: ptr(action)}, nil
}

// riskStep is the AND-join of all signal branches: it records whether the
// account currently allows new directional decisions.
func (st *Steps) riskStep(ctx context.Context, _ *Snapshot) (Update, error) {
	return Update{RiskApproved: ptr(st.guard.TradingAllowed(ctx))}, nil
}
