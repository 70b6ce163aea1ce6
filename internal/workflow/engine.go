package workflow

import (
	"context"
	"fmt"
	"time"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/domain/repository"
	"TradeCore/internal/domain/service"
	"TradeCore/internal/gates"
	"TradeCore/internal/risk"
	"TradeCore/pkg/logger"
)

// Engine wires the decision graph: fan-out to the independent signal steps,
// technical feeding the temporal and timing steps, an AND-join at the risk
// check, then the aggregator and the exit monitor running independently.
type Engine struct {
	graph *Graph
	steps *Steps
	meta  *gates.MetaLabelGate

	journal   repository.DecisionJournal
	publisher repository.DecisionPublisher
	metrics   repository.Metrics
	log       *logger.Logger
}

// Producers groups the external signal producers injected into the engine.
type Producers struct {
	Predictor service.Predictor
	Temporal  service.TemporalPredictor
	Timing    service.TimingPolicy
	Regimes   service.RegimeClassifier
	Causality service.CausalityDetector
	Tracker   service.LeadershipTracker
	Chains    service.ChainAnalyzer
	News      service.NewsFetcher
	Sentiment service.SentimentAnalyzer
	Broker    service.Broker
}

// NewEngine constructs the engine and its fixed dependency graph.
func NewEngine(
	p Producers,
	guard *risk.Guard,
	meta *gates.MetaLabelGate,
	journal repository.DecisionJournal,
	publisher repository.DecisionPublisher,
	metrics repository.Metrics,
	log *logger.Logger,
) (*Engine, error) {
	e := &Engine{
		meta:      meta,
		journal:   journal,
		publisher: publisher,
		metrics:   metrics,
		log:       log,
	}
	e.steps = &Steps{
		predictor: p.Predictor,
		temporal:  p.Temporal,
		timing:    p.Timing,
		regimes:   p.Regimes,
		causality: p.Causality,
		tracker:   p.Tracker,
		chains:    p.Chains,
		news:      p.News,
		sentiment: p.Sentiment,
		broker:    p.Broker,
		guard:     guard,
		log:       log,
	}

	graph, err := NewGraph(e.nodes(), log, metrics)
	if err != nil {
		return nil, fmt.Errorf("build graph: %w", err)
	}
	e.graph = graph
	return e, nil
}

// nodes declares the fixed graph. Declaration order is the deterministic
// merge order for narrative fields.
func (e *Engine) nodes() []Node {
	st := e.steps
	return []Node{
		{
			Name: "sentiment",
			Run:  st.sentimentStep,
			Neutral: Update{
				Narrative:      "SENTIMENT: NEUTRAL, REASON: Producer unavailable.",
				SentimentLabel: ptr("NEUTRAL"),
				SentimentScore: ptr(0.0),
			},
		},
		{
			Name: "technical",
			Run:  st.technicalStep,
			Neutral: Update{
				Narrative:          "Technical: Pred=UNKNOWN (producer unavailable).",
				TechnicalDirection: ptr(models.DirectionUnknown),
				Regime:             ptr(models.RegimeNominal),
				Confidence:         ptr(0.0),
				Technical:          &models.TechnicalContext{Probability: 0.5, Regime: models.RegimeNominal, CausalStrength: 0.5},
			},
		},
		{
			Name: "options",
			Run:  st.optionsStep,
			Neutral: Update{
				Narrative: "Options Matrix: PCR=1.00 (producer unavailable).",
				PCR:       ptr(1.0),
			},
		},
		{
			Name:    "temporal",
			Deps:    []string{"technical"},
			Run:     st.temporalStep,
			Neutral: Update{TemporalDirection: ptr(models.DirectionNeutral)},
		},
		{
			Name:    "timing",
			Deps:    []string{"technical"},
			Run:     st.timingStep,
			Neutral: Update{TimingAction: ptr(models.TimingHold)},
		},
		{
			Name:    "risk",
			Deps:    []string{"sentiment", "technical", "options", "temporal", "timing"},
			Run:     st.riskStep,
			Neutral: Update{RiskApproved: ptr(false)},
		},
		{
			Name: "aggregator",
			Deps: []string{"risk"},
			Run:  e.aggregateStep,
			Neutral: Update{
				Decision: &models.DecisionRecord{
					FinalSignal: models.ActionHold,
					Recommendation: models.TradeRecommendation{
						Instrument: "WAITING FOR SIGNAL",
						Action:     models.ActionHold,
						OptionType: "N/A",
						Reasoning:  "Aggregation unavailable; holding.",
					},
				},
			},
		},
		{
			Name:    "exit_monitor",
			Deps:    []string{"risk"},
			Run:     e.exitMonitorStep,
			Neutral: Update{ExitSignals: []models.ExitRecommendation{}},
		},
	}
}

// Run executes one analysis for the symbol against the open positions and
// returns the final snapshot with the decision and exit recommendations.
func (e *Engine) Run(ctx context.Context, symbol string, positions []models.Position, aggressive bool) (*Snapshot, error) {
	start := time.Now()

	final, err := e.graph.Run(ctx, NewSnapshot(symbol, positions, aggressive))
	if err != nil {
		e.metrics.RecordError("run")
		return nil, fmt.Errorf("analysis run: %w", err)
	}

	e.metrics.RecordLatency("run", time.Since(start).Seconds())

	if final.Decision != nil {
		final.Decision.Symbol = symbol
		e.metrics.RecordDecision(symbol, string(final.Decision.FinalSignal))
		e.record(ctx, final)
	}

	e.log.Info("analysis complete",
		logger.String("symbol", symbol),
		logger.String("signal", string(final.Decision.FinalSignal)),
		logger.Int("exit_signals", len(final.ExitSignals)),
		logger.Duration("elapsed", time.Since(start)),
	)
	return final, nil
}

// record journals and publishes the decision best-effort: failures are
// logged and never affect the decision itself.
func (e *Engine) record(ctx context.Context, s *Snapshot) {
	if err := e.journal.Append(ctx, s.Decision); err != nil {
		e.log.Error("decision journal append failed", logger.Error(err))
		e.metrics.RecordError("journal")
	}
	if err := e.publisher.PublishDecision(ctx, s.Decision); err != nil {
		e.log.Error("decision publish failed", logger.Error(err))
		e.metrics.RecordError("publish")
	}
	if len(s.ExitSignals) > 0 {
		if err := e.publisher.PublishExits(ctx, s.Symbol, s.ExitSignals); err != nil {
			e.log.Error("exit publish failed", logger.Error(err))
			e.metrics.RecordError("publish")
		}
	}
}
