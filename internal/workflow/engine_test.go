package workflow

import (
	"context"
	"strings"
	"testing"
	"time"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
	"TradeCore/internal/domain/service"
	"TradeCore/internal/gates"
	"TradeCore/internal/risk"
	"TradeCore/internal/services/producers"
	"TradeCore/pkg/logger"
)

type stubPredictor struct{ pred service.Prediction }

func (s stubPredictor) PredictWithConfidence(context.Context, string, models.Regime, float64) (service.Prediction, error) {
	return s.pred, nil
}

type stubTemporal struct{ dir models.Direction }

func (s stubTemporal) Predict(context.Context, string) (models.Direction, error) { return s.dir, nil }

type stubTiming struct{ action int }

func (s stubTiming) Action(context.Context, string) (int, error) { return s.action, nil }

type stubRegimes struct{ regime models.Regime }

func (s stubRegimes) Classify(context.Context, string, time.Time) (models.Regime, error) {
	return s.regime, nil
}

type stubCausality struct{ strength float64 }

func (s stubCausality) DetectCausalStrength(context.Context, string) (float64, error) {
	return s.strength, nil
}

type stubTracker struct{ score models.LeadershipScore }

func (s stubTracker) Score(context.Context) (models.LeadershipScore, error) { return s.score, nil }

type stubNews struct{}

func (stubNews) FetchLatestNews(context.Context, string) ([]models.NewsItem, error) {
	return []models.NewsItem{{Title: "index extends gains"}}, nil
}

type stubSentiment struct{ score float64 }

func (s stubSentiment) Analyze(context.Context, string, []models.NewsItem) (string, float64, string, error) {
	return "POSITIVE", s.score, "SENTIMENT: POSITIVE.", nil
}

type stubBroker struct {
	price float64
	chain []models.OptionQuote
}

func (b stubBroker) LastPrice(context.Context, string) (float64, error) { return b.price, nil }
func (b stubBroker) OptionChain(context.Context, string) ([]models.OptionQuote, error) {
	return b.chain, nil
}
func (b stubBroker) CancelAllOrders(context.Context) error { return nil }
func (b stubBroker) IsConnected() bool                     { return true }

type recordingJournal struct{ records []*models.DecisionRecord }

func (j *recordingJournal) Append(_ context.Context, rec *models.DecisionRecord) error {
	j.records = append(j.records, rec)
	return nil
}
func (j *recordingJournal) Close() error { return nil }

type recordingPublisher struct {
	decisions []*models.DecisionRecord
	exits     []models.ExitRecommendation
}

func (p *recordingPublisher) PublishDecision(_ context.Context, rec *models.DecisionRecord) error {
	p.decisions = append(p.decisions, rec)
	return nil
}
func (p *recordingPublisher) PublishExits(_ context.Context, _ string, recs []models.ExitRecommendation) error {
	p.exits = append(p.exits, recs...)
	return nil
}
func (p *recordingPublisher) Close() error { return nil }

// Chain with PCR 0.7, call wall 51000 and put wall 49000.
func testChain() []models.OptionQuote {
	return []models.OptionQuote{
		{Strike: 49000, CallOI: 100, PutOI: 500},
		{Strike: 50000, CallOI: 300, PutOI: 200},
		{Strike: 51000, CallOI: 600, PutOI: 0},
	}
}

func alignedBullProducers() Producers {
	return Producers{
		Predictor: stubPredictor{pred: service.Prediction{
			Direction:   models.DirectionUp,
			Probability: 0.7,
			Conviction:  "HIGH",
			Regime:      models.RegimeTrending,
			Confidence:  60,
			ATR:         100,
		}},
		Temporal:  stubTemporal{dir: models.DirectionUp},
		Timing:    stubTiming{action: models.TimingBuy},
		Regimes:   stubRegimes{regime: models.RegimeTrending},
		Causality: stubCausality{strength: 0.8},
		Tracker:   stubTracker{score: models.LeadershipScore{Score: 0.5, Status: "BULLS_IN_CONTROL"}},
		Chains:    producers.NewChainAnalyzer(),
		News:      stubNews{},
		Sentiment: stubSentiment{score: 0.8},
		Broker:    stubBroker{price: 50000, chain: testChain()},
	}
}

func newTestEngine(t *testing.T, p Producers, guard *risk.Guard) (*Engine, *recordingJournal, *recordingPublisher) {
	t.Helper()
	journal := &recordingJournal{}
	publisher := &recordingPublisher{}
	meta := gates.NewMetaLabelGate(gates.DefaultMetaLabelThreshold, logger.Nop())

	e, err := NewEngine(p, guard, meta, journal, publisher, domrepo.NopMetrics{}, logger.Nop())
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	return e, journal, publisher
}

func testGuard() *risk.Guard {
	return risk.NewGuard(5000, 100000, nil, logger.Nop(), domrepo.NopMetrics{})
}

func TestEngineProducesVettedBuy(t *testing.T) {
	e, journal, publisher := newTestEngine(t, alignedBullProducers(), testGuard())

	final, err := e.Run(context.Background(), "NIFTY", nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	d := final.Decision
	if d == nil {
		t.Fatal("no decision produced")
	}
	if d.FinalSignal != models.ActionBuy {
		t.Fatalf("signal = %s, want BUY (reasoning: %s)", d.FinalSignal, d.Recommendation.Reasoning)
	}
	if d.Recommendation.Instrument != "NIFTY 50000 CE" {
		t.Fatalf("instrument = %q", d.Recommendation.Instrument)
	}
	if d.Recommendation.ExitPlan == nil || len(d.Recommendation.ExitPlan.Targets) == 0 {
		t.Fatal("directional decision carries no exit plan")
	}
	if !strings.Contains(d.Recommendation.Reasoning, "Vetted Alpha") {
		t.Fatalf("reasoning = %q", d.Recommendation.Reasoning)
	}
	if d.SuccessProbability < gates.DefaultMetaLabelThreshold {
		t.Fatalf("success probability = %v below threshold", d.SuccessProbability)
	}
	if len(journal.records) != 1 || len(publisher.decisions) != 1 {
		t.Fatalf("journal=%d published=%d, want 1 each", len(journal.records), len(publisher.decisions))
	}
	if !strings.Contains(final.Analysis(), "Options Matrix") {
		t.Fatalf("analysis missing options narrative: %q", final.Analysis())
	}
}

func TestEngineHoldsWhenRiskGuardBlocks(t *testing.T) {
	guard := testGuard()
	guard.UpdatePnl(-6000) // past the daily loss limit

	e, _, _ := newTestEngine(t, alignedBullProducers(), guard)

	final, err := e.Run(context.Background(), "NIFTY", nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if final.Decision.FinalSignal != models.ActionHold {
		t.Fatalf("signal = %s, want HOLD", final.Decision.FinalSignal)
	}
	if got := final.Decision.Recommendation.Reasoning; got != "Trade Blocked by Risk Guard." {
		t.Fatalf("reasoning = %q", got)
	}
}

func TestEngineMetaLabelRefusesWeakSignal(t *testing.T) {
	p := alignedBullProducers()
	p.Predictor = stubPredictor{pred: service.Prediction{
		Direction:  models.DirectionUp,
		Regime:     models.RegimeNominal,
		Confidence: 30,
		ATR:        100,
	}}
	p.Regimes = stubRegimes{regime: models.RegimeNominal}
	p.Causality = stubCausality{strength: 0.5}
	p.Tracker = stubTracker{}

	e, _, _ := newTestEngine(t, p, testGuard())

	final, err := e.Run(context.Background(), "NIFTY", nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if final.Decision.FinalSignal != models.ActionHold {
		t.Fatalf("signal = %s, want HOLD", final.Decision.FinalSignal)
	}
	if !strings.Contains(final.Decision.Recommendation.Reasoning, "Signal Refused (Meta-Label)") {
		t.Fatalf("reasoning = %q", final.Decision.Recommendation.Reasoning)
	}
}

func TestEngineAggressiveSkipsMetaLabel(t *testing.T) {
	p := alignedBullProducers()
	p.Predictor = stubPredictor{pred: service.Prediction{
		Direction:  models.DirectionUp,
		Regime:     models.RegimeNominal,
		Confidence: 30,
		ATR:        100,
	}}
	p.Regimes = stubRegimes{regime: models.RegimeNominal}
	p.Causality = stubCausality{strength: 0.5}
	p.Tracker = stubTracker{}

	e, _, _ := newTestEngine(t, p, testGuard())

	final, err := e.Run(context.Background(), "NIFTY", nil, true)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if final.Decision.FinalSignal != models.ActionBuy {
		t.Fatalf("aggressive signal = %s, want BUY (reasoning: %s)",
			final.Decision.FinalSignal, final.Decision.Recommendation.Reasoning)
	}
	if final.Decision.SuccessProbability != 1.0 {
		t.Fatalf("success probability = %v, want 1.0 when vetting is skipped", final.Decision.SuccessProbability)
	}
}

func TestEngineExitMonitorFlagsStopHit(t *testing.T) {
	e, _, publisher := newTestEngine(t, alignedBullProducers(), testGuard())

	positions := []models.Position{{
		Instrument: "NIFTY 50500 CE",
		Side:       models.ActionBuy,
		EntryPrice: 50500,
		StopLoss:   50100, // above the stubbed last price of 50000
	}}

	final, err := e.Run(context.Background(), "NIFTY", positions, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(final.ExitSignals) != 1 {
		t.Fatalf("exit signals = %d, want 1", len(final.ExitSignals))
	}
	if !strings.Contains(final.ExitSignals[0].Reason, "Stop Loss Hit") {
		t.Fatalf("reason = %q", final.ExitSignals[0].Reason)
	}
	if len(publisher.exits) != 1 {
		t.Fatalf("published exits = %d, want 1", len(publisher.exits))
	}
}

func TestEngineExitMonitorHoldsHealthyPosition(t *testing.T) {
	e, _, _ := newTestEngine(t, alignedBullProducers(), testGuard())

	positions := []models.Position{{
		Instrument: "NIFTY 49500 CE",
		Side:       models.ActionBuy,
		EntryPrice: 49500,
		StopLoss:   49300,
	}}

	final, err := e.Run(context.Background(), "NIFTY", positions, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(final.ExitSignals) != 0 {
		t.Fatalf("exit signals = %v, want none", final.ExitSignals)
	}
}

func TestEngineDegradesToNeutralWithUnavailableProducers(t *testing.T) {
	p := Producers{
		Predictor: producers.NoopPredictor{},
		Temporal:  producers.NoopTemporalPredictor{},
		Timing:    producers.NoopTimingPolicy{},
		Regimes:   producers.NoopRegimeClassifier{},
		Causality: producers.NoopCausalityDetector{},
		Tracker:   producers.NoopLeadershipTracker{},
		Chains:    producers.NewChainAnalyzer(),
		News:      producers.NoopNewsFetcher{},
		Sentiment: producers.NoopSentimentAnalyzer{},
		Broker:    producers.NoopBroker{},
	}
	e, _, _ := newTestEngine(t, p, testGuard())

	final, err := e.Run(context.Background(), "NIFTY", nil, false)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if final.Decision.FinalSignal != models.ActionHold {
		t.Fatalf("signal = %s, want HOLD on neutral defaults", final.Decision.FinalSignal)
	}
	if final.Decision.Recommendation.Instrument != "WAITING FOR SIGNAL" {
		t.Fatalf("instrument = %q", final.Decision.Recommendation.Instrument)
	}
}
