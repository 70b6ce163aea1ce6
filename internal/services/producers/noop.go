package producers

import (
	"context"
	"time"

	"TradeCore/internal/domain/models"
	domsvc "TradeCore/internal/domain/service"
)

// The Noop producers stand in for producers that are not configured. They
// all return ErrUnavailable so workflow steps fall through to their neutral
// defaults instead of silently acting on fabricated data.

type NoopPredictor struct{}

func (NoopPredictor) PredictWithConfidence(context.Context, string, models.Regime, float64) (domsvc.Prediction, error) {
	return domsvc.Prediction{}, ErrUnavailable
}

type NoopTemporalPredictor struct{}

func (NoopTemporalPredictor) Predict(context.Context, string) (models.Direction, error) {
	return models.DirectionNeutral, ErrUnavailable
}

type NoopTimingPolicy struct{}

func (NoopTimingPolicy) Action(context.Context, string) (int, error) {
	return models.TimingHold, ErrUnavailable
}

type NoopRegimeClassifier struct{}

func (NoopRegimeClassifier) Classify(context.Context, string, time.Time) (models.Regime, error) {
	return models.RegimeNominal, ErrUnavailable
}

type NoopCausalityDetector struct{}

func (NoopCausalityDetector) DetectCausalStrength(context.Context, string) (float64, error) {
	return 0.5, ErrUnavailable
}

type NoopLeadershipTracker struct{}

func (NoopLeadershipTracker) Score(context.Context) (models.LeadershipScore, error) {
	return models.LeadershipScore{}, ErrUnavailable
}

type NoopNewsFetcher struct{}

func (NoopNewsFetcher) FetchLatestNews(context.Context, string) ([]models.NewsItem, error) {
	return nil, ErrUnavailable
}

type NoopSentimentAnalyzer struct{}

func (NoopSentimentAnalyzer) Analyze(context.Context, string, []models.NewsItem) (string, float64, string, error) {
	return "NEUTRAL", 0, "", ErrUnavailable
}

// NoopBroker reports a disconnected broker: zero prices, empty chains.
type NoopBroker struct{}

func (NoopBroker) LastPrice(context.Context, string) (float64, error) {
	return 0, ErrUnavailable
}

func (NoopBroker) OptionChain(context.Context, string) ([]models.OptionQuote, error) {
	return nil, ErrUnavailable
}

func (NoopBroker) CancelAllOrders(context.Context) error { return nil }

func (NoopBroker) IsConnected() bool { return false }

var (
	_ domsvc.Predictor         = NoopPredictor{}
	_ domsvc.TemporalPredictor = NoopTemporalPredictor{}
	_ domsvc.TimingPolicy      = NoopTimingPolicy{}
	_ domsvc.RegimeClassifier  = NoopRegimeClassifier{}
	_ domsvc.CausalityDetector = NoopCausalityDetector{}
	_ domsvc.LeadershipTracker = NoopLeadershipTracker{}
	_ domsvc.NewsFetcher       = NoopNewsFetcher{}
	_ domsvc.SentimentAnalyzer = NoopSentimentAnalyzer{}
	_ domsvc.Broker            = NoopBroker{}
)
