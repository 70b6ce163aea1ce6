package service

import (
	"context"
	"time"

	"TradeCore/internal/domain/models"
)

// Prediction is the primary model's directional call with its confidence
// scoring context.
type Prediction struct {
	Direction   models.Direction
	Probability float64
	Conviction  string
	IsOOD       bool
	Regime      models.Regime
	Confidence  float64
	ATR         float64
	Levels      models.PivotLevels
}

// Predictor is the primary ensemble classifier. Regime and causal strength
// feed its confidence adjustment.
type Predictor interface {
	PredictWithConfidence(ctx context.Context, symbol string, regime models.Regime, causalStrength float64) (Prediction, error)
}

// TemporalPredictor is the deep sequence model giving temporal context.
type TemporalPredictor interface {
	Predict(ctx context.Context, symbol string) (models.Direction, error)
}

// TimingPolicy is the execution-timing policy. Returns a timing action code
// (models.TimingHold / TimingBuy / TimingSell).
type TimingPolicy interface {
	Action(ctx context.Context, symbol string) (int, error)
}

// RegimeClassifier labels current market behavior.
type RegimeClassifier interface {
	Classify(ctx context.Context, symbol string, ts time.Time) (models.Regime, error)
}

// CausalityDetector measures how strongly lead instruments currently drive
// the target instrument.
type CausalityDetector interface {
	DetectCausalStrength(ctx context.Context, symbol string) (float64, error)
}

// LeadershipTracker scores index-component leadership.
type LeadershipTracker interface {
	Score(ctx context.Context) (models.LeadershipScore, error)
}

// ChainAnalyzer maps an option chain into walls, max pain and PCR.
type ChainAnalyzer interface {
	Analyze(rows []models.OptionQuote, spot float64) (models.WallData, error)
}

// NewsFetcher returns the latest headlines for a symbol.
type NewsFetcher interface {
	FetchLatestNews(ctx context.Context, symbol string) ([]models.NewsItem, error)
}

// SentimentAnalyzer labels aggregate news sentiment.
type SentimentAnalyzer interface {
	// Analyze returns a label (POSITIVE/NEGATIVE/NEUTRAL), a score in [-1, 1]
	// and a narrative string.
	Analyze(ctx context.Context, symbol string, news []models.NewsItem) (string, float64, string, error)
}

// Broker is the narrow broker-adapter contract consumed by the core.
// Connectivity and order placement live outside this repository.
type Broker interface {
	LastPrice(ctx context.Context, symbol string) (float64, error)
	OptionChain(ctx context.Context, symbol string) ([]models.OptionQuote, error)
	CancelAllOrders(ctx context.Context) error
	IsConnected() bool
}
