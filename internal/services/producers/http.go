package producers

import (
	"context"
	"fmt"
	"time"

	"TradeCore/internal/domain/models"
	domsvc "TradeCore/internal/domain/service"
)

// HTTPPredictor calls the model-service ensemble classifier.
type HTTPPredictor struct{ base *httpBase }

func NewHTTPPredictor(baseURL string, timeout time.Duration) *HTTPPredictor {
	return &HTTPPredictor{base: newHTTPBase(baseURL, timeout)}
}

type predictRequest struct {
	Symbol         string  `json:"symbol"`
	Regime         string  `json:"regime"`
	CausalStrength float64 `json:"causal_strength"`
}

type predictResponse struct {
	Prediction  int                `json:"prediction"`
	Probability float64            `json:"probability"`
	Conviction  string             `json:"conviction"`
	IsOOD       bool               `json:"is_ood"`
	Regime      string             `json:"regime_provided"`
	Confidence  float64            `json:"confidence"`
	ATR         float64            `json:"atr"`
	Levels      map[string]float64 `json:"levels"`
}

func (p *HTTPPredictor) PredictWithConfidence(ctx context.Context, symbol string, regime models.Regime, causalStrength float64) (domsvc.Prediction, error) {
	var resp predictResponse
	err := p.base.postJSON(ctx, "/model/predict", predictRequest{
		Symbol:         symbol,
		Regime:         string(regime),
		CausalStrength: causalStrength,
	}, &resp)
	if err != nil {
		return domsvc.Prediction{}, fmt.Errorf("predict: %w", err)
	}

	dir := models.DirectionDown
	if resp.Prediction == 1 {
		dir = models.DirectionUp
	}
	return domsvc.Prediction{
		Direction:   dir,
		Probability: resp.Probability,
		Conviction:  resp.Conviction,
		IsOOD:       resp.IsOOD,
		Regime:      models.Regime(resp.Regime),
		Confidence:  resp.Confidence,
		ATR:         resp.ATR,
		Levels: models.PivotLevels{
			R1: resp.Levels["r1"],
			R2: resp.Levels["r2"],
			S1: resp.Levels["s1"],
			S2: resp.Levels["s2"],
		},
	}, nil
}

// HTTPTemporalPredictor calls the deep sequence model.
type HTTPTemporalPredictor struct{ base *httpBase }

func NewHTTPTemporalPredictor(baseURL string, timeout time.Duration) *HTTPTemporalPredictor {
	return &HTTPTemporalPredictor{base: newHTTPBase(baseURL, timeout)}
}

type temporalResponse struct {
	Probability float64 `json:"probability"`
}

func (p *HTTPTemporalPredictor) Predict(ctx context.Context, symbol string) (models.Direction, error) {
	var resp temporalResponse
	if err := p.base.postJSON(ctx, "/temporal/predict", map[string]string{"symbol": symbol}, &resp); err != nil {
		return models.DirectionNeutral, fmt.Errorf("temporal: %w", err)
	}

	switch {
	case resp.Probability > 0.55:
		return models.DirectionUp, nil
	case resp.Probability < 0.45:
		return models.DirectionDown, nil
	default:
		return models.DirectionNeutral, nil
	}
}

// HTTPTimingPolicy calls the execution-timing policy.
type HTTPTimingPolicy struct{ base *httpBase }

func NewHTTPTimingPolicy(baseURL string, timeout time.Duration) *HTTPTimingPolicy {
	return &HTTPTimingPolicy{base: newHTTPBase(baseURL, timeout)}
}

type timingResponse struct {
	Action int `json:"action"`
}

func (p *HTTPTimingPolicy) Action(ctx context.Context, symbol string) (int, error) {
	var resp timingResponse
	if err := p.base.postJSON(ctx, "/timing/action", map[string]string{"symbol": symbol}, &resp); err != nil {
		return models.TimingHold, fmt.Errorf("timing: %w", err)
	}
	return resp.Action, nil
}

// HTTPRegimeClassifier calls the regime classifier.
type HTTPRegimeClassifier struct{ base *httpBase }

func NewHTTPRegimeClassifier(baseURL string, timeout time.Duration) *HTTPRegimeClassifier {
	return &HTTPRegimeClassifier{base: newHTTPBase(baseURL, timeout)}
}

type regimeResponse struct {
	Regime string `json:"regime"`
}

func (p *HTTPRegimeClassifier) Classify(ctx context.Context, symbol string, ts time.Time) (models.Regime, error) {
	var resp regimeResponse
	err := p.base.postJSON(ctx, "/regime/classify", map[string]interface{}{
		"symbol":    symbol,
		"timestamp": ts.Unix(),
	}, &resp)
	if err != nil {
		return models.RegimeNominal, fmt.Errorf("regime: %w", err)
	}
	return models.Regime(resp.Regime), nil
}

// HTTPCausalityDetector calls the causality engine.
type HTTPCausalityDetector struct{ base *httpBase }

func NewHTTPCausalityDetector(baseURL string, timeout time.Duration) *HTTPCausalityDetector {
	return &HTTPCausalityDetector{base: newHTTPBase(baseURL, timeout)}
}

type causalityResponse struct {
	OverallCausalStrength float64 `json:"overall_causal_strength"`
}

func (p *HTTPCausalityDetector) DetectCausalStrength(ctx context.Context, symbol string) (float64, error) {
	var resp causalityResponse
	if err := p.base.postJSON(ctx, "/causality/detect", map[string]string{"symbol": symbol}, &resp); err != nil {
		return 0.5, fmt.Errorf("causality: %w", err)
	}
	return resp.OverallCausalStrength, nil
}

// HTTPLeadershipTracker calls the component-leadership scorer.
type HTTPLeadershipTracker struct{ base *httpBase }

func NewHTTPLeadershipTracker(baseURL string, timeout time.Duration) *HTTPLeadershipTracker {
	return &HTTPLeadershipTracker{base: newHTTPBase(baseURL, timeout)}
}

func (p *HTTPLeadershipTracker) Score(ctx context.Context) (models.LeadershipScore, error) {
	var resp models.LeadershipScore
	if err := p.base.postJSON(ctx, "/leadership/score", nil, &resp); err != nil {
		return models.LeadershipScore{}, fmt.Errorf("leadership: %w", err)
	}
	return resp, nil
}

// HTTPSentimentAnalyzer calls the news-sentiment model.
type HTTPSentimentAnalyzer struct{ base *httpBase }

func NewHTTPSentimentAnalyzer(baseURL string, timeout time.Duration) *HTTPSentimentAnalyzer {
	return &HTTPSentimentAnalyzer{base: newHTTPBase(baseURL, timeout)}
}

type sentimentResponse struct {
	Label     string  `json:"label"`
	Score     float64 `json:"score"`
	Narrative string  `json:"narrative"`
}

func (p *HTTPSentimentAnalyzer) Analyze(ctx context.Context, symbol string, news []models.NewsItem) (string, float64, string, error) {
	var resp sentimentResponse
	err := p.base.postJSON(ctx, "/sentiment/analyze", map[string]interface{}{
		"symbol": symbol,
		"news":   news,
	}, &resp)
	if err != nil {
		return "NEUTRAL", 0, "", fmt.Errorf("sentiment: %w", err)
	}
	return resp.Label, resp.Score, resp.Narrative, nil
}

// HTTPNewsFetcher calls the news producer.
type HTTPNewsFetcher struct{ base *httpBase }

func NewHTTPNewsFetcher(baseURL string, timeout time.Duration) *HTTPNewsFetcher {
	return &HTTPNewsFetcher{base: newHTTPBase(baseURL, timeout)}
}

type newsResponse struct {
	Items []models.NewsItem `json:"items"`
}

func (p *HTTPNewsFetcher) FetchLatestNews(ctx context.Context, symbol string) ([]models.NewsItem, error) {
	var resp newsResponse
	if err := p.base.postJSON(ctx, "/news/latest", map[string]string{"symbol": symbol}, &resp); err != nil {
		return nil, fmt.Errorf("news: %w", err)
	}
	return resp.Items, nil
}

var (
	_ domsvc.Predictor         = (*HTTPPredictor)(nil)
	_ domsvc.TemporalPredictor = (*HTTPTemporalPredictor)(nil)
	_ domsvc.TimingPolicy      = (*HTTPTimingPolicy)(nil)
	_ domsvc.RegimeClassifier  = (*HTTPRegimeClassifier)(nil)
	_ domsvc.CausalityDetector = (*HTTPCausalityDetector)(nil)
	_ domsvc.LeadershipTracker = (*HTTPLeadershipTracker)(nil)
	_ domsvc.SentimentAnalyzer = (*HTTPSentimentAnalyzer)(nil)
	_ domsvc.NewsFetcher       = (*HTTPNewsFetcher)(nil)
)
