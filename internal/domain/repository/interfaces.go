package repository

import (
	"context"

	"TradeCore/internal/domain/models"
)

// Metrics records operational metrics for the decision core.
type Metrics interface {
	RecordDecision(symbol, action string)
	RecordGateRejection(gate string)
	RecordStepError(step string)
	RecordError(kind string)
	RecordWatchdogReversion()
	RecordBreakerState(active bool)
	RecordLatency(op string, seconds float64)
}

// DecisionJournal is the append-only audit store for produced decisions.
type DecisionJournal interface {
	Append(ctx context.Context, rec *models.DecisionRecord) error
	Close() error
}

// DecisionPublisher delivers decisions and exit recommendations to the
// external execution layer.
type DecisionPublisher interface {
	PublishDecision(ctx context.Context, rec *models.DecisionRecord) error
	PublishExits(ctx context.Context, symbol string, recs []models.ExitRecommendation) error
	Close() error
}

// NopMetrics discards all metrics. Used when metrics are disabled and in tests.
type NopMetrics struct{}

func (NopMetrics) RecordDecision(string, string) {}
func (NopMetrics) RecordGateRejection(string)    {}
func (NopMetrics) RecordStepError(string)        {}
func (NopMetrics) RecordError(string)            {}
func (NopMetrics) RecordWatchdogReversion()      {}
func (NopMetrics) RecordBreakerState(bool)       {}
func (NopMetrics) RecordLatency(string, float64) {}

var _ Metrics = NopMetrics{}
