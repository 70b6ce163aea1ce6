package repository

import (
	"context"
	"fmt"
	"time"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
	"TradeCore/pkg/kafka"
	"TradeCore/pkg/logger"
)

// KafkaPublisher delivers decisions and exit recommendations to the
// execution layer over Kafka, keyed by symbol so per-instrument ordering
// is preserved.
type KafkaPublisher struct {
	producer      *kafka.Producer
	decisionTopic string
	exitTopic     string
	log           *logger.Logger
}

func NewKafkaPublisher(producer *kafka.Producer, decisionTopic, exitTopic string, log *logger.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		producer:      producer,
		decisionTopic: decisionTopic,
		exitTopic:     exitTopic,
		log:           log,
	}
}

func (p *KafkaPublisher) PublishDecision(ctx context.Context, rec *models.DecisionRecord) error {
	if err := p.producer.Publish(ctx, p.decisionTopic, []byte(rec.Symbol), rec); err != nil {
		return fmt.Errorf("publish decision: %w", err)
	}
	p.log.Debug("decision published",
		logger.String("topic", p.decisionTopic),
		logger.String("symbol", rec.Symbol),
	)
	return nil
}

type exitBatch struct {
	Symbol    string                      `json:"symbol"`
	Timestamp time.Time                   `json:"timestamp"`
	Exits     []models.ExitRecommendation `json:"exits"`
}

func (p *KafkaPublisher) PublishExits(ctx context.Context, symbol string, recs []models.ExitRecommendation) error {
	batch := exitBatch{Symbol: symbol, Timestamp: time.Now().UTC(), Exits: recs}
	if err := p.producer.Publish(ctx, p.exitTopic, []byte(symbol), batch); err != nil {
		return fmt.Errorf("publish exits: %w", err)
	}
	p.log.Info("exit recommendations published",
		logger.String("topic", p.exitTopic),
		logger.String("symbol", symbol),
		logger.Int("count", len(recs)),
	)
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}

// NopPublisher discards everything. Used when Kafka is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishDecision(context.Context, *models.DecisionRecord) error { return nil }
func (NopPublisher) PublishExits(context.Context, string, []models.ExitRecommendation) error {
	return nil
}
func (NopPublisher) Close() error { return nil }

var (
	_ domrepo.DecisionPublisher = (*KafkaPublisher)(nil)
	_ domrepo.DecisionPublisher = NopPublisher{}
)
