package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"TradeCore/internal/domain/models"
	domrepo "TradeCore/internal/domain/repository"
	"TradeCore/pkg/clickhouse"
	"TradeCore/pkg/logger"
)

// decisionSchema creates the append-only decision audit table.
func decisionSchema(table string) []string {
	return []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			symbol              String,
			ts                  DateTime64(3, 'UTC'),
			final_signal        LowCardinality(String),
			confidence          Float64,
			success_probability Float64,
			model_scores        String,
			instrument          String,
			strike              Float64,
			option_type         LowCardinality(String),
			reasoning           String,
			exit_plan           String
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(ts)
		ORDER BY (symbol, ts)`, table),
	}
}

// ClickHouseJournal persists decisions into ClickHouse for audit and replay.
type ClickHouseJournal struct {
	client *clickhouse.Client
	table  string
	log    *logger.Logger
}

func NewClickHouseJournal(ctx context.Context, client *clickhouse.Client, table string, log *logger.Logger) (*ClickHouseJournal, error) {
	if table == "" {
		table = "decisions"
	}
	if err := client.InitSchema(ctx, decisionSchema(table)); err != nil {
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	return &ClickHouseJournal{client: client, table: table, log: log}, nil
}

func (j *ClickHouseJournal) Append(ctx context.Context, rec *models.DecisionRecord) error {
	scores, err := json.Marshal(rec.ModelScores)
	if err != nil {
		return fmt.Errorf("marshal scores: %w", err)
	}
	plan := []byte("{}")
	if rec.Recommendation.ExitPlan != nil {
		plan, err = json.Marshal(rec.Recommendation.ExitPlan)
		if err != nil {
			return fmt.Errorf("marshal exit plan: %w", err)
		}
	}

	query := fmt.Sprintf(`INSERT INTO %s
		(symbol, ts, final_signal, confidence, success_probability,
		 model_scores, instrument, strike, option_type, reasoning, exit_plan)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`, j.table)

	_, err = j.client.DB().ExecContext(ctx, query,
		rec.Symbol,
		rec.Timestamp,
		string(rec.FinalSignal),
		rec.Confidence,
		rec.SuccessProbability,
		string(scores),
		rec.Recommendation.Instrument,
		rec.Recommendation.Strike,
		rec.Recommendation.OptionType,
		rec.Recommendation.Reasoning,
		string(plan),
	)
	if err != nil {
		return fmt.Errorf("insert decision: %w", err)
	}

	j.log.Debug("decision journaled",
		logger.String("symbol", rec.Symbol),
		logger.String("signal", string(rec.FinalSignal)),
	)
	return nil
}

func (j *ClickHouseJournal) Close() error {
	return j.client.Close()
}

// NopJournal discards decisions. Used when ClickHouse is disabled.
type NopJournal struct{}

func (NopJournal) Append(context.Context, *models.DecisionRecord) error { return nil }
func (NopJournal) Close() error                                         { return nil }

var (
	_ domrepo.DecisionJournal = (*ClickHouseJournal)(nil)
	_ domrepo.DecisionJournal = NopJournal{}
)
