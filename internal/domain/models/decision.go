package models

import "time"

// Action is the final trade action of a decision.
type Action string

const (
	ActionBuy  Action = "BUY"
	ActionSell Action = "SELL"
	ActionHold Action = "HOLD"
)

// ConvergenceResult is the fused directional score. Sign indicates direction
// (positive bullish), magnitude indicates agreement strength. The score is
// intentionally unclamped: simultaneous bonuses may push it beyond ±1.
type ConvergenceResult struct {
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown"`
}

// ExitPlan holds the stop and target ladder attached to a directional decision.
// Targets are ascending for BUY, descending for SELL.
type ExitPlan struct {
	InitialStop    float64   `json:"initial_sl"`
	Targets        []float64 `json:"targets"`
	TrailingActive bool      `json:"trailing_sl_active"`
}

// TradeRecommendation is the tradable expression of a decision.
type TradeRecommendation struct {
	Instrument string    `json:"instrument"`
	Action     Action    `json:"action"`
	Strike     float64   `json:"strike"`
	OptionType string    `json:"option_type"`
	Reasoning  string    `json:"reasoning"`
	ExitPlan   *ExitPlan `json:"exit_plan,omitempty"`
}

// DecisionRecord is the vetted decision produced by one analysis run.
// An action other than HOLD always carries an exit plan.
type DecisionRecord struct {
	Symbol             string              `json:"symbol"`
	Timestamp          time.Time           `json:"timestamp"`
	FinalSignal        Action              `json:"final_signal"`
	Confidence         float64             `json:"confidence"`
	SuccessProbability float64             `json:"success_probability"`
	ModelScores        map[string]float64  `json:"model_scores"`
	Recommendation     TradeRecommendation `json:"trade_recommendation"`
}

// Position is an open position owned by the external execution layer,
// passed in by value and read-only to this core.
type Position struct {
	Instrument string  `json:"instrument"`
	Side       Action  `json:"side"`
	EntryPrice float64 `json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
}

// ExitRecommendation flags an open position for exit. Closing it is the
// external execution layer's responsibility.
type ExitRecommendation struct {
	Instrument string `json:"instrument"`
	Reason     string `json:"reason"`
}

// Order is the subject of a risk-guard validation.
type Order struct {
	Symbol   string  `json:"symbol"`
	Quantity float64 `json:"quantity"`
	Price    float64 `json:"price"`
}

// RiskStatus is a snapshot of the account risk guard.
type RiskStatus struct {
	DailyLossLimit   float64 `json:"daily_loss_limit"`
	CurrentDailyLoss float64 `json:"current_daily_loss"`
	MaxPositionSize  float64 `json:"max_position_size"`
	CircuitBreaker   string  `json:"circuit_breaker_status"` // NOMINAL or HALTED
}

// KillSwitchStatus reports the durable emergency-halt marker.
type KillSwitchStatus struct {
	Status      string    `json:"status"` // NOMINAL or KILLED
	Reason      string    `json:"reason,omitempty"`
	ActivatedAt time.Time `json:"activated_at,omitempty"`
}
