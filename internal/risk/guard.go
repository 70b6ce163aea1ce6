package risk

import (
	"context"
	"fmt"
	"sync"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/domain/repository"
	"TradeCore/pkg/logger"
)

// Halt is the emergency-halt check consulted on every order validation.
type Halt interface {
	IsActive(ctx context.Context) bool
}

// Guard is the account-level circuit breaker with per-order limit checks.
// State is mutated from multiple call sites (validation, PnL updates, manual
// toggles), so every access goes through the mutex.
type Guard struct {
	mu              sync.Mutex
	dailyLossLimit  float64
	maxPositionSize float64
	dailyLoss       float64
	breakerActive   bool

	halt    Halt
	log     *logger.Logger
	metrics repository.Metrics
}

// NewGuard creates a risk guard with the configured limits.
func NewGuard(dailyLossLimit, maxPositionSize float64, halt Halt, log *logger.Logger, metrics repository.Metrics) *Guard {
	return &Guard{
		dailyLossLimit:  dailyLossLimit,
		maxPositionSize: maxPositionSize,
		halt:            halt,
		log:             log,
		metrics:         metrics,
	}
}

// ValidateOrder checks an order against the kill switch, the circuit breaker,
// the daily loss limit and the per-order size cap.
func (g *Guard) ValidateOrder(ctx context.Context, order models.Order) (bool, string) {
	if g.halt != nil && g.halt.IsActive(ctx) {
		return false, "KILL SWITCH is ACTIVE. Trading halted."
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.breakerActive {
		return false, "Circuit breaker is ACTIVE. Trading halted."
	}
	if g.dailyLoss >= g.dailyLossLimit {
		return false, "Daily loss limit reached."
	}
	if value := order.Quantity * order.Price; value > g.maxPositionSize {
		return false, fmt.Sprintf("Order value (%.2f) exceeds max position size.", value)
	}

	return true, "Safe to proceed."
}

// UpdatePnl accumulates realized losses into the daily counter and trips the
// breaker once the limit is reached. Profits do not reduce the counter.
func (g *Guard) UpdatePnl(realizedPnl float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if realizedPnl < 0 {
		g.dailyLoss += -realizedPnl
	}
	if g.dailyLoss >= g.dailyLossLimit && !g.breakerActive {
		g.breakerActive = true
		g.metrics.RecordBreakerState(true)
		g.log.Error("daily loss limit breached, circuit breaker tripped",
			logger.Float64("daily_loss", g.dailyLoss),
			logger.Float64("limit", g.dailyLossLimit),
		)
	}
}

// TriggerCircuitBreaker trips or resets the breaker manually. A reset is an
// operator acknowledgment of the halt and clears the daily loss accumulator,
// so validation does not keep rejecting on the limit that tripped it.
func (g *Guard) TriggerCircuitBreaker(active bool, reason string) {
	g.mu.Lock()
	g.breakerActive = active
	if !active {
		g.dailyLoss = 0
	}
	g.mu.Unlock()

	g.metrics.RecordBreakerState(active)
	if active {
		g.log.Warn("circuit breaker tripped", logger.String("reason", reason))
	} else {
		g.log.Info("circuit breaker reset", logger.String("reason", reason))
	}
}

// TradingAllowed reports whether a new directional decision may be taken.
func (g *Guard) TradingAllowed(ctx context.Context) bool {
	if g.halt != nil && g.halt.IsActive(ctx) {
		return false
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.breakerActive && g.dailyLoss < g.dailyLossLimit
}

// Status returns a snapshot of the guard state.
func (g *Guard) Status() models.RiskStatus {
	g.mu.Lock()
	defer g.mu.Unlock()

	status := "NOMINAL"
	if g.breakerActive {
		status = "HALTED"
	}
	return models.RiskStatus{
		DailyLossLimit:   g.dailyLossLimit,
		CurrentDailyLoss: g.dailyLoss,
		MaxPositionSize:  g.maxPositionSize,
		CircuitBreaker:   status,
	}
}
