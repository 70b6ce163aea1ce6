package risk

import (
	"context"
	"strings"
	"testing"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/domain/repository"
	"TradeCore/pkg/logger"
)

type stubHalt struct{ active bool }

func (h stubHalt) IsActive(context.Context) bool { return h.active }

func newTestGuard(halt Halt) *Guard {
	return NewGuard(5000, 100000, halt, logger.Nop(), repository.NopMetrics{})
}

func TestValidateOrderWithinLimits(t *testing.T) {
	g := newTestGuard(nil)

	ok, reason := g.ValidateOrder(context.Background(), models.Order{Symbol: "NIFTY", Quantity: 50, Price: 100})
	if !ok {
		t.Fatalf("order rejected: %s", reason)
	}
}

func TestValidateOrderSizeCap(t *testing.T) {
	g := newTestGuard(nil)

	ok, reason := g.ValidateOrder(context.Background(), models.Order{Symbol: "NIFTY", Quantity: 10, Price: 20000})
	if ok {
		t.Fatal("oversized order passed")
	}
	if !strings.Contains(reason, "max position size") {
		t.Fatalf("reason = %q", reason)
	}
}

func TestDailyLossLimitTripsBreaker(t *testing.T) {
	g := newTestGuard(nil)

	g.UpdatePnl(-3000)
	if !g.TradingAllowed(context.Background()) {
		t.Fatal("trading should still be allowed under the limit")
	}

	g.UpdatePnl(-2500)
	if g.TradingAllowed(context.Background()) {
		t.Fatal("trading allowed past the daily loss limit")
	}
	if got := g.Status().CircuitBreaker; got != "HALTED" {
		t.Fatalf("breaker status = %s, want HALTED", got)
	}
}

func TestProfitsDoNotReduceLossCounter(t *testing.T) {
	g := newTestGuard(nil)

	g.UpdatePnl(-4000)
	g.UpdatePnl(10000)
	if got := g.Status().CurrentDailyLoss; got != 4000 {
		t.Fatalf("daily loss = %v, want 4000", got)
	}
}

func TestManualBreakerTripAndReset(t *testing.T) {
	g := newTestGuard(nil)

	g.TriggerCircuitBreaker(true, "manual halt")
	ok, reason := g.ValidateOrder(context.Background(), models.Order{Quantity: 1, Price: 100})
	if ok || !strings.Contains(reason, "Circuit breaker") {
		t.Fatalf("expected breaker rejection, got (%v, %q)", ok, reason)
	}

	g.TriggerCircuitBreaker(false, "all clear")
	if ok, _ := g.ValidateOrder(context.Background(), models.Order{Quantity: 1, Price: 100}); !ok {
		t.Fatal("order rejected after breaker reset")
	}
}

func TestBreakerResetClearsDailyLoss(t *testing.T) {
	g := newTestGuard(nil)

	g.UpdatePnl(-5000) // exactly at the limit, breaker trips
	if ok, _ := g.ValidateOrder(context.Background(), models.Order{Quantity: 1, Price: 100}); ok {
		t.Fatal("order passed with tripped breaker")
	}

	g.TriggerCircuitBreaker(false, "operator reset")

	ok, reason := g.ValidateOrder(context.Background(), models.Order{Quantity: 1, Price: 100})
	if !ok {
		t.Fatalf("order still rejected after breaker reset: %q", reason)
	}
	if got := g.Status().CurrentDailyLoss; got != 0 {
		t.Fatalf("daily loss = %v after reset, want 0", got)
	}
	if !g.TradingAllowed(context.Background()) {
		t.Fatal("trading not allowed after breaker reset")
	}
}

func TestKillSwitchOverridesEverything(t *testing.T) {
	g := newTestGuard(stubHalt{active: true})

	ok, reason := g.ValidateOrder(context.Background(), models.Order{Quantity: 1, Price: 100})
	if ok {
		t.Fatal("order passed with active kill switch")
	}
	if !strings.Contains(reason, "KILL SWITCH") {
		t.Fatalf("reason = %q, want kill switch mention", reason)
	}
	if g.TradingAllowed(context.Background()) {
		t.Fatal("trading allowed with active kill switch")
	}
}
