package safety

import (
	"context"
	"testing"

	"TradeCore/pkg/cache"
	"TradeCore/pkg/logger"
)

func TestKillSwitchSurvivesAcrossInstances(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()

	first := NewKillSwitch(store, nil, logger.Nop())
	if err := first.Activate(ctx, "manual halt"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	// A fresh instance over the same store simulates a process restart.
	second := NewKillSwitch(store, nil, logger.Nop())
	if !second.IsActive(ctx) {
		t.Fatal("kill switch not visible to new instance")
	}

	status := second.Status(ctx)
	if status.Status != "KILLED" || status.Reason != "manual halt" {
		t.Fatalf("status = %+v", status)
	}
}

func TestKillSwitchActivationIdempotent(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	ks := NewKillSwitch(store, nil, logger.Nop())

	if err := ks.Activate(ctx, "first reason"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := ks.Activate(ctx, "second reason"); err != nil {
		t.Fatalf("re-activate: %v", err)
	}

	if got := ks.Status(ctx).Reason; got != "first reason" {
		t.Fatalf("reason = %q, want original reason preserved", got)
	}
}

func TestKillSwitchDeactivate(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	ks := NewKillSwitch(store, nil, logger.Nop())

	if err := ks.Activate(ctx, "halt"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := ks.Deactivate(ctx); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if ks.IsActive(ctx) {
		t.Fatal("kill switch still active after deactivation")
	}
	if got := ks.Status(ctx).Status; got != "NOMINAL" {
		t.Fatalf("status = %s, want NOMINAL", got)
	}
}

func TestKillSwitchInactiveByDefault(t *testing.T) {
	ks := NewKillSwitch(cache.NewMemoryStore(), nil, logger.Nop())
	if ks.IsActive(context.Background()) {
		t.Fatal("fresh store should read inactive")
	}
}
