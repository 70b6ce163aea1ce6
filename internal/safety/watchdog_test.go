package safety

import (
	"context"
	"strconv"
	"testing"
	"time"

	"TradeCore/internal/domain/repository"
	"TradeCore/pkg/cache"
	"TradeCore/pkg/logger"
)

func newTestWatchdog(store cache.Store) *Watchdog {
	return NewWatchdog(store, logger.Nop(), repository.NopMetrics{},
		5*time.Second, 30*time.Second, 60*time.Second)
}

func TestEnableAutonomousSeedsHeartbeat(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	wd := newTestWatchdog(store)

	if err := wd.EnableAutonomous(ctx, "user-1"); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if got := wd.Mode(ctx, "user-1"); got != ModeAutonomous {
		t.Fatalf("mode = %s, want %s", got, ModeAutonomous)
	}

	// Fresh heartbeat keeps the principal supervised through a check.
	if err := wd.CheckWatchdog(ctx); err != nil {
		t.Fatalf("check: %v", err)
	}
	if got := wd.Mode(ctx, "user-1"); got != ModeAutonomous {
		t.Fatalf("mode after check = %s, want %s", got, ModeAutonomous)
	}
}

func TestStaleHeartbeatForcesReversion(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	wd := newTestWatchdog(store)

	if err := wd.EnableAutonomous(ctx, "user-1"); err != nil {
		t.Fatalf("enable: %v", err)
	}

	// Backdate the heartbeat beyond the 30s timeout.
	stale := strconv.FormatInt(time.Now().Unix()-100, 10)
	if err := store.Set(ctx, "principal:user-1:heartbeat", stale, time.Minute); err != nil {
		t.Fatalf("backdate heartbeat: %v", err)
	}

	if err := wd.CheckWatchdog(ctx); err != nil {
		t.Fatalf("check: %v", err)
	}

	if got := wd.Mode(ctx, "user-1"); got != ModeManual {
		t.Fatalf("mode = %s, want forced %s", got, ModeManual)
	}
	members, err := store.SMembers(ctx, "autonomous:principals")
	if err != nil {
		t.Fatalf("smembers: %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("principal still supervised after reversion: %v", members)
	}
}

func TestMissingHeartbeatForcesReversion(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	wd := newTestWatchdog(store)

	if err := wd.EnableAutonomous(ctx, "user-1"); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := store.Delete(ctx, "principal:user-1:heartbeat"); err != nil {
		t.Fatalf("delete heartbeat: %v", err)
	}

	if err := wd.CheckWatchdog(ctx); err != nil {
		t.Fatalf("check: %v", err)
	}
	if got := wd.Mode(ctx, "user-1"); got != ModeManual {
		t.Fatalf("mode = %s, want %s", got, ModeManual)
	}
}

func TestCheckOnlyRevertsStalePrincipals(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	wd := newTestWatchdog(store)

	for _, p := range []string{"fresh", "stale"} {
		if err := wd.EnableAutonomous(ctx, p); err != nil {
			t.Fatalf("enable %s: %v", p, err)
		}
	}
	old := strconv.FormatInt(time.Now().Unix()-100, 10)
	if err := store.Set(ctx, "principal:stale:heartbeat", old, time.Minute); err != nil {
		t.Fatalf("backdate: %v", err)
	}

	if err := wd.CheckWatchdog(ctx); err != nil {
		t.Fatalf("check: %v", err)
	}

	if got := wd.Mode(ctx, "fresh"); got != ModeAutonomous {
		t.Fatalf("fresh principal reverted: mode = %s", got)
	}
	if got := wd.Mode(ctx, "stale"); got != ModeManual {
		t.Fatalf("stale principal not reverted: mode = %s", got)
	}
}

func TestDisableAutonomous(t *testing.T) {
	ctx := context.Background()
	store := cache.NewMemoryStore()
	wd := newTestWatchdog(store)

	if err := wd.EnableAutonomous(ctx, "user-1"); err != nil {
		t.Fatalf("enable: %v", err)
	}
	if err := wd.DisableAutonomous(ctx, "user-1"); err != nil {
		t.Fatalf("disable: %v", err)
	}
	if got := wd.Mode(ctx, "user-1"); got != ModeManual {
		t.Fatalf("mode = %s, want %s", got, ModeManual)
	}
}

func TestModeDefaultsToManual(t *testing.T) {
	wd := newTestWatchdog(cache.NewMemoryStore())
	if got := wd.Mode(context.Background(), "unknown"); got != ModeManual {
		t.Fatalf("mode = %s, want %s", got, ModeManual)
	}
}
