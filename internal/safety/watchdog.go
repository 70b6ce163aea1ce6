package safety

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"TradeCore/internal/domain/repository"
	"TradeCore/pkg/cache"
	"TradeCore/pkg/logger"
)

const autonomousSetKey = "autonomous:principals"

// Trading modes recorded per principal.
const (
	ModeManual     = "MANUAL"
	ModeAutonomous = "AUTO"
)

// PrincipalSettings is the per-principal mode record in the shared store.
type PrincipalSettings struct {
	TradingMode string `json:"trading_mode"`
}

// Watchdog is the per-principal dead-man switch: an autonomous trading loop
// that stops heartbeating is force-reverted to manual within
// HeartbeatTimeout + PollInterval.
type Watchdog struct {
	store   cache.Store
	log     *logger.Logger
	metrics repository.Metrics

	pollInterval time.Duration
	timeout      time.Duration
	ttl          time.Duration
}

// NewWatchdog creates a watchdog over the shared store.
func NewWatchdog(store cache.Store, log *logger.Logger, metrics repository.Metrics, pollInterval, timeout, ttl time.Duration) *Watchdog {
	return &Watchdog{
		store:        store,
		log:          log,
		metrics:      metrics,
		pollInterval: pollInterval,
		timeout:      timeout,
		ttl:          ttl,
	}
}

// RecordHeartbeat stores now() against the principal with a short expiry so
// inactive principals auto-clean.
func (w *Watchdog) RecordHeartbeat(ctx context.Context, principal string) error {
	key := heartbeatKey(principal)
	return w.store.Set(ctx, key, strconv.FormatInt(time.Now().Unix(), 10), w.ttl)
}

// EnableAutonomous registers the principal for watchdog supervision and seeds
// an initial heartbeat so it does not immediately expire.
func (w *Watchdog) EnableAutonomous(ctx context.Context, principal string) error {
	if err := w.setMode(ctx, principal, ModeAutonomous); err != nil {
		return err
	}
	if err := w.store.SAdd(ctx, autonomousSetKey, principal); err != nil {
		return err
	}
	if err := w.RecordHeartbeat(ctx, principal); err != nil {
		return err
	}
	w.log.Info("autonomous mode enabled", logger.String("principal", principal))
	return nil
}

// DisableAutonomous reverts the principal to manual and removes it from
// supervision.
func (w *Watchdog) DisableAutonomous(ctx context.Context, principal string) error {
	if err := w.setMode(ctx, principal, ModeManual); err != nil {
		return err
	}
	if err := w.store.SRem(ctx, autonomousSetKey, principal); err != nil {
		return err
	}
	w.log.Info("autonomous mode disabled", logger.String("principal", principal))
	return nil
}

// CheckWatchdog iterates the autonomous set and force-reverts every principal
// whose heartbeat is missing or older than the timeout.
func (w *Watchdog) CheckWatchdog(ctx context.Context) error {
	principals, err := w.store.SMembers(ctx, autonomousSetKey)
	if err != nil {
		return fmt.Errorf("read autonomous set: %w", err)
	}

	now := time.Now().Unix()
	for _, principal := range principals {
		var raw string
		err := w.store.Get(ctx, heartbeatKey(principal), &raw)
		if err == nil {
			lastBeat, parseErr := strconv.ParseInt(raw, 10, 64)
			if parseErr == nil && now-lastBeat <= int64(w.timeout.Seconds()) {
				continue
			}
		} else if err != cache.ErrCacheMiss {
			w.log.Error("heartbeat read failed", logger.String("principal", principal), logger.Error(err))
			continue
		}

		w.log.Error("dead-man switch triggered, reverting to manual",
			logger.String("principal", principal))
		if err := w.revert(ctx, principal); err != nil {
			w.log.Error("forced reversion failed", logger.String("principal", principal), logger.Error(err))
		}
	}
	return nil
}

// Run polls CheckWatchdog on the configured interval until the context ends.
func (w *Watchdog) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.CheckWatchdog(ctx); err != nil {
				w.log.Error("watchdog check failed", logger.Error(err))
				w.metrics.RecordError("watchdog")
			}
		}
	}
}

// Mode returns the principal's recorded trading mode, defaulting to manual.
func (w *Watchdog) Mode(ctx context.Context, principal string) string {
	var settings PrincipalSettings
	if err := w.store.Get(ctx, settingsKey(principal), &settings); err != nil {
		return ModeManual
	}
	if settings.TradingMode == "" {
		return ModeManual
	}
	return settings.TradingMode
}

func (w *Watchdog) revert(ctx context.Context, principal string) error {
	if err := w.setMode(ctx, principal, ModeManual); err != nil {
		return err
	}
	if err := w.store.SRem(ctx, autonomousSetKey, principal); err != nil {
		return err
	}
	w.metrics.RecordWatchdogReversion()
	return nil
}

func (w *Watchdog) setMode(ctx context.Context, principal, mode string) error {
	var settings PrincipalSettings
	err := w.store.Get(ctx, settingsKey(principal), &settings)
	if err != nil && err != cache.ErrCacheMiss {
		return err
	}
	settings.TradingMode = mode

	data, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	return w.store.Set(ctx, settingsKey(principal), data, 0)
}

func heartbeatKey(principal string) string {
	return fmt.Sprintf("principal:%s:heartbeat", principal)
}

func settingsKey(principal string) string {
	return fmt.Sprintf("principal:%s:settings", principal)
}
