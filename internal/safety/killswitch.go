package safety

import (
	"context"
	"time"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/domain/service"
	"TradeCore/pkg/cache"
	"TradeCore/pkg/logger"
)

const killSwitchKey = "killswitch:active"

type killMarker struct {
	Reason      string    `json:"reason"`
	ActivatedAt time.Time `json:"activated_at"`
}

// KillSwitch is the durable emergency-halt flag. State is derived purely
// from marker presence in the shared store, so it is consistent across
// process restarts by construction.
type KillSwitch struct {
	store  cache.Store
	broker service.Broker
	log    *logger.Logger
}

// NewKillSwitch creates a kill switch over the shared store.
func NewKillSwitch(store cache.Store, broker service.Broker, log *logger.Logger) *KillSwitch {
	return &KillSwitch{store: store, broker: broker, log: log}
}

// Activate writes the durable marker and attempts best-effort order
// cancellation on the connected broker. Activation is idempotent: an existing
// marker keeps its original reason and timestamp.
func (k *KillSwitch) Activate(ctx context.Context, reason string) error {
	k.log.Error("KILL SWITCH ACTIVATED", logger.String("reason", reason))

	marker := killMarker{Reason: reason, ActivatedAt: time.Now().UTC()}
	if _, err := k.store.SetNX(ctx, killSwitchKey, marker, 0); err != nil {
		return err
	}

	if k.broker != nil && k.broker.IsConnected() {
		if err := k.broker.CancelAllOrders(ctx); err != nil {
			k.log.Error("order cancellation failed during kill switch", logger.Error(err))
		}
	}
	return nil
}

// Deactivate removes the marker.
func (k *KillSwitch) Deactivate(ctx context.Context) error {
	if err := k.store.Delete(ctx, killSwitchKey); err != nil {
		return err
	}
	k.log.Info("kill switch deactivated, system resuming")
	return nil
}

// IsActive reports whether the marker exists. A store error reads as active:
// when the halt state cannot be confirmed, trading stays halted.
func (k *KillSwitch) IsActive(ctx context.Context) bool {
	exists, err := k.store.Exists(ctx, killSwitchKey)
	if err != nil {
		k.log.Error("kill switch state check failed", logger.Error(err))
		return true
	}
	return exists
}

// Status returns the marker contents.
func (k *KillSwitch) Status(ctx context.Context) models.KillSwitchStatus {
	var marker killMarker
	err := k.store.Get(ctx, killSwitchKey, &marker)
	if err == cache.ErrCacheMiss {
		return models.KillSwitchStatus{Status: "NOMINAL"}
	}
	if err != nil {
		return models.KillSwitchStatus{Status: "KILLED", Reason: "active (state unreadable)"}
	}
	return models.KillSwitchStatus{
		Status:      "KILLED",
		Reason:      marker.Reason,
		ActivatedAt: marker.ActivatedAt,
	}
}
