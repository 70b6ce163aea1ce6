package api

import (
	"context"

	"TradeCore/internal/domain/models"
	"TradeCore/internal/risk"
	"TradeCore/internal/safety"
	"TradeCore/internal/workflow"
	xhttp "TradeCore/pkg/http"
	xlogger "TradeCore/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ControlsHandler exposes the operational surface of the decision core:
// analysis runs, risk guard state, the kill switch and per-principal
// autonomous supervision.
type ControlsHandler struct {
	logger     *xlogger.Logger
	engine     *workflow.Engine
	guard      *risk.Guard
	killSwitch *safety.KillSwitch
	watchdog   *safety.Watchdog
	health     func(ctx context.Context) map[string]string

	// Configured default for runs that do not set aggressive explicitly.
	defaultAggressive bool
}

func NewControlsHandler(
	logger *xlogger.Logger,
	engine *workflow.Engine,
	guard *risk.Guard,
	killSwitch *safety.KillSwitch,
	watchdog *safety.Watchdog,
	health func(ctx context.Context) map[string]string,
	defaultAggressive bool,
) *ControlsHandler {
	return &ControlsHandler{
		logger:            logger,
		engine:            engine,
		guard:             guard,
		killSwitch:        killSwitch,
		watchdog:          watchdog,
		health:            health,
		defaultAggressive: defaultAggressive,
	}
}

func (h *ControlsHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", h.Health)

	g := e.Group("/api")
	g.POST("/analyze", h.Analyze)
	g.POST("/orders/validate", h.ValidateOrder)
	g.GET("/risk/status", h.RiskStatus)
	g.POST("/risk/breaker", h.CircuitBreaker)
	g.GET("/killswitch", h.KillSwitchStatus)
	g.POST("/killswitch", h.ActivateKillSwitch)
	g.DELETE("/killswitch", h.DeactivateKillSwitch)
	g.POST("/principals/:principal/heartbeat", h.Heartbeat)
	g.POST("/principals/:principal/autonomous", h.SetAutonomous)
	g.GET("/principals/:principal/mode", h.Mode)
}

func (h *ControlsHandler) Health(c echo.Context) error {
	deps := map[string]string{}
	if h.health != nil {
		deps = h.health(c.Request().Context())
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"status":       "ok",
		"dependencies": deps,
	})
}

// AnalyzeRequest triggers one decision run for a symbol. Aggressive left
// unset falls back to the configured default.
type AnalyzeRequest struct {
	Symbol     string            `json:"symbol" validate:"required"`
	Positions  []models.Position `json:"positions"`
	Aggressive *bool             `json:"aggressive"`
}

func (h *ControlsHandler) Analyze(c echo.Context) error {
	req := &AnalyzeRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	aggressive := h.defaultAggressive
	if req.Aggressive != nil {
		aggressive = *req.Aggressive
	}

	snap, err := h.engine.Run(c.Request().Context(), req.Symbol, req.Positions, aggressive)
	if err != nil {
		h.logger.Error("analysis failed", xlogger.String("symbol", req.Symbol), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}

	return xhttp.SuccessResponse(c, map[string]interface{}{
		"decision":     snap.Decision,
		"exit_signals": snap.ExitSignals,
		"analysis":     snap.Analysis(),
	})
}

// ValidateOrderRequest checks one order against the risk guard.
type ValidateOrderRequest struct {
	Symbol   string  `json:"symbol" validate:"required"`
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price" validate:"gt=0"`
}

func (h *ControlsHandler) ValidateOrder(c echo.Context) error {
	req := &ValidateOrderRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ok, reason := h.guard.ValidateOrder(c.Request().Context(), models.Order{
		Symbol:   req.Symbol,
		Quantity: req.Quantity,
		Price:    req.Price,
	})
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"allowed": ok,
		"reason":  reason,
	})
}

func (h *ControlsHandler) RiskStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.guard.Status())
}

// BreakerRequest trips or resets the circuit breaker.
type BreakerRequest struct {
	Active bool   `json:"active"`
	Reason string `json:"reason" validate:"required"`
}

func (h *ControlsHandler) CircuitBreaker(c echo.Context) error {
	req := &BreakerRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	h.guard.TriggerCircuitBreaker(req.Active, req.Reason)
	return xhttp.SuccessResponse(c, h.guard.Status())
}

func (h *ControlsHandler) KillSwitchStatus(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.killSwitch.Status(c.Request().Context()))
}

// KillSwitchRequest activates the durable emergency halt.
type KillSwitchRequest struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *ControlsHandler) ActivateKillSwitch(c echo.Context) error {
	req := &KillSwitchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	if err := h.killSwitch.Activate(c.Request().Context(), req.Reason); err != nil {
		h.logger.Error("kill switch activation failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, h.killSwitch.Status(c.Request().Context()))
}

func (h *ControlsHandler) DeactivateKillSwitch(c echo.Context) error {
	if err := h.killSwitch.Deactivate(c.Request().Context()); err != nil {
		h.logger.Error("kill switch deactivation failed", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, h.killSwitch.Status(c.Request().Context()))
}

func (h *ControlsHandler) Heartbeat(c echo.Context) error {
	principal := c.Param("principal")
	if principal == "" {
		return xhttp.BadRequestResponse(c, "principal is required")
	}
	if err := h.watchdog.RecordHeartbeat(c.Request().Context(), principal); err != nil {
		h.logger.Error("heartbeat record failed", xlogger.String("principal", principal), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, map[string]string{"principal": principal, "status": "recorded"})
}

// AutonomousRequest toggles watchdog-supervised autonomous mode.
type AutonomousRequest struct {
	Enabled bool `json:"enabled"`
}

func (h *ControlsHandler) SetAutonomous(c echo.Context) error {
	principal := c.Param("principal")
	if principal == "" {
		return xhttp.BadRequestResponse(c, "principal is required")
	}
	req := &AutonomousRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	ctx := c.Request().Context()
	var err error
	if req.Enabled {
		err = h.watchdog.EnableAutonomous(ctx, principal)
	} else {
		err = h.watchdog.DisableAutonomous(ctx, principal)
	}
	if err != nil {
		h.logger.Error("autonomous toggle failed", xlogger.String("principal", principal), xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"principal": principal,
		"mode":      h.watchdog.Mode(ctx, principal),
	})
}

func (h *ControlsHandler) Mode(c echo.Context) error {
	principal := c.Param("principal")
	if principal == "" {
		return xhttp.BadRequestResponse(c, "principal is required")
	}
	return xhttp.SuccessResponse(c, map[string]string{
		"principal": principal,
		"mode":      h.watchdog.Mode(c.Request().Context(), principal),
	})
}

var _ xhttp.Handler = (*ControlsHandler)(nil)
