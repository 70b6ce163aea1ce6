package gates

import (
	"testing"

	"TradeCore/internal/domain/models"
	"TradeCore/pkg/logger"
)

func newGate() *MetaLabelGate {
	return NewMetaLabelGate(DefaultMetaLabelThreshold, logger.Nop())
}

func TestMetaLabelVetoesWeakSignal(t *testing.T) {
	g := newGate()
	tech := models.TechnicalContext{Regime: models.RegimeNominal, CausalStrength: 0.5}

	action, prob := g.Vet(models.ActionBuy, 20, tech, models.LeadershipScore{}, nil)
	if action != models.ActionHold {
		t.Fatalf("action = %s, want HOLD", action)
	}
	if prob >= DefaultMetaLabelThreshold {
		t.Fatalf("prob = %v, want below threshold", prob)
	}
}

func TestMetaLabelPassesAlignedTrend(t *testing.T) {
	g := newGate()
	tech := models.TechnicalContext{Regime: models.RegimeTrending, CausalStrength: 0.8}
	leadership := models.LeadershipScore{Score: 0.5}

	action, prob := g.Vet(models.ActionBuy, 60, tech, leadership, nil)
	if action != models.ActionBuy {
		t.Fatalf("action = %s, want BUY", action)
	}
	if prob < 0.9 {
		t.Fatalf("prob = %v, want > 0.9 for fully aligned trend entry", prob)
	}
}

func TestMetaLabelMonotonicInConfidence(t *testing.T) {
	g := newGate()
	tech := models.TechnicalContext{Regime: models.RegimeNominal, CausalStrength: 0.5}

	_, low := g.Vet(models.ActionBuy, 40, tech, models.LeadershipScore{}, nil)
	_, high := g.Vet(models.ActionBuy, 80, tech, models.LeadershipScore{}, nil)
	if high <= low {
		t.Fatalf("prob not monotonic in confidence: %v at 40%% vs %v at 80%%", low, high)
	}
}

func TestMetaLabelWallProximityPenalty(t *testing.T) {
	g := newGate()
	tech := models.TechnicalContext{Regime: models.RegimeNominal, CausalStrength: 0.5, LastPrice: 50000}

	far := &models.WallData{CallWall: 51000}
	near := &models.WallData{CallWall: 50030}

	_, clear := g.Vet(models.ActionBuy, 70, tech, models.LeadershipScore{}, far)
	_, pinned := g.Vet(models.ActionBuy, 70, tech, models.LeadershipScore{}, near)
	if pinned >= clear {
		t.Fatalf("wall proximity did not penalize: near=%v far=%v", pinned, clear)
	}
}

func TestMetaLabelRangeReversionBonus(t *testing.T) {
	g := newGate()
	tech := models.TechnicalContext{Regime: models.RegimeRangeBound, CausalStrength: 0.5}

	// Contrarian put positioning supports a range-bound long.
	_, plain := g.Vet(models.ActionBuy, 55, tech, models.LeadershipScore{}, &models.WallData{PCR: 1.0})
	_, supported := g.Vet(models.ActionBuy, 55, tech, models.LeadershipScore{}, &models.WallData{PCR: 1.3})
	if supported <= plain {
		t.Fatalf("reversion bonus missing: supported=%v plain=%v", supported, plain)
	}
}

func TestMetaLabelHoldInputScoresZero(t *testing.T) {
	g := newGate()
	action, prob := g.Vet(models.ActionHold, 90, models.TechnicalContext{}, models.LeadershipScore{}, nil)
	if action != models.ActionHold || prob != 0 {
		t.Fatalf("Vet(HOLD) = (%s, %v), want (HOLD, 0)", action, prob)
	}
}
