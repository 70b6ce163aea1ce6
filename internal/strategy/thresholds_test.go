package strategy

import (
	"testing"

	"TradeCore/internal/domain/models"
)

func TestRequiredScoreByRegime(t *testing.T) {
	cases := []struct {
		regime models.Regime
		want   float64
	}{
		{models.RegimeNominal, 0.3},
		{models.RegimeRangeBound, 0.3},
		{models.RegimeTrending, 0.3},
		{models.RegimePowerHour, 0.3},
		{models.RegimeLunchLull, 0.3},
		{models.RegimeVolatile, 0.5},
		{models.RegimeOpeningVolatile, 0.5},
		{models.RegimeCrash, 0.7},
		{models.Regime("SOMETHING_NEW"), 0.7},
	}
	for _, c := range cases {
		if got := RequiredScore(c.regime, false); got != c.want {
			t.Fatalf("RequiredScore(%s) = %v, want %v", c.regime, got, c.want)
		}
	}
}

func TestRequiredScoreAggressiveOverridesRegime(t *testing.T) {
	for _, regime := range []models.Regime{models.RegimeNominal, models.RegimeVolatile, models.RegimeCrash} {
		if got := RequiredScore(regime, true); got != 0.1 {
			t.Fatalf("aggressive RequiredScore(%s) = %v, want 0.1", regime, got)
		}
	}
}
