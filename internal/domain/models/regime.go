package models

// Regime is a categorical label for current market behavior, supplied by an
// external classifier. The engine only interprets it.
type Regime string

const (
	RegimeNominal         Regime = "NOMINAL"
	RegimeRangeBound      Regime = "RANGE_BOUND"
	RegimeTrending        Regime = "TRENDING_INTRADAY"
	RegimePowerHour       Regime = "POWER_HOUR_TREND"
	RegimeLunchLull       Regime = "LUNCH_LULL"
	RegimeVolatile        Regime = "VOLATILE"
	RegimeOpeningVolatile Regime = "OPENING_VOLATILITY"
	RegimeCrash           Regime = "CRASH"
)

// Trending reports whether the regime has directional momentum capacity.
func (r Regime) Trending() bool {
	return r == RegimeTrending
}
