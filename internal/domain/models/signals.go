package models

// Direction is a directional call from a signal producer.
type Direction string

const (
	DirectionUp      Direction = "UP"
	DirectionDown    Direction = "DOWN"
	DirectionNeutral Direction = "NEUTRAL"
	DirectionUnknown Direction = "UNKNOWN"
)

// Timing policy action codes.
const (
	TimingHold = 0
	TimingBuy  = 1
	TimingSell = 2
)

// NewsItem is a single headline from the news producer.
type NewsItem struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// OptionQuote is one row of an option chain: strike with call/put open interest.
type OptionQuote struct {
	Strike float64 `json:"strike"`
	CallOI float64 `json:"oi_ce"`
	PutOI  float64 `json:"oi_pe"`
}

// WallData is the option-positioning map derived from a chain: the heaviest
// open-interest strikes on each side, max pain, and the put-call ratio.
type WallData struct {
	CallWall float64 `json:"call_wall"`
	PutWall  float64 `json:"put_wall"`
	MaxPain  float64 `json:"max_pain"`
	PCR      float64 `json:"pcr"`
}

// PivotLevels are the classical daily pivots used for target laddering.
// A zero value means the level is not available.
type PivotLevels struct {
	R1 float64 `json:"r1"`
	R2 float64 `json:"r2"`
	S1 float64 `json:"s1"`
	S2 float64 `json:"s2"`
}

// LeadershipScore is the index-component leadership reading: positive when
// heavyweight components lead the index up, negative when they drag it down.
type LeadershipScore struct {
	Score            float64 `json:"score"`
	Status           string  `json:"status"`
	ConvergenceRatio float64 `json:"convergence_ratio"`
}

// TechnicalContext is the technical step's full output, carried through the
// run for the gates and the exit planner.
type TechnicalContext struct {
	LastPrice      float64     `json:"last_price"`
	Probability    float64     `json:"probability"`
	Conviction     string      `json:"conviction"`
	IsOOD          bool        `json:"is_ood"`
	Regime         Regime      `json:"regime"`
	Confidence     float64     `json:"confidence"`
	CausalStrength float64     `json:"causal_strength"`
	ATR            float64     `json:"atr"`
	Levels         PivotLevels `json:"levels"`
}
