package workflow

import (
	"strings"

	"TradeCore/internal/domain/models"
)

// Snapshot is the accumulated state of one analysis run. It is created at
// the start of a run, merged incrementally as steps return partial updates,
// and discarded when the run ends.
type Snapshot struct {
	Symbol     string
	Positions  []models.Position
	Aggressive bool

	News           []models.NewsItem
	SentimentLabel string
	SentimentScore float64

	TechnicalDirection models.Direction
	Technical          models.TechnicalContext
	Regime             models.Regime
	Confidence         float64
	Leadership         models.LeadershipScore

	TemporalDirection models.Direction
	TimingAction      int

	PCR   float64
	Walls *models.WallData

	RiskApproved bool

	Decision    *models.DecisionRecord
	ExitSignals []models.ExitRecommendation

	analysis []string
}

// NewSnapshot builds the initial state for a run with all neutral defaults.
func NewSnapshot(symbol string, positions []models.Position, aggressive bool) Snapshot {
	return Snapshot{
		Symbol:             symbol,
		Positions:          positions,
		Aggressive:         aggressive,
		SentimentLabel:     "NEUTRAL",
		TechnicalDirection: models.DirectionUnknown,
		TemporalDirection:  models.DirectionNeutral,
		TimingAction:       models.TimingHold,
		Regime:             models.RegimeNominal,
		PCR:                1.0,
	}
}

// Analysis returns the run narrative, concatenated in declared node order.
func (s *Snapshot) Analysis() string {
	return strings.Join(s.analysis, " ")
}

// Update is a step's partial contribution to the snapshot. Every field except
// Narrative has exactly one writer in the graph and overwrites; Narrative
// entries from different steps concatenate in declared node order.
type Update struct {
	Narrative string

	News           []models.NewsItem
	SentimentLabel *string
	SentimentScore *float64

	TechnicalDirection *models.Direction
	Technical          *models.TechnicalContext
	Regime             *models.Regime
	Confidence         *float64
	Leadership         *models.LeadershipScore

	TemporalDirection *models.Direction
	TimingAction      *int

	PCR   *float64
	Walls *models.WallData

	RiskApproved *bool

	Decision    *models.DecisionRecord
	ExitSignals []models.ExitRecommendation
}

// apply merges one update into the snapshot. The caller guarantees that
// updates are applied in declared node order, which makes narrative
// concatenation deterministic regardless of execution interleaving.
func (s *Snapshot) apply(u Update) {
	if u.Narrative != "" {
		s.analysis = append(append([]string(nil), s.analysis...), u.Narrative)
	}
	if u.News != nil {
		s.News = u.News
	}
	if u.SentimentLabel != nil {
		s.SentimentLabel = *u.SentimentLabel
	}
	if u.SentimentScore != nil {
		s.SentimentScore = *u.SentimentScore
	}
	if u.TechnicalDirection != nil {
		s.TechnicalDirection = *u.TechnicalDirection
	}
	if u.Technical != nil {
		s.Technical = *u.Technical
	}
	if u.Regime != nil {
		s.Regime = *u.Regime
	}
	if u.Confidence != nil {
		s.Confidence = *u.Confidence
	}
	if u.Leadership != nil {
		s.Leadership = *u.Leadership
	}
	if u.TemporalDirection != nil {
		s.TemporalDirection = *u.TemporalDirection
	}
	if u.TimingAction != nil {
		s.TimingAction = *u.TimingAction
	}
	if u.PCR != nil {
		s.PCR = *u.PCR
	}
	if u.Walls != nil {
		s.Walls = u.Walls
	}
	if u.RiskApproved != nil {
		s.RiskApproved = *u.RiskApproved
	}
	if u.Decision != nil {
		s.Decision = u.Decision
	}
	if u.ExitSignals != nil {
		s.ExitSignals = u.ExitSignals
	}
}

func ptr[T any](v T) *T {
	return &v
}
