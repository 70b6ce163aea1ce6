package strategy

import (
	"math"
	"testing"

	"TradeCore/internal/domain/models"
)

func TestConvergenceFullBullishAgreement(t *testing.T) {
	res := Convergence(ConvergenceInput{
		Technical:      models.DirectionUp,
		Temporal:       models.DirectionUp,
		TimingAction:   models.TimingBuy,
		SentimentScore: 0.8,
		PCR:            0.7,
	})

	// 0.40 + 0.20 + 0.15 + 0.8*0.15 + 0.10
	if math.Abs(res.Score-0.97) > 1e-9 {
		t.Fatalf("score = %v, want 0.97", res.Score)
	}
}

func TestConvergenceFullBearishAgreement(t *testing.T) {
	res := Convergence(ConvergenceInput{
		Technical:      models.DirectionDown,
		Temporal:       models.DirectionDown,
		TimingAction:   models.TimingSell,
		SentimentScore: -0.8,
		PCR:            1.3,
	})

	if math.Abs(res.Score+0.97) > 1e-9 {
		t.Fatalf("score = %v, want -0.97", res.Score)
	}
}

func TestConvergenceNeutralInputs(t *testing.T) {
	res := Convergence(ConvergenceInput{
		Technical:      models.DirectionNeutral,
		Temporal:       models.DirectionNeutral,
		TimingAction:   models.TimingHold,
		SentimentScore: 0,
		PCR:            1.0,
	})

	if res.Score != 0 {
		t.Fatalf("score = %v, want 0", res.Score)
	}
}

func TestConvergencePCRBand(t *testing.T) {
	cases := []struct {
		pcr  float64
		want float64
	}{
		{0.7, 0.10},  // bullish positioning
		{0.85, 0},    // boundary, no bias
		{1.0, 0},     // neutral band
		{1.15, 0},    // boundary, no bias
		{1.3, -0.10}, // bearish positioning
		{0, 0},       // missing data
	}
	for _, c := range cases {
		res := Convergence(ConvergenceInput{PCR: c.pcr})
		if math.Abs(res.Breakdown["options"]-c.want) > 1e-9 {
			t.Fatalf("pcr=%v: options contribution = %v, want %v", c.pcr, res.Breakdown["options"], c.want)
		}
	}
}

func TestConvergenceBreakdownSumsToScore(t *testing.T) {
	res := Convergence(ConvergenceInput{
		Technical:      models.DirectionUp,
		Temporal:       models.DirectionDown,
		TimingAction:   models.TimingBuy,
		SentimentScore: -0.4,
		PCR:            1.2,
	})

	sum := 0.0
	for _, v := range res.Breakdown {
		sum += v
	}
	if math.Abs(sum-res.Score) > 1e-9 {
		t.Fatalf("breakdown sum %v != score %v", sum, res.Score)
	}
}

func TestConvergenceUnknownTechnicalContributesNothing(t *testing.T) {
	res := Convergence(ConvergenceInput{Technical: models.DirectionUnknown})
	if res.Breakdown["technical"] != 0 {
		t.Fatalf("technical contribution = %v, want 0", res.Breakdown["technical"])
	}
}
