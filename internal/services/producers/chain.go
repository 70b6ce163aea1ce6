package producers

import (
	"errors"
	"math"

	"TradeCore/internal/domain/models"
	domsvc "TradeCore/internal/domain/service"
)

var ErrEmptyChain = errors.New("option chain empty")

// ChainAnalyzer derives dealer-positioning structure from a raw option chain:
// the call and put walls (peak open interest on each side), the max-pain
// strike, and the put/call ratio.
type ChainAnalyzer struct{}

func NewChainAnalyzer() *ChainAnalyzer { return &ChainAnalyzer{} }

func (a *ChainAnalyzer) Analyze(rows []models.OptionQuote, spot float64) (models.WallData, error) {
	if len(rows) == 0 {
		return models.WallData{}, ErrEmptyChain
	}

	var (
		callWall, putWall       float64
		maxCallOI, maxPutOI     float64
		totalCallOI, totalPutOI float64
	)
	for _, r := range rows {
		totalCallOI += r.CallOI
		totalPutOI += r.PutOI
		if r.CallOI > maxCallOI {
			maxCallOI = r.CallOI
			callWall = r.Strike
		}
		if r.PutOI > maxPutOI {
			maxPutOI = r.PutOI
			putWall = r.Strike
		}
	}

	pcr := 1.0
	if totalCallOI > 0 {
		pcr = totalPutOI / totalCallOI
	}

	return models.WallData{
		CallWall: callWall,
		PutWall:  putWall,
		MaxPain:  maxPain(rows),
		PCR:      pcr,
	}, nil
}

// maxPain finds the expiry price that minimizes the total intrinsic payout
// across all open contracts. Option writers tend to defend this level.
func maxPain(rows []models.OptionQuote) float64 {
	best := 0.0
	bestPain := math.MaxFloat64
	for _, candidate := range rows {
		pain := 0.0
		for _, r := range rows {
			if candidate.Strike > r.Strike {
				pain += r.CallOI * (candidate.Strike - r.Strike)
			}
			if candidate.Strike < r.Strike {
				pain += r.PutOI * (r.Strike - candidate.Strike)
			}
		}
		if pain < bestPain {
			bestPain = pain
			best = candidate.Strike
		}
	}
	return best
}

var _ domsvc.ChainAnalyzer = (*ChainAnalyzer)(nil)
