// Package calc implements the position-sizing calculator. It is a pure
// computation with no persisted state.
package calc

import "errors"

var ErrZeroLossPercent = errors.New("loss percent must be non-zero")

type Input struct {
	Price         float64 `json:"price"`
	LossPercent   float64 `json:"loss_percent"`
	ProfitPercent float64 `json:"profit_percent"`
	TotalLoss     float64 `json:"total_loss"`
}

type Result struct {
	StopPrice     float64 `json:"stop_price"`
	TargetPrice   float64 `json:"target_price"`
	LossPerUnit   float64 `json:"loss_per_unit"`
	ProfitPerUnit float64 `json:"profit_per_unit"`
	Quantity      float64 `json:"quantity"`
}

// PositionSize derives stop and target prices from the entry price and the
// loss/profit percentages, then sizes the position so the stop-out costs at
// most the total loss budget.
func PositionSize(in Input) (Result, error) {
	if in.LossPercent == 0 {
		return Result{}, ErrZeroLossPercent
	}
	stop := in.Price * (1 - in.LossPercent/100)
	target := in.Price * (1 + in.ProfitPercent/100)
	lossPerUnit := in.Price - stop
	profitPerUnit := target - in.Price
	return Result{
		StopPrice:     stop,
		TargetPrice:   target,
		LossPerUnit:   lossPerUnit,
		ProfitPerUnit: profitPerUnit,
		Quantity:      in.TotalLoss / lossPerUnit,
	}, nil
}
