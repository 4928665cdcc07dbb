package calc

import (
	"errors"
	"math"
	"testing"
)

func TestPositionSize(t *testing.T) {
	res, err := PositionSize(Input{Price: 100, LossPercent: 5, ProfitPercent: 30, TotalLoss: 2000})
	if err != nil {
		t.Fatalf("PositionSize() error = %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"StopPrice", res.StopPrice, 95},
		{"TargetPrice", res.TargetPrice, 130},
		{"LossPerUnit", res.LossPerUnit, 5},
		{"ProfitPerUnit", res.ProfitPerUnit, 30},
		{"Quantity", res.Quantity, 400},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Fatalf("%s = %g, want %g", c.name, c.got, c.want)
		}
	}
}

func TestPositionSizeZeroLossPercent(t *testing.T) {
	if _, err := PositionSize(Input{Price: 100, TotalLoss: 2000}); !errors.Is(err, ErrZeroLossPercent) {
		t.Fatalf("PositionSize() error = %v, want ErrZeroLossPercent", err)
	}
}
