package costing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStorageCost(t *testing.T) {
	tests := []struct {
		name        string
		weeklyCost  float64
		weeksToSell float64
		want        float64
	}{
		{"zero weekly cost", 0, 6, 0},
		{"zero weeks", 150, 0, 0},
		{"negative weekly cost", -10, 6, 0},
		{"negative weeks", 150, -1, 0},
		{"historical scenario", 150, 6, 648}, // 0.3*6*150 + 0.7*6*150*0.6
		{"single week", 100, 1, 72},
		{"fractional horizon", 80, 2.5, 144},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := StorageCost(tt.weeklyCost, tt.weeksToSell)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestStorageCost_Monotonic(t *testing.T) {
	weekly := 120.0

	prev := 0.0
	for weeks := 0.5; weeks <= 52; weeks += 0.5 {
		cost := StorageCost(weekly, weeks)
		assert.GreaterOrEqual(t, cost, prev, "cost must not decrease as the horizon grows (weeks=%v)", weeks)
		prev = cost
	}

	prevRate := 0.0
	for rate := 10.0; rate <= 500; rate += 10 {
		cost := StorageCost(rate, 8)
		assert.GreaterOrEqual(t, cost, prevRate, "cost must not decrease as the weekly rate grows (rate=%v)", rate)
		prevRate = cost
	}
}
