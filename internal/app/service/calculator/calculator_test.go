package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculate(t *testing.T) {
	tests := []struct {
		name string
		sim  *Simulation
		want Result
	}{
		{
			name: "nil simulation",
			sim:  nil,
			want: Result{},
		},
		{
			name: "zero everything keeps percentage at zero",
			sim:  &Simulation{},
			want: Result{},
		},
		{
			name: "profitable flip",
			sim: &Simulation{
				PurchasePrice:               3000000, // R$ 30.000,00
				AuctioneerCommissionPercent: 5,
				MaintenanceItems: []MaintenanceItem{
					{Description: "Funilaria", Cost: 200000},
					{Description: "Pneus", Cost: 150000},
				},
				EstimatedSalePrice: 4200000,
			},
			want: Result{
				TotalMaintenanceCost: 350000,
				CommissionCost:       150000,
				TotalVehicleCost:     3500000,
				ProfitMargin:         700000,
				ProfitPercentage:     20,
			},
		},
		{
			name: "loss yields a negative margin and percentage",
			sim: &Simulation{
				PurchasePrice:               1000000,
				AuctioneerCommissionPercent: 10,
				EstimatedSalePrice:          990000,
			},
			want: Result{
				CommissionCost:   100000,
				TotalVehicleCost: 1100000,
				ProfitMargin:     -110000,
				ProfitPercentage: -10,
			},
		},
		{
			name: "no commission",
			sim: &Simulation{
				PurchasePrice:      500000,
				EstimatedSalePrice: 600000,
			},
			want: Result{
				TotalVehicleCost: 500000,
				ProfitMargin:     100000,
				ProfitPercentage: 20,
			},
		},
		{
			name: "fractional commission truncates to whole centavos",
			sim: &Simulation{
				PurchasePrice:               99999,
				AuctioneerCommissionPercent: 5,
				EstimatedSalePrice:          120000,
			},
			want: Result{
				CommissionCost:   4999,
				TotalVehicleCost: 104998,
				ProfitMargin:     15002,
				ProfitPercentage: float64(15002) / float64(104998) * 100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Calculate(tt.sim)
			assert.Equal(t, tt.want.TotalMaintenanceCost, got.TotalMaintenanceCost)
			assert.Equal(t, tt.want.CommissionCost, got.CommissionCost)
			assert.Equal(t, tt.want.TotalVehicleCost, got.TotalVehicleCost)
			assert.Equal(t, tt.want.ProfitMargin, got.ProfitMargin)
			assert.InDelta(t, tt.want.ProfitPercentage, got.ProfitPercentage, 1e-9)
		})
	}
}
