// Package calculator computes auction profit estimates. Pure arithmetic; the
// HTTP layer gates it on the calculator entitlement.
package calculator

// Simulation is one profit scenario for a vehicle. Money values are in
// centavos; the commission is a percentage of the purchase price.
type Simulation struct {
	PurchasePrice               int64             `json:"purchase_price"`
	AuctioneerCommissionPercent float64           `json:"auctioneer_commission_percent"`
	MaintenanceItems            []MaintenanceItem `json:"maintenance_items"`
	EstimatedSalePrice          int64             `json:"estimated_sale_price"`
}

type MaintenanceItem struct {
	Description string `json:"description"`
	Cost        int64  `json:"cost"`
}

type Result struct {
	TotalMaintenanceCost int64 `json:"total_maintenance_cost"`
	CommissionCost       int64 `json:"commission_cost"`
	TotalVehicleCost     int64 `json:"total_vehicle_cost"`
	ProfitMargin         int64 `json:"profit_margin"`
	// ProfitPercentage is the margin over total cost (return on investment).
	ProfitPercentage float64 `json:"profit_percentage"`
}

// Calculate runs the estimate. A zero-cost simulation yields a zero
// percentage rather than dividing by zero.
func Calculate(sim *Simulation) *Result {
	if sim == nil {
		return &Result{}
	}

	var maintenance int64
	for _, item := range sim.MaintenanceItems {
		maintenance += item.Cost
	}

	commission := int64(float64(sim.PurchasePrice) * sim.AuctioneerCommissionPercent / 100)
	totalCost := sim.PurchasePrice + commission + maintenance
	margin := sim.EstimatedSalePrice - totalCost

	pct := 0.0
	if totalCost > 0 {
		pct = float64(margin) / float64(totalCost) * 100
	}

	return &Result{
		TotalMaintenanceCost: maintenance,
		CommissionCost:       commission,
		TotalVehicleCost:     totalCost,
		ProfitMargin:         margin,
		ProfitPercentage:     pct,
	}
}
