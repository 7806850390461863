package costing

// Warehouse amortization policy constants. The selling horizon is split into
// an initial phase at the full weekly rate and a depletion phase at a reduced
// average occupancy. These are policy, not configuration.
const (
	initialPhaseShare   = 0.3
	depletionPhaseShare = 0.7
	depletionOccupancy  = 0.6
)

// StorageCost amortizes a weekly warehouse fee over the weeks needed to sell
// the stock. The first 30% of the horizon is charged at the full weekly rate
// (goods arriving, selling just starting); the remaining 70% at 60% of the
// rate, modeling declining average inventory as stock depletes.
//
// Non-positive inputs cost nothing. The result is monotonic non-decreasing in
// both arguments.
func StorageCost(weeklyCost, weeksToSell float64) float64 {
	if weeklyCost <= 0 || weeksToSell <= 0 {
		return 0
	}

	initial := initialPhaseShare * weeksToSell * weeklyCost
	depletion := depletionPhaseShare * weeksToSell * weeklyCost * depletionOccupancy

	return initial + depletion
}
