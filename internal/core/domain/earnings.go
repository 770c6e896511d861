package domain

// ViewsPerMille is the view count a CPM rate is quoted for.
const ViewsPerMille = 1000.0

// FixedEarnings returns the proposed rate when the creator negotiated one,
// otherwise the campaign's fixed price. A missing price yields zero.
func FixedEarnings(proposedRate, fixedPrice *float64) float64 {
	if proposedRate != nil {
		return *proposedRate
	}
	if fixedPrice != nil {
		return *fixedPrice
	}
	return 0
}

// CPMEarnings returns (views / 1000) * rate. No rounding is applied; display
// formatting belongs to the caller.
func CPMEarnings(views int64, cpmRate *float64) float64 {
	if cpmRate == nil || views <= 0 {
		return 0
	}
	return float64(views) / ViewsPerMille * *cpmRate
}
