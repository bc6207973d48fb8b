package orders

// Statistics aggregates bucket counts over the full snapshot. The acceptance
// counts and the fulfillment counts are independent partitions reported
// side by side; they are not mutually exclusive.
type Statistics struct {
	Pending          int `json:"pending"`
	Accepted         int `json:"accepted"`
	Rejected         int `json:"rejected"`
	Processing       int `json:"processing"`
	ReadyForDelivery int `json:"ready_for_delivery"`
	Delivered        int `json:"delivered"`
	Total            int `json:"total"`
}

// ComputeStatistics recounts every bucket from scratch. Always fed the full,
// unfiltered snapshot so the numbers never depend on the active view, and
// never maintained incrementally so missed events cannot cause drift.
func ComputeStatistics(all []Order) Statistics {
	stats := Statistics{Total: len(all)}
	for _, o := range all {
		switch o.Acceptance {
		case AcceptancePending:
			stats.Pending++
		case AcceptanceAccepted:
			stats.Accepted++
		case AcceptanceRejected:
			stats.Rejected++
		}
		switch o.Status {
		case StatusProcessing:
			stats.Processing++
		case StatusReadyForDelivery:
			stats.ReadyForDelivery++
		case StatusDelivered:
			stats.Delivered++
		}
	}
	return stats
}
