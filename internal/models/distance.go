package models

import "encoding/json"

// DistanceMethod records which routing source produced a distance.
type DistanceMethod string

const (
	MethodMotorcycleRoute   DistanceMethod = "MOTORCYCLE_ROUTE"
	MethodCarRoute          DistanceMethod = "CAR_ROUTE"
	MethodAdjustedHaversine DistanceMethod = "ADJUSTED_HAVERSINE"
	MethodRawHaversine      DistanceMethod = "RAW_HAVERSINE"
)

// Rank orders methods from most (0) to least accurate. Unknown methods rank last.
func (m DistanceMethod) Rank() int {
	switch m {
	case MethodMotorcycleRoute:
		return 0
	case MethodCarRoute:
		return 1
	case MethodAdjustedHaversine:
		return 2
	case MethodRawHaversine:
		return 3
	default:
		return 4
	}
}

// IsRouted reports whether the distance came from a road router.
func (m DistanceMethod) IsRouted() bool {
	return m == MethodMotorcycleRoute || m == MethodCarRoute
}

// DistanceResult is the travel distance between origin and destination.
type DistanceResult struct {
	Km              float64         `json:"km"`
	Method          DistanceMethod  `json:"method"`
	DurationSeconds int             `json:"durationSeconds,omitempty"`
	Raw             json.RawMessage `json:"-"`
}
