package services

import (
	"transportsystem/avganger/internal/constants"
	"transportsystem/avganger/internal/models/entities"
)

// Statistics summarizes a collection for the dashboard counters.
type Statistics struct {
	Total         int            `json:"total"`
	ByDestination map[string]int `json:"byDestination"`
	ByStatus      map[string]int `json:"byStatus"`
	ByType        map[string]int `json:"byType"`
}

// Aggregate counts records per destination, status bucket and type. Every
// record lands in exactly one status bucket; unknown statuses count as
// planned.
func Aggregate(records []entities.Departure) Statistics {
	stats := Statistics{
		Total:         len(records),
		ByDestination: make(map[string]int, len(constants.Destinations)),
		ByStatus:      make(map[string]int, len(constants.StatusBuckets)),
		ByType:        make(map[string]int, len(constants.DepartureTypes)),
	}
	for _, dest := range constants.Destinations {
		stats.ByDestination[dest] = 0
	}
	for _, bucket := range constants.StatusBuckets {
		stats.ByStatus[bucket] = 0
	}
	for _, t := range constants.DepartureTypes {
		stats.ByType[t] = 0
	}

	for _, d := range records {
		if _, ok := stats.ByDestination[d.Destination]; ok {
			stats.ByDestination[d.Destination]++
		}
		if _, ok := stats.ByType[d.Type]; ok {
			stats.ByType[d.Type]++
		}

		bucket, ok := constants.StatusBucketOf[d.Status]
		if !ok {
			bucket = constants.BucketPlanned
		}
		stats.ByStatus[bucket]++
	}
	return stats
}
