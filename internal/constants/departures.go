package constants

// Destinations served by the terminal, in display order.
var Destinations = []string{
	"TRONDHEIM",
	"ÅLESUND",
	"MOLDE",
	"FØRDE",
	"HAUGESUND",
	"STAVANGER",
}

// DestinationAll is the "no filter" sentinel for the destination filter.
const DestinationAll = ""

// Departure types as stored (Train, Car, Cart, Module).
const (
	TypeTrain  = "Tog"
	TypeCar    = "Bil"
	TypeCart   = "Tralle"
	TypeModule = "Modul"
)

var DepartureTypes = []string{TypeTrain, TypeCar, TypeCart, TypeModule}

// Stored status values. These differ lexically from the bucket names below.
const (
	StatusDelivered  = "LEVERT"
	StatusWarehouse  = "LAGER"
	StatusPlanned    = "planlaget"
	StatusLoadingNow = "LASTER NÅ"
)

var Statuses = []string{StatusDelivered, StatusWarehouse, StatusPlanned, StatusLoadingNow}

// Status display buckets.
const (
	BucketDelivered = "LEVERT"
	BucketWarehouse = "LAGER"
	BucketPlanned   = "Planlaget"
	BucketLoading   = "LASTER"
)

var StatusBuckets = []string{BucketDelivered, BucketWarehouse, BucketPlanned, BucketLoading}

// StatusBucketOf maps stored status values to display buckets.
var StatusBucketOf = map[string]string{
	StatusDelivered:  BucketDelivered,
	StatusWarehouse:  BucketWarehouse,
	StatusPlanned:    BucketPlanned,
	StatusLoadingNow: BucketLoading,
}

// LegacyStatuses maps labels written by older dashboard versions onto the
// stored values. Applied to imported payloads only.
var LegacyStatuses = map[string]string{
	"Levert":       StatusDelivered,
	"I lager":      StatusWarehouse,
	"Lager":        StatusWarehouse,
	"Planlagt":     StatusPlanned,
	"Planlaget":    StatusPlanned,
	"Underlasting": StatusLoadingNow,
}

// CSVHeader is the fixed header row of the CSV export.
var CSVHeader = []string{"Enhetsnummer", "Destinasjon", "Tid", "Luke", "Type", "Status", "Kommentar"}

// Sort keys accepted by the departures table.
const (
	SortUnitNumber  = "unitNumber"
	SortDestination = "destination"
	SortTime        = "time"
	SortGate        = "gate"
	SortType        = "type"
	SortStatus      = "status"
	SortComment     = "comment"
)

var SortKeys = []string{SortUnitNumber, SortDestination, SortTime, SortGate, SortType, SortStatus, SortComment}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func IsDestination(v string) bool   { return contains(Destinations, v) }
func IsDepartureType(v string) bool { return contains(DepartureTypes, v) }
func IsStatus(v string) bool        { return contains(Statuses, v) }
func IsSortKey(v string) bool       { return contains(SortKeys, v) }
