package services

// Variant selects which route kind a reconciliation call operates on.
type Variant string

const (
	VariantSchool  Variant = "school"
	VariantStudent Variant = "student"
	VariantTeacher Variant = "teacher"
)

// Strategy selects the dedup policy for a reconciliation call.
//
// StrategyUpsert is the default: each record is matched by composite
// key and either updates the existing row in place or creates a new
// one. StrategyReplace deletes every stored row matching any key in
// the validated batch, then inserts the batch fresh; it is idempotent
// for full-set re-submissions but must not run concurrently with
// itself or with upserts on overlapping keys.
type Strategy string

const (
	StrategyUpsert  Strategy = "upsert"
	StrategyReplace Strategy = "replace"
)

const (
	// DefaultChunkSize bounds how many records share one store
	// transaction.
	DefaultChunkSize = 50

	// DefaultSearchRadius is used when a caller omits the radius.
	DefaultSearchRadius = 5000

	// DefaultTravelMode replaces absent or unrecognized modes.
	DefaultTravelMode = "walking"
)

var validTravelModes = map[string]bool{
	"walking":   true,
	"driving":   true,
	"bicycling": true,
	"transit":   true,
}

// ValidTravelMode reports whether mode is one the directions provider
// accepts.
func ValidTravelMode(mode string) bool {
	return validTravelModes[mode]
}
