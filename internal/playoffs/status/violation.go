package status

// ViolationKind identifies which bracket invariant a record broke.
type ViolationKind string

const (
	ViolationCompletedBelowThreshold ViolationKind = "completed_below_threshold"
	ViolationWinsAboveThreshold      ViolationKind = "wins_above_threshold"
	ViolationBothClinched            ViolationKind = "both_clinched"
	ViolationWinsExceedPlayed        ViolationKind = "wins_exceed_played"
	ViolationClincherWithoutWins     ViolationKind = "clincher_without_wins"
	ViolationEntrantMismatch         ViolationKind = "entrant_mismatch"
)

// Violation is an invariant breach found while resolving data. Resolvers attach
// these to their output instead of failing; callers log them.
type Violation struct {
	SeriesID string        `json:"seriesId"`
	Kind     ViolationKind `json:"kind"`
	Detail   string        `json:"detail"`
}

func newViolation(seriesID string, kind ViolationKind, detail string) Violation {
	return Violation{SeriesID: seriesID, Kind: kind, Detail: detail}
}

// NewViolation builds a violation for checks that live outside this package.
func NewViolation(seriesID string, kind ViolationKind, detail string) Violation {
	return newViolation(seriesID, kind, detail)
}

func (v Violation) String() string {
	return string(v.Kind) + " (" + v.SeriesID + "): " + v.Detail
}
