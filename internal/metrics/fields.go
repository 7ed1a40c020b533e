package metrics

// Common metric attribute keys to keep telemetry consistent/searchable.
const (
	AttrMethod   = "method"
	AttrPath     = "path"
	AttrStatus   = "status"
	AttrProvider = "provider"
	AttrScope    = "scope"
	AttrOutcome  = "outcome"
	AttrKind     = "kind"
)

// Simulation outcomes recorded per scope.
const (
	OutcomeSuccess        = "success"
	OutcomeSkipped        = "skipped"
	OutcomeRejected       = "rejected"
	OutcomeEngineFailure  = "engine_failure"
	OutcomeRefreshFailure = "refresh_failure"
)
