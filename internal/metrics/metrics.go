// Package metrics provides lightweight hooks for instrumentation.
package metrics

// Login outcomes.
const (
	LoginSuccess = "success"
	LoginFailed  = "failed"
)

// Authentication rejection reasons.
const (
	ReasonMissingToken = "missing_token"
	ReasonExpired      = "expired"
	ReasonInvalidToken = "invalid_token"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Account metrics
	IncUserRegistered()
	IncLogin(status string) // status: "success" or "failed"
	IncAuthRejected(reason string)

	// Todo metrics
	IncTodoCreated()
	IncTodoUpdated()
	IncTodoDeleted()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
