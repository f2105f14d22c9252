package domain

// RunStatus describes where a driver run is in its lifecycle.
type RunStatus string

const (
	// StatusIdle means no run has started yet.
	StatusIdle RunStatus = "idle"
	// StatusRunning means cases are being dispatched.
	StatusRunning RunStatus = "running"
	// StatusDone means the run completed with every case solved.
	StatusDone RunStatus = "done"
	// StatusFailed means the run ended with a format or case error.
	StatusFailed RunStatus = "failed"
)
