package domain

import "time"

// CycleResult summarises one polling cycle. Err is nil on success and holds
// the reason the cycle stopped otherwise.
type CycleResult struct {
	RunID     string
	StartedAt time.Time
	Duration  time.Duration
	Fetched   int // certificates returned by the monitoring service
	Created   int // observables accepted by the platform
	Rejected  int // observables the platform answered with GraphQL errors
	Err       error
}

func (r CycleResult) OK() bool {
	return r.Err == nil
}

// Processed is the number of certificates that reached the platform.
func (r CycleResult) Processed() int {
	return r.Created + r.Rejected
}
