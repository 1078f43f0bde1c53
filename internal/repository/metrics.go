package repository

import "time"

// QueryObserver receives the duration of every storage call, keyed by a
// stable operation name. A nil observer disables instrumentation.
type QueryObserver interface {
	ObserveDBQuery(operation string, duration time.Duration)
}

func observeQuery(m QueryObserver, operation string, start time.Time) {
	if m != nil {
		m.ObserveDBQuery(operation, time.Since(start))
	}
}
