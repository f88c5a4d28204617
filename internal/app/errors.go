package service

import "errors"

var (
	// ErrNotStarted indicates a call before Start.
	ErrNotStarted = errors.New("service not started")
	// ErrUnknownMetric indicates a metric name outside the registry.
	ErrUnknownMetric = errors.New("unknown metric")
)
