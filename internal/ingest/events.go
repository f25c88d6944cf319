package ingest

import (
	"context"
	"time"
)

// Event actions emitted over the ingest run stream.
const (
	EventRunStarted   = "run_started"
	EventFileLoaded   = "file_loaded"
	EventRunFinished  = "run_finished"
	EventRunFailed    = "run_failed"
	EventDerivePassed = "derive_finished"
)

// Event is one ingest run lifecycle record.
type Event struct {
	RunID     string    `json:"run_id"`
	Action    string    `json:"action"`
	FileName  string    `json:"file_name,omitempty"`
	Rows      int64     `json:"rows,omitempty"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventPublisher emits ingest run events. Implementations must be safe for
// best-effort use: a failed publish never fails the load.
type EventPublisher interface {
	Emit(ctx context.Context, event Event) error
}

// NopPublisher discards events. Used when no brokers are configured.
type NopPublisher struct{}

func (NopPublisher) Emit(context.Context, Event) error { return nil }
