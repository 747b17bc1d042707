package scheduler

import "fmt"

// Stage names the step of the reminder pipeline at which an invoice failed.
type Stage string

const (
	StageQuery      Stage = "query"
	StageTransition Stage = "transition"
	StageGeneration Stage = "generation"
	StageDelivery   Stage = "delivery"
	StageRecord     Stage = "record"
)

// Failure captures one invoice's processing error. Failures are accumulated and
// returned to the caller rather than logged to a fixed stream, so the caller owns
// the alerting policy.
type Failure struct {
	InvoiceID string
	Stage     Stage
	Err       error
}

func (f Failure) Error() string {
	return fmt.Sprintf("invoice %s: %s failed: %v", f.InvoiceID, f.Stage, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Summary is the result of one scheduler tick. A tick with partial failures is
// still a completed tick; there is no single pass/fail signal.
type Summary struct {
	Transitioned int
	Reminded     int
	Failures     []Failure
}
