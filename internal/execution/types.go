package execution

import (
	"encoding/json"
	"time"
)

// Transaction is one on-chain action ready for submission. Data holds the
// payload fields keyed exactly as the contract action expects them.
type Transaction struct {
	Contract string
	Action   string
	Data     map[string]any
}

// Result is the outcome of one external tool invocation.
type Result struct {
	Stdout     []byte
	Stderr     []byte
	ExitStatus int
}

type SubmissionStatus string

const (
	SubmissionStatusPlanned   SubmissionStatus = "planned"
	SubmissionStatusRunning   SubmissionStatus = "running"
	SubmissionStatusCompleted SubmissionStatus = "completed"
	SubmissionStatusFailed    SubmissionStatus = "failed"
)

// Submission is the journal record of a dispatched transaction.
type Submission struct {
	SubmissionID string           `json:"submission_id"`
	RunID        string           `json:"run_id"`
	Contract     string           `json:"contract"`
	Action       string           `json:"action"`
	Payload      json.RawMessage  `json:"payload"`
	Status       SubmissionStatus `json:"status"`
	ExitStatus   int              `json:"exit_status"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    string           `json:"created_at"`
	UpdatedAt    string           `json:"updated_at"`
}

func NewSubmission(runID string, tx Transaction, payload []byte) Submission {
	now := time.Now().UTC().Format(time.RFC3339)
	return Submission{
		SubmissionID: NewSubmissionID(),
		RunID:        runID,
		Contract:     tx.Contract,
		Action:       tx.Action,
		Payload:      json.RawMessage(payload),
		Status:       SubmissionStatusPlanned,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func (s *Submission) Touch() {
	s.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}
