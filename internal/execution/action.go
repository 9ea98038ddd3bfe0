package execution

import "github.com/google/uuid"

func NewSubmissionID() string {
	return "sub_" + uuid.NewString()
}

func NewRunID() string {
	return "run_" + uuid.NewString()
}
