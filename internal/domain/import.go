package domain

import (
	"time"

	"github.com/google/uuid"
)

type ImportFailure struct {
	RowNumber int    `json:"row_number"`
	Reason    string `json:"reason"`
}

type ImportSummary struct {
	TotalRows      int             `json:"total_rows"`
	SuccessfulRows int             `json:"successful_rows"`
	FailedRows     int             `json:"failed_rows"`
	Failures       []ImportFailure `json:"failures"`
}

// ImportRun is the recorded outcome of one completed import call.
type ImportRun struct {
	ID        uuid.UUID
	FileName  string
	Summary   ImportSummary
	CreatedAt time.Time
}
