package failures

import "time"

// Stage tells which part of the orchestration failed.
type Stage string

const (
	StageDimension Stage = "dimension"
	StageSynthesis Stage = "synthesis"
)

// Failure is one journaled completion failure. It carries no submitted content.
type Failure struct {
	ID        int64     `json:"id"`
	ReportID  string    `json:"report_id"`
	Stage     Stage     `json:"stage"`
	Dimension string    `json:"dimension,omitempty"`
	Model     string    `json:"model,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}
