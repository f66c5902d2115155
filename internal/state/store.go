// Package state records processdata run history in a SQLite database.
//
// The state database is separate from the output database so the output only ever
// holds the cleaned table.
package state

import "time"

// RunStatus is the lifecycle state of a run.
type RunStatus string

// Run statuses.
const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// Run is one invocation of the pipeline.
type Run struct {
	ID             string
	MessagesPath   string
	CategoriesPath string
	DatabasePath   string
	Target         string
	Table          string
	Status         RunStatus
	MergedRows     int
	Rows           int
	StartedAt      time.Time
	CompletedAt    *time.Time
	Error          string
}

// Outcome is what a finished run reports back.
type Outcome struct {
	Status     RunStatus
	MergedRows int
	Rows       int
	Error      string
}
