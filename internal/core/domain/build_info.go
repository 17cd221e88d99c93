package domain

import "time"

// BuildInfo is the persisted signature of the last successful run of a task.
type BuildInfo struct {
	TaskName  string    `json:"task_name,omitzero"`
	Signature string    `json:"signature,omitzero"`
	Outputs   []string  `json:"outputs,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}
