// Package runengine implements the run controller: the state machine that
// wraps Orchestrator calls, Spec Store writes, and the Compiler/Planner/
// Executor pipeline behind approval gates and event emission (spec.md
// §4.5).
package runengine

import (
	"time"

	"modcraft/internal/specstore"
)

// Status enumerates a Run's position in the state machine (spec.md §4.5).
type Status string

const (
	StatusQueued            Status = "QUEUED"
	StatusRunning           Status = "RUNNING"
	StatusAwaitingInput     Status = "AWAITING_INPUT"
	StatusAwaitingApproval  Status = "AWAITING_APPROVAL"
	StatusSucceeded         Status = "SUCCEEDED"
	StatusFailed            Status = "FAILED"
	StatusCanceled          Status = "CANCELED"
	StatusRejected          Status = "REJECTED"
)

// Terminal reports whether s is one of the four terminal states.
func (s Status) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusCanceled, StatusRejected:
		return true
	default:
		return false
	}
}

// Type distinguishes a generate run (proposes spec deltas, gated on
// approval) from a build run (compiles and executes, no gate).
type Type string

const (
	TypeGenerate Type = "generate"
	TypeBuild    Type = "build"
)

// LogEntry is one line of a run's retained log tail (spec.md §4.5).
type LogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Phase     string    `json:"phase"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Artifact is one build output registered on a successful build run.
type Artifact struct {
	ID           string
	FileName     string
	ArtifactType string
	FileSize     int64
	Path         string
}

// Run is one end-to-end invocation of the generate or build pipeline for
// a workspace.
type Run struct {
	ID                  string
	WorkspaceID         string
	Type                Type
	Status              Status
	Progress            int
	Logs                []LogEntry
	Prompt              string
	PendingDeltas       []specstore.SpecDelta
	ClarifyingQuestions []string
	Reasoning           string
	Artifacts           []Artifact
	FailureReason       string
	RejectReason        string
	StartedAt           time.Time
	FinishedAt          time.Time
}
