// Package eventbus implements the per-run, append-only, replayable event
// log the Run controller publishes to and SSE subscribers read from
// (spec.md §4.6, §6).
package eventbus

import "time"

// Event is one record in a run's event log. Seq is strictly increasing
// per run, starting at 1, with no gaps.
type Event struct {
	Seq       int            `json:"seq"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

// Event types and their payload contracts (spec.md §6).
const (
	TypeRunStatus           = "run.status"            // {status}
	TypeRunProgress         = "run.progress"           // {progress}
	TypeLogAppend           = "log.append"             // {message, level, phase}
	TypeSpecPreview         = "spec.preview"           // {delta, delta_index, total_deltas}
	TypeSpecSaved           = "spec.saved"             // {spec_version, items_count, blocks_count, tools_count}
	TypeRunAwaitingApproval = "run.awaiting_approval"  // {pending_deltas, deltas_count}
	TypeRunAwaitingInput    = "run.awaiting_input"     // {clarifying_questions, reasoning}
	TypeArtifactCreated     = "artifact.created"       // {artifact_id, file_name, artifact_type, file_size}
	TypeTaskStarted         = "task.started"           // {task_id, kind}
	TypeTaskFinished        = "task.finished"          // {task_id, kind, duration_ms}
	TypeError               = "error"                  // {message, phase, cause}
)
