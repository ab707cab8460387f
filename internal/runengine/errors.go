package runengine

import "fmt"

// RunInProgressError reports a trigger rejected because the workspace
// already has a non-terminal run (spec.md §4.5: at most one non-terminal
// run per workspace).
type RunInProgressError struct {
	WorkspaceID string
	ActiveRunID string
}

func (e *RunInProgressError) Error() string {
	return fmt.Sprintf("runengine: workspace %q already has run %q in progress", e.WorkspaceID, e.ActiveRunID)
}

// InvalidTransitionError reports a command rejected because the run is
// not in a state that accepts it (spec.md §4.5: cancel only in RUNNING,
// approve/reject only in AWAITING_APPROVAL).
type InvalidTransitionError struct {
	RunID   string
	Status  Status
	Command string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("runengine: run %q in status %s does not accept %s", e.RunID, e.Status, e.Command)
}

// NotFoundError reports a reference to an unknown run.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("runengine: run %q not found", e.RunID)
}
