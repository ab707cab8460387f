package runengine

// Snapshot is the retained status/progress/log-tail view spec.md §4.5
// requires for polling clients, derived from a Run record.
type Snapshot struct {
	RunID    string     `json:"run_id"`
	Status   Status     `json:"status"`
	Progress int        `json:"progress"`
	LogTail  []LogEntry `json:"log_tail"`
}

// logTailSize bounds how many trailing log lines a snapshot retains.
const logTailSize = 20

// snapshotOf derives a Snapshot from run, keeping only the most recent
// logTailSize log entries.
func snapshotOf(run Run) Snapshot {
	tail := run.Logs
	if len(tail) > logTailSize {
		tail = tail[len(tail)-logTailSize:]
	}
	return Snapshot{RunID: run.ID, Status: run.Status, Progress: run.Progress, LogTail: tail}
}
