package constants

// RunStatus is the canonical status for rows in the runs table.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning RunStatus = "RUNNING" // sources still being processed
	RunStatusOK      RunStatus = "OK"      // every source parsed
	RunStatusPartial RunStatus = "PARTIAL" // continue-on-error run with failures
	RunStatusFailed  RunStatus = "FAILED"  // terminal failure
)
