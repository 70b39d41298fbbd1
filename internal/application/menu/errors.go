package menu

import "fmt"

// PersistAfterSyncError reports that the remote catalog accepted a push
// but the matching local write failed afterward. Local and remote state
// have diverged; the snapshot keeps serving the last consistent view
// and the condition needs operator attention.
type PersistAfterSyncError struct {
	Entity string
	Cause  error
}

func (e *PersistAfterSyncError) Error() string {
	return fmt.Sprintf("catalog desync: remote sync succeeded but persisting %s failed: %v", e.Entity, e.Cause)
}

func (e *PersistAfterSyncError) Unwrap() error {
	return e.Cause
}
