package domain

// SnapshotDiff represents the changes between two snapshots.
// It is designed to be serialized to JSON for partial updates on the client.
type SnapshotDiff struct {
	// SessionID is always present to identify the target.
	SessionID string `json:"session_id"`

	State *StateID `json:"state,omitempty"`
	Steps *int     `json:"steps,omitempty"`

	// Appended contains the states entered since the old snapshot.
	Appended []StateID `json:"appended,omitempty"`
}

// Diff calculates the difference between oldSnap and newSnap.
// If oldSnap is nil, it returns a diff representing the entire newSnap (initial load).
// It returns nil when nothing changed.
func Diff(oldSnap, newSnap *Snapshot) *SnapshotDiff {
	if newSnap == nil {
		return nil
	}

	diff := &SnapshotDiff{SessionID: newSnap.SessionID}

	if oldSnap == nil || oldSnap.State != newSnap.State {
		state := newSnap.State
		diff.State = &state
	}
	if oldSnap == nil || oldSnap.Steps != newSnap.Steps {
		steps := newSnap.Steps
		diff.Steps = &steps
	}
	diff.Appended = diffHistory(oldSnap, newSnap)

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

// diffHistory assumes append-only history.
func diffHistory(oldSnap, newSnap *Snapshot) []StateID {
	if len(newSnap.History) == 0 {
		return nil
	}
	if oldSnap == nil {
		return append([]StateID(nil), newSnap.History...)
	}
	if len(newSnap.History) > len(oldSnap.History) {
		return append([]StateID(nil), newSnap.History[len(oldSnap.History):]...)
	}
	return nil
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *SnapshotDiff) IsEmpty() bool {
	return d.State == nil && d.Steps == nil && len(d.Appended) == 0
}
