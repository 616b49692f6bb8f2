package domain

import "time"

// Snapshot is the persisted form of a machine bound to a session.
type Snapshot struct {
	SessionID string `json:"session_id"`

	// Table names the transition table the session runs on.
	Table string `json:"table"`

	// State is the current state identifier.
	State StateID `json:"state"`

	// Steps counts the symbols consumed since the session was created.
	Steps int `json:"steps"`

	// History is the sequence of states entered, starting with the initial one.
	// A reset appends the state it moves to.
	History []StateID `json:"history,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`
}

// NewSnapshot creates a clean snapshot positioned at start.
func NewSnapshot(sessionID, table string, start StateID) *Snapshot {
	return &Snapshot{
		SessionID: sessionID,
		Table:     table,
		State:     start,
		History:   []StateID{start},
		UpdatedAt: time.Now().UTC(),
	}
}

// Clone returns a deep copy, safe to mutate independently.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	c := *s
	c.History = append([]StateID(nil), s.History...)
	return &c
}
