package domain

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func TestDiff(t *testing.T) {
	tests := []struct {
		name     string
		old      *Snapshot
		new      *Snapshot
		wantDiff *SnapshotDiff // nil means we expect no diff
	}{
		{
			name: "Initial Load (Old is Nil)",
			old:  nil,
			new: &Snapshot{
				SessionID: "sess-1",
				State:     StateA,
				History:   []StateID{StateA},
			},
			wantDiff: &SnapshotDiff{
				SessionID: "sess-1",
				State:     ptr(StateA),
				Steps:     ptr(0),
				Appended:  []StateID{StateA},
			},
		},
		{
			name: "No Changes",
			old: &Snapshot{
				SessionID: "sess-1",
				State:     StateB,
				Steps:     1,
				History:   []StateID{StateA, StateB},
			},
			new: &Snapshot{
				SessionID: "sess-1",
				State:     StateB,
				Steps:     1,
				History:   []StateID{StateA, StateB},
			},
			wantDiff: nil,
		},
		{
			name: "Steps Appended",
			old: &Snapshot{
				SessionID: "sess-1",
				State:     StateB,
				Steps:     1,
				History:   []StateID{StateA, StateB},
			},
			new: &Snapshot{
				SessionID: "sess-1",
				State:     StateCb,
				Steps:     3,
				History:   []StateID{StateA, StateB, StateDa, StateCb},
			},
			wantDiff: &SnapshotDiff{
				SessionID: "sess-1",
				State:     ptr(StateCb),
				Steps:     ptr(3),
				Appended:  []StateID{StateDa, StateCb},
			},
		},
		{
			name: "Self Loop Only Bumps Steps",
			old: &Snapshot{
				SessionID: "sess-1",
				State:     StateA,
				History:   []StateID{StateA},
			},
			new: &Snapshot{
				SessionID: "sess-1",
				State:     StateA,
				Steps:     1,
				History:   []StateID{StateA, StateA},
			},
			wantDiff: &SnapshotDiff{
				SessionID: "sess-1",
				Steps:     ptr(1),
				Appended:  []StateID{StateA},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Diff(tt.old, tt.new)
			if tt.wantDiff == nil {
				if got != nil {
					t.Errorf("Diff() = %+v, want nil", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("Diff() = nil, want %+v", tt.wantDiff)
			}
			if got.SessionID != tt.wantDiff.SessionID {
				t.Errorf("Diff().SessionID = %v, want %v", got.SessionID, tt.wantDiff.SessionID)
			}
			if !equalPtr(got.State, tt.wantDiff.State) {
				t.Errorf("Diff().State = %v, want %v", got.State, tt.wantDiff.State)
			}
			if !equalPtr(got.Steps, tt.wantDiff.Steps) {
				t.Errorf("Diff().Steps = %v, want %v", got.Steps, tt.wantDiff.Steps)
			}
			if !reflect.DeepEqual(got.Appended, tt.wantDiff.Appended) {
				t.Errorf("Diff().Appended = %v, want %v", got.Appended, tt.wantDiff.Appended)
			}
		})
	}
}

func TestDiffJSONSerialization(t *testing.T) {
	old := &Snapshot{SessionID: "s", State: StateA, History: []StateID{StateA}}
	next := &Snapshot{SessionID: "s", State: StateA, Steps: 1, History: []StateID{StateA, StateA}}

	bytes, err := json.Marshal(Diff(old, next))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(bytes), `"state"`) {
		t.Errorf("JSON should not contain 'state' when unchanged, got: %s", bytes)
	}
	if !strings.Contains(string(bytes), `"steps":1`) {
		t.Errorf("JSON should contain steps, got: %s", bytes)
	}
}

func ptr[T any](v T) *T { return &v }

func equalPtr[T comparable](a, b *T) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
