package runtime_test

import (
	"testing"

	"github.com/aretw0/moore/internal/runtime"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func outputs(s ...string) []domain.Output {
	out := make([]domain.Output, len(s))
	for i, v := range s {
		out[i] = domain.Output(v)
	}
	return out
}

func TestMachine_Process_Vectors(t *testing.T) {
	tests := []struct {
		input string
		want  []domain.Output
		final domain.StateID
	}{
		{"00110", outputs("A", "A", "A", "B", "B", "B"), domain.StateB},
		{"11001", outputs("A", "B", "B", "B", "A", "B"), domain.StateB},
		{"1010110", outputs("A", "B", "A", "B", "A", "B", "B", "B"), domain.StateB},
		{"101111", outputs("A", "B", "A", "B", "B", "C", "B"), domain.StateB},
		{"", outputs("A"), domain.StateA},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := runtime.New(nil, domain.DefaultStart)
			require.NoError(t, err)

			got, err := m.Process(tt.input, true)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.final, m.Current())
		})
	}
}

func TestMachine_Process_WithoutInitialOutput(t *testing.T) {
	m, err := runtime.New(nil, domain.StateA)
	require.NoError(t, err)

	got, err := m.Process("00110", false)
	require.NoError(t, err)
	assert.Equal(t, outputs("A", "A", "B", "B", "B"), got)

	got, err = m.Process("", false)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestMachine_Process_NoImplicitReset(t *testing.T) {
	m, err := runtime.New(nil, domain.StateA)
	require.NoError(t, err)

	_, err = m.Process("1", true)
	require.NoError(t, err)
	require.Equal(t, domain.StateB, m.Current())

	// The second call starts where the first one stopped.
	got, err := m.Process("1", true)
	require.NoError(t, err)
	assert.Equal(t, outputs("B", "B"), got)
	assert.Equal(t, domain.StateDa, m.Current())
}

func TestMachine_Step_MooreProperty(t *testing.T) {
	m, err := runtime.New(nil, domain.StateB)
	require.NoError(t, err)

	// B on 0 enters Ca, whose output is A (not B, the state left).
	out, err := m.Step('0')
	require.NoError(t, err)
	assert.Equal(t, domain.Output("A"), out)
	assert.Equal(t, domain.StateCa, m.Current())
	assert.Equal(t, out, m.Output())
}

func TestMachine_ResetScenario(t *testing.T) {
	m, err := runtime.New(nil, domain.StateA)
	require.NoError(t, err)

	_, err = m.Process("00110", true)
	require.NoError(t, err)

	require.NoError(t, m.Reset(domain.StateE))
	assert.Equal(t, domain.StateE, m.Current())

	out, err := m.Step('1')
	require.NoError(t, err)
	assert.Equal(t, domain.Output("C"), out)
	assert.Equal(t, domain.StateE, m.Current())
}

func TestMachine_Trace(t *testing.T) {
	m, err := runtime.New(nil, domain.StateA)
	require.NoError(t, err)

	trace, err := m.Trace("110")
	require.NoError(t, err)
	assert.Equal(t, []domain.Transition{
		{From: "A", Symbol: domain.One, To: "B", Output: "B"},
		{From: "B", Symbol: domain.One, To: "Da", Output: "B"},
		{From: "Da", Symbol: domain.Zero, To: "B", Output: "B"},
	}, trace)
}

func TestMachine_CustomTable(t *testing.T) {
	parity := domain.MustTable("parity",
		domain.Row{ID: "even", Output: "E", Next: [domain.NumSymbols]domain.StateID{"even", "odd"}},
		domain.Row{ID: "odd", Output: "O", Next: [domain.NumSymbols]domain.StateID{"odd", "even"}},
	)

	m, err := runtime.New(parity, "even")
	require.NoError(t, err)
	assert.Same(t, parity, m.Table())

	got, err := m.Process("1101", true)
	require.NoError(t, err)
	assert.Equal(t, outputs("E", "O", "E", "E", "O"), got)
}
