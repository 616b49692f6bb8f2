package definition_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/moore/pkg/definition"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const parity = `
name: parity
start: even
states:
  - id: even
    output: 0
    next: {0: even, 1: odd}
  - id: odd
    output: 1
    next:
      "0": odd
      "1": even
`

func TestLoad_Parity(t *testing.T) {
	table, spec, err := definition.Load([]byte(parity))
	require.NoError(t, err)

	assert.Equal(t, "parity", table.Name())
	assert.Equal(t, domain.StateID("even"), spec.StartState())

	odd, ok := table.Row("odd")
	require.True(t, ok)
	assert.Equal(t, domain.Output("1"), odd.Output)
	assert.Equal(t, domain.StateID("even"), odd.Next[domain.One])
}

func TestEncode_RoundTripsReference(t *testing.T) {
	data, err := definition.Encode(domain.Reference(), domain.DefaultStart)
	require.NoError(t, err)

	table, spec, err := definition.Load(data)
	require.NoError(t, err)
	assert.Equal(t, domain.Reference().Rows(), table.Rows())
	assert.Equal(t, domain.DefaultStart, spec.StartState())
}

func TestLoad_Errors(t *testing.T) {
	cases := []struct {
		name     string
		doc      string
		contains string
	}{
		{
			name:     "missing successor",
			doc:      "name: x\nstates:\n  - id: a\n    output: a\n    next: {0: a}\n",
			contains: "no successor defined for symbol 1",
		},
		{
			name:     "unknown symbol key",
			doc:      "name: x\nstates:\n  - id: a\n    output: a\n    next: {0: a, 1: a, 2: a}\n",
			contains: `successor key "2"`,
		},
		{
			name:     "dangling successor",
			doc:      "name: x\nstates:\n  - id: a\n    output: a\n    next: {0: a, 1: b}\n",
			contains: `unknown state "b"`,
		},
		{
			name:     "unknown start",
			doc:      "name: x\nstart: z\nstates:\n  - id: a\n    output: a\n    next: {0: a, 1: a}\n",
			contains: `start state "z"`,
		},
		{
			name:     "no states",
			doc:      "name: x\nstates: []\n",
			contains: "no states defined",
		},
		{
			name:     "empty document",
			doc:      "",
			contains: "empty definition",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := definition.Load([]byte(tc.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidTable)
			assert.Contains(t, err.Error(), tc.contains)
		})
	}
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := definition.Parse([]byte("name: x\ncolour: blue\nstates: []\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := definition.Parse([]byte("states: [unterminated"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse yaml")
}

func TestFileLoader_Contract(t *testing.T) {
	data, err := definition.Encode(domain.Reference(), domain.DefaultStart)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "reference.yaml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	tests.TableLoaderContractTest(t, definition.NewFileLoader(path), domain.Reference())
}

func TestFileLoader_MissingFile(t *testing.T) {
	loader := definition.NewFileLoader(filepath.Join(t.TempDir(), "nope.yaml"))
	_, err := loader.Load(context.Background())
	assert.Error(t, err)
}

func TestLoad_UnnamedDefinition(t *testing.T) {
	const doc = "states: [{id: A, output: X, next: {0: A, 1: A}}]\n"

	table, _, err := definition.Load([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, definition.DefaultName, table.Name())

	path := filepath.Join(t.TempDir(), "blinker.yml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	table, spec, err := definition.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "blinker", table.Name())
	assert.Equal(t, "blinker", spec.Name)
}

func TestLoad_ReferenceNameIsReserved(t *testing.T) {
	_, _, err := definition.Load([]byte("name: reference\nstates: [{id: A, output: X, next: {0: A, 1: A}}]\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidTable)
	assert.Contains(t, err.Error(), "reserved")
}
