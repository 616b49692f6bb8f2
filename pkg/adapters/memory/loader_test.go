package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/moore/pkg/adapters/memory"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoader_Contract(t *testing.T) {
	tests.TableLoaderContractTest(t, memory.NewLoader(nil), domain.Reference())
}

func TestMemoryLoader_FromRows(t *testing.T) {
	loader, err := memory.NewFromRows("toggle",
		domain.Row{ID: "off", Output: "0", Next: [domain.NumSymbols]domain.StateID{"off", "on"}},
		domain.Row{ID: "on", Output: "1", Next: [domain.NumSymbols]domain.StateID{"on", "off"}},
	)
	require.NoError(t, err)

	table, err := loader.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "toggle", table.Name())
	assert.Equal(t, 2, table.Len())

	_, err = memory.NewFromRows("broken",
		domain.Row{ID: "off", Next: [domain.NumSymbols]domain.StateID{"off", "missing"}},
	)
	assert.ErrorIs(t, err, domain.ErrInvalidTable)
}
