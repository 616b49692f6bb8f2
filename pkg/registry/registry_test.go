package registry

import (
	"testing"

	"github.com/aretw0/moore/pkg/definition"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	toggle := domain.MustTable("toggle",
		domain.Row{ID: "off", Output: "0", Next: [domain.NumSymbols]domain.StateID{"off", "on"}},
		domain.Row{ID: "on", Output: "1", Next: [domain.NumSymbols]domain.StateID{"on", "off"}},
	)
	r := NewRegistry(toggle)

	assert.Equal(t, []string{domain.ReferenceName, "toggle"}, r.Names())

	got, err := r.Get("toggle")
	require.NoError(t, err)
	assert.Same(t, toggle, got)

	ref, err := r.Get("")
	require.NoError(t, err)
	assert.Same(t, domain.Reference(), ref)

	_, err = r.Get("missing")
	assert.ErrorIs(t, err, ErrTableNotFound)
}

func TestRegistry_ReferenceIsNeverReplaced(t *testing.T) {
	data, err := definition.Encode(domain.Reference(), domain.DefaultStart)
	require.NoError(t, err)
	decoded, _, err := definition.Load(data)
	require.NoError(t, err)
	require.Equal(t, domain.ReferenceName, decoded.Name())

	r := NewRegistry(decoded)
	got, err := r.Get(domain.ReferenceName)
	require.NoError(t, err)
	assert.Same(t, domain.Reference(), got)
	assert.Equal(t, 7, got.Len())
}
