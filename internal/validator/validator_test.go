package validator

import (
	"testing"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyze_ReferenceFromDefaultStart(t *testing.T) {
	report, err := Analyze(domain.Reference(), domain.DefaultStart)
	require.NoError(t, err)

	assert.Equal(t, 7, report.States)
	assert.Equal(t, []domain.StateID{domain.StateE}, report.Unreachable)
	assert.Len(t, report.Reachable, 6)
	assert.Equal(t, []domain.Output{"A", "B", "C"}, report.Outputs)
}

func TestAnalyze_ReferenceFromE(t *testing.T) {
	report, err := Analyze(domain.Reference(), domain.StateE)
	require.NoError(t, err)

	// From E every non-A state is reachable; A has no incoming edge except itself.
	assert.Equal(t, []domain.StateID{domain.StateA}, report.Unreachable)
}

func TestAnalyze_UnknownStart(t *testing.T) {
	_, err := Analyze(domain.Reference(), "Z")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
