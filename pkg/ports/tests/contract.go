package tests

import (
	"context"
	"testing"

	"github.com/aretw0/moore/pkg/domain"
	"github.com/aretw0/moore/pkg/ports"
)

// TableLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.TableLoader.
// want is the table the loader is expected to produce, compared row by row.
func TableLoaderContractTest(t *testing.T, loader ports.TableLoader, want *domain.Table) {
	t.Helper()

	t.Run("Load_Success", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading table: %v", err)
		}
		if got.Len() != want.Len() {
			t.Fatalf("expected %d states, got %d", want.Len(), got.Len())
		}
		for _, wantRow := range want.Rows() {
			row, ok := got.Row(wantRow.ID)
			if !ok {
				t.Errorf("state %s missing from loaded table", wantRow.ID)
				continue
			}
			if row != wantRow {
				t.Errorf("row mismatch for %s. got %+v, want %+v", wantRow.ID, row, wantRow)
			}
		}
	})

	t.Run("Load_Closure", func(t *testing.T) {
		got, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("unexpected error loading table: %v", err)
		}
		for _, row := range got.Rows() {
			for _, s := range domain.Symbols {
				if !got.Has(row.Next[s]) {
					t.Errorf("successor of %s on %s (%s) is not a state", row.ID, s, row.Next[s])
				}
			}
		}
	})
}
