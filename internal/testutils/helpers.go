package testutils

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/moore/pkg/domain"
	"github.com/stretchr/testify/require"
)

// SetupTestRepo creates a temporary directory and initializes a Loam repository in it.
// It returns the absolute path to the temp dir and the initialized repository.
func SetupTestRepo(t *testing.T, opts ...loam.Option) (string, core.Repository) {
	t.Helper()

	absPath, err := filepath.Abs(t.TempDir())
	require.NoError(t, err, "Failed to get absolute path for temp dir")

	repo, err := loam.Init(absPath, opts...)
	require.NoError(t, err, "Failed to init loam repo")

	return absPath, repo
}

// WriteStateDocs writes one Markdown state document per row of table into dir,
// ordered as the table lists them.
func WriteStateDocs(t *testing.T, dir string, table *domain.Table) {
	t.Helper()
	for i, row := range table.Rows() {
		content := fmt.Sprintf("---\nid: %s\noutput: %q\non0: %s\non1: %s\norder: %d\n---\nState %s\n",
			row.ID, string(row.Output), row.Next[domain.Zero], row.Next[domain.One], i, row.ID)
		path := filepath.Join(dir, string(row.ID)+".md")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}
