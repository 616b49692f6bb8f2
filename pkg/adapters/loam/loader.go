package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/moore/pkg/domain"
)

// Loader adapts a Loam repository to ports.TableLoader.
// Each document in the repository defines one state.
type Loader struct {
	Repo *loam.TypedRepository[StateMetadata]
	Name string
}

// New creates a new Loam adapter. name becomes the table name.
func New(repo *loam.TypedRepository[StateMetadata], name string) *Loader {
	return &Loader{
		Repo: repo,
		Name: name,
	}
}

// Open initializes a read-only Loam repository at dir and returns a loader over it.
// The table is named after the directory.
func Open(dir string) (*Loader, error) {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}

	return New(loam.NewTypedRepository[StateMetadata](repo), filepath.Base(absPath)), nil
}

type entry struct {
	row   domain.Row
	order int
}

// Load lists every document and builds the table from their metadata.
func (l *Loader) Load(ctx context.Context) (*domain.Table, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))

	for _, doc := range docs {
		// Explicit ids are taken literally; only the document path loses its extension.
		id := doc.Data.ID
		if id == "" {
			id = trimExtension(doc.ID)
		}

		if existingPath, ok := seen[id]; ok {
			return nil, &domain.TableError{
				State:  domain.StateID(id),
				Reason: fmt.Sprintf("defined in both '%s' and '%s'", existingPath, doc.ID),
			}
		}
		seen[id] = doc.ID

		var row domain.Row
		row.ID = domain.StateID(id)
		row.Output = domain.Output(doc.Data.Output)
		row.Next[domain.Zero] = domain.StateID(doc.Data.On0)
		row.Next[domain.One] = domain.StateID(doc.Data.On1)

		entries = append(entries, entry{row: row, order: doc.Data.Order})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].order < entries[j].order
	})

	rows := make([]domain.Row, len(entries))
	for i, e := range entries {
		rows[i] = e.row
	}

	table, err := domain.NewTable(l.Name, rows...)
	if err != nil {
		return nil, fmt.Errorf("loam table %s: %w", l.Name, err)
	}
	return table, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
