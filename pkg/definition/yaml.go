package definition

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/moore/pkg/domain"
	"gopkg.in/yaml.v3"
)

// Parse decodes a YAML document into a Spec.
func Parse(data []byte) (*Spec, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}
	if raw == nil {
		return nil, &domain.TableError{Reason: "empty definition"}
	}
	return Decode(raw)
}

// Load parses the document and builds its table.
// A document without a name is named DefaultName.
func Load(data []byte) (*domain.Table, *Spec, error) {
	return load(data, DefaultName)
}

func load(data []byte, fallbackName string) (*domain.Table, *Spec, error) {
	spec, err := Parse(data)
	if err != nil {
		return nil, nil, err
	}
	if spec.Name == "" {
		spec.Name = fallbackName
	}
	table, err := spec.Table()
	if err != nil {
		return nil, nil, err
	}
	return table, spec, nil
}

// LoadFile reads and builds the table defined at path.
// A document without a name is named after the file, without its extension.
func LoadFile(path string) (*domain.Table, *Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read definition: %w", err)
	}
	base := filepath.Base(path)
	table, spec, err := load(data, strings.TrimSuffix(base, filepath.Ext(base)))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return table, spec, nil
}

// Encode writes table as a YAML document with start as its declared start state.
func Encode(table *domain.Table, start domain.StateID) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(FromTable(table, start)); err != nil {
		return nil, fmt.Errorf("failed to encode table: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileLoader implements ports.TableLoader for a YAML file on disk.
type FileLoader struct {
	Path string
}

// NewFileLoader creates a loader for the definition at path.
func NewFileLoader(path string) *FileLoader {
	return &FileLoader{Path: path}
}

// Load reads the file on every call so edits are picked up.
func (l *FileLoader) Load(ctx context.Context) (*domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	table, _, err := LoadFile(l.Path)
	return table, err
}
