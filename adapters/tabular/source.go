package tabular

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"marketpulse/domain/core"
	"marketpulse/domain/table"
	"marketpulse/ports"
)

// sourceExtensions, in lookup order
var sourceExtensions = []string{".csv", ".xlsx", ".xls"}

// DirectorySource serves integration exports from a directory of files
// named by integration id, e.g. <dir>/<integration-id>.csv. Platform
// exports land there out of band; this adapter only reads.
type DirectorySource struct {
	dir string
}

// NewDirectorySource creates a directory-backed table source
func NewDirectorySource(dir string) *DirectorySource {
	return &DirectorySource{dir: dir}
}

// Fetch reads the export file for one integration
func (s *DirectorySource) Fetch(_ context.Context, id core.IntegrationID) (table.RawTable, error) {
	path, err := s.findExport(id)
	if err != nil {
		return table.RawTable{}, err
	}
	return NewReader(path).Read()
}

func (s *DirectorySource) findExport(id core.IntegrationID) (string, error) {
	for _, ext := range sourceExtensions {
		path := filepath.Join(s.dir, id.String()+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("no export file for integration %s in %s", id, s.dir)
}

var _ ports.TableSource = (*DirectorySource)(nil)
