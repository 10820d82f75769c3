package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Extensions the loader accepts, lowercase.
var tabularExtensions = map[string]bool{
	".csv":  true,
	".xlsx": true,
	".xls":  true,
}

// FileInfo describes one discovered source file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// Discovery expands configured source paths into concrete file lists.
type Discovery struct {
	basePath string
}

// NewDiscovery creates a discovery rooted at basePath. Relative source
// paths resolve against it.
func NewDiscovery(basePath string) *Discovery {
	return &Discovery{basePath: basePath}
}

// ExpandSource resolves one configured source path. A file path yields
// that file; a directory yields every tabular file directly inside it,
// sorted by name so repeated runs process files in the same order.
func (d *Discovery) ExpandSource(path string) ([]FileInfo, error) {
	fullPath := path
	if !filepath.IsAbs(path) {
		fullPath = filepath.Join(d.basePath, path)
	}

	info, err := os.Stat(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat source path %s: %w", fullPath, err)
	}

	if !info.IsDir() {
		return []FileInfo{{
			Path:    fullPath,
			Name:    filepath.Base(fullPath),
			Size:    info.Size(),
			ModTime: info.ModTime(),
		}}, nil
	}

	return d.findTabularFiles(fullPath)
}

// findTabularFiles lists the tabular files directly under dir.
func (d *Discovery) findTabularFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if !tabularExtensions[strings.ToLower(filepath.Ext(name))] {
			continue
		}
		// Excel lock files left behind by an open workbook.
		if strings.HasPrefix(name, "~$") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// Paths returns just the paths of the given files, in order.
func Paths(files []FileInfo) []string {
	paths := make([]string, len(files))
	for i, file := range files {
		paths[i] = file.Path
	}
	return paths
}
