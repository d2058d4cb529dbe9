package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// FileScanner implements domain.AgentScanner and domain.DocumentReader
// on the local filesystem.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan returns every .md file below root/agentsDir as a root-relative,
// slash-separated path, sorted. A missing root or agents directory is an
// error.
func (s *FileScanner) Scan(root, agentsDir string) ([]string, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", absRoot)
	}

	var agents []string
	err = filepath.WalkDir(filepath.Join(absRoot, filepath.FromSlash(agentsDir)), func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}
		rel, err := filepath.Rel(absRoot, path)
		if err != nil {
			return err
		}
		agents = append(agents, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(agents)
	return agents, nil
}

// ReadFile reads relPath below root.
func (s *FileScanner) ReadFile(root, relPath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
}

// Exists reports whether relPath exists below root.
func (s *FileScanner) Exists(root, relPath string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(relPath)))
	return err == nil
}
