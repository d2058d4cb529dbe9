package task

import (
	"path/filepath"
	"strings"
)

// RelativizeFiles rewrites absolute paths under one of roots into
// root-relative, slash-separated form. Relative paths and paths outside
// every root pass through unchanged. Roots are tried in order.
func RelativizeFiles(files []string, roots ...string) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, relativize(f, roots))
	}
	return out
}

func relativize(file string, roots []string) string {
	if !filepath.IsAbs(file) {
		return file
	}
	clean := filepath.Clean(file)
	for _, root := range roots {
		if root == "" || !filepath.IsAbs(root) {
			continue
		}
		rel, err := filepath.Rel(filepath.Clean(root), clean)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		return filepath.ToSlash(rel)
	}
	return file
}
