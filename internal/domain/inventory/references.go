// Package inventory cross-checks overview documents against the agent files
// found on disk.
package inventory

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/tdkit/agentaudit/internal/domain"
)

// Document is an auxiliary markdown document under the audit root.
// Exists is false when the file was not found.
type Document struct {
	Path    string
	Content string
	Exists  bool
}

// Reference is one agent path mentioned in a document.
type Reference struct {
	Doc    string
	Line   int
	Target string
}

// ReferencePattern matches agent paths of the form <agentsDir>/<...>.md.
func ReferencePattern(agentsDir string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(cleanDir(agentsDir)) + `/[A-Za-z0-9_./-]+\.md`)
}

// FindReferences returns every agent path in doc in document order. A path
// mentioned twice yields two references.
func FindReferences(doc Document, agentsDir string) []Reference {
	if !doc.Exists {
		return nil
	}
	re := ReferencePattern(agentsDir)
	var refs []Reference
	for i, line := range splitLines(doc.Content) {
		for _, m := range re.FindAllString(line, -1) {
			refs = append(refs, Reference{Doc: doc.Path, Line: i + 1, Target: m})
		}
	}
	return refs
}

// CheckReferences reports references in docs whose target does not exist
// under the audit root. Missing documents are skipped.
func CheckReferences(docs []Document, agentsDir string, exists func(target string) bool) []domain.Finding {
	var findings []domain.Finding
	for _, doc := range docs {
		for _, ref := range FindReferences(doc, agentsDir) {
			if exists(ref.Target) {
				continue
			}
			findings = append(findings, domain.Finding{
				Severity:   domain.SeverityCritical,
				Code:       domain.CodeDeadAgentReference,
				File:       ref.Doc,
				Line:       ref.Line,
				Message:    "Reference points to missing agent file: " + ref.Target,
				Suggestion: fmt.Sprintf("Update docs to an existing path under %s/.", cleanDir(agentsDir)),
			})
		}
	}
	return findings
}

func cleanDir(dir string) string {
	return strings.Trim(path.Clean(filepath.ToSlash(dir)), "/")
}

func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}
