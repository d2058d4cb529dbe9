package inventory

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/tdkit/agentaudit/internal/domain"
)

// SourceKind is the outcome of resolving which document lists the agents.
type SourceKind int

const (
	// PrimaryFound: the index document exists.
	PrimaryFound SourceKind = iota
	// FallbackFound: no index, the fallback document lists agents.
	FallbackFound
	// FallbackEmpty: no index, the fallback document lists no agents.
	FallbackEmpty
	// NoSourceFound: neither document exists.
	NoSourceFound
)

func (k SourceKind) String() string {
	switch k {
	case PrimaryFound:
		return "primary"
	case FallbackFound:
		return "fallback"
	case FallbackEmpty:
		return "fallback-empty"
	case NoSourceFound:
		return "none"
	}
	return "unknown"
}

// maxDriftExamples caps the example paths listed in a drift suggestion.
const maxDriftExamples = 3

var totalComponentsRe = regexp.MustCompile(`(?i)\*\*Total Components:\*\*\s*(\d+)\s+agents\b`)

// Source is the resolved agent inventory document.
type Source struct {
	Kind SourceKind
	Doc  Document
	Refs []Reference

	// Layout the source was resolved from, used in finding text.
	IndexPath    string
	FallbackPath string
	AgentsDir    string
}

// ResolveSource picks the inventory document: the index when present,
// otherwise the fallback.
func ResolveSource(index, fallback Document, agentsDir string) Source {
	src := Source{IndexPath: index.Path, FallbackPath: fallback.Path, AgentsDir: cleanDir(agentsDir)}
	switch {
	case index.Exists:
		src.Kind, src.Doc, src.Refs = PrimaryFound, index, FindReferences(index, agentsDir)
	case !fallback.Exists:
		src.Kind, src.Doc = NoSourceFound, index
	default:
		src.Doc, src.Refs = fallback, FindReferences(fallback, agentsDir)
		src.Kind = FallbackFound
		if len(src.Refs) == 0 {
			src.Kind = FallbackEmpty
		}
	}
	return src
}

// CheckDrift compares the resolved inventory with the agent files on disk.
func CheckDrift(src Source, agents []string) []domain.Finding {
	indexName := path.Base(src.IndexPath)
	fallbackName := path.Base(src.FallbackPath)

	switch src.Kind {
	case PrimaryFound:
		var findings []domain.Finding
		if f, ok := checkDeclaredCount(src.Doc, len(agents)); ok {
			findings = append(findings, f)
		}
		// An index without any agent paths is not treated as total drift.
		if len(src.Refs) == 0 {
			return findings
		}
		if missing := unlisted(src.Refs, agents); len(missing) > 0 {
			findings = append(findings, domain.Finding{
				Severity:   domain.SeverityHigh,
				Code:       domain.CodeAgentInventoryDrift,
				File:       src.Doc.Path,
				Line:       1,
				Message:    fmt.Sprintf("%s is missing %s present on disk.", indexName, entries(len(missing))),
				Suggestion: addLinksSuggestion(missing),
			})
		}
		return findings

	case FallbackFound:
		if missing := unlisted(src.Refs, agents); len(missing) > 0 {
			return []domain.Finding{{
				Severity:   domain.SeverityMedium,
				Code:       domain.CodeAgentInventoryDriftFallback,
				File:       src.Doc.Path,
				Line:       1,
				Message:    fmt.Sprintf("Fallback inventory is missing %s present on disk.", entries(len(missing))),
				Suggestion: addLinksSuggestion(missing),
			}}
		}
		return nil

	case FallbackEmpty:
		return []domain.Finding{{
			Severity:   domain.SeverityMedium,
			Code:       domain.CodeEmptyFallbackInventory,
			File:       src.Doc.Path,
			Line:       1,
			Message:    fmt.Sprintf("%s is missing and %s does not contain agent inventory links.", indexName, fallbackName),
			Suggestion: fmt.Sprintf("Add %s/*.md links to %s or restore %s.", src.AgentsDir, fallbackName, indexName),
		}}

	case NoSourceFound:
		return []domain.Finding{{
			Severity:   domain.SeverityMedium,
			Code:       domain.CodeMissingInventorySource,
			File:       src.Doc.Path,
			Line:       1,
			Message:    fmt.Sprintf("%s is missing and no fallback inventory source (%s) was found.", indexName, fallbackName),
			Suggestion: fmt.Sprintf("Restore %s or add %s with agent inventory links.", src.IndexPath, fallbackName),
		}}
	}
	return nil
}

// checkDeclaredCount compares the first "**Total Components:** N agents"
// declaration with the number of agent files.
func checkDeclaredCount(doc Document, actual int) (domain.Finding, bool) {
	content := strings.ReplaceAll(doc.Content, "\r\n", "\n")
	m := totalComponentsRe.FindStringSubmatchIndex(content)
	if m == nil {
		return domain.Finding{}, false
	}
	declared, err := strconv.Atoi(content[m[2]:m[3]])
	if err != nil || declared == actual {
		return domain.Finding{}, false
	}
	name := path.Base(doc.Path)
	return domain.Finding{
		Severity:   domain.SeverityCritical,
		Code:       domain.CodeAgentCountDrift,
		File:       doc.Path,
		Line:       strings.Count(content[:m[0]], "\n") + 1,
		Message:    fmt.Sprintf("%s declares %d agents, but filesystem contains %d.", name, declared, actual),
		Suggestion: fmt.Sprintf("Update %s metadata/counts to match current agent inventory.", name),
	}, true
}

// unlisted returns the agents, in discovery order, that no reference names.
func unlisted(refs []Reference, agents []string) []string {
	listed := make(map[string]bool, len(refs))
	for _, ref := range refs {
		listed[ref.Target] = true
	}
	var missing []string
	for _, a := range agents {
		if !listed[a] {
			missing = append(missing, a)
		}
	}
	return missing
}

func entries(n int) string {
	if n == 1 {
		return "1 agent entry"
	}
	return fmt.Sprintf("%d agent entries", n)
}

func addLinksSuggestion(missing []string) string {
	examples := missing
	if len(examples) > maxDriftExamples {
		examples = examples[:maxDriftExamples]
	}
	return fmt.Sprintf("Add missing inventory links (e.g. %s).", strings.Join(examples, ", "))
}
