package domain

import (
	"fmt"
	"sort"
	"time"
)

// Severity ranks a finding. Lower rank is more urgent.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists every severity in rank order.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Rank returns the sort position of s. Unknown values sort last.
func (s Severity) Rank() int {
	for i, sev := range Severities {
		if sev == s {
			return i
		}
	}
	return len(Severities)
}

func (s Severity) Valid() bool { return s.Rank() < len(Severities) }

// Finding is one detected problem in the audited tree.
type Finding struct {
	Severity   Severity `json:"severity"`
	Code       string   `json:"code"`
	File       string   `json:"file"`
	Line       int      `json:"line"`
	Message    string   `json:"message"`
	Suggestion string   `json:"suggestion,omitempty"`
}

// Location renders file:line.
func (f Finding) Location() string {
	return fmt.Sprintf("%s:%d", f.File, f.Line)
}

// Finding codes.
const (
	CodeMissingFrontmatter          = "missing_frontmatter"
	CodeMissingRequiredField        = "missing_required_field"
	CodeInvalidNameFormat           = "invalid_name_format"
	CodeNameFilenameMismatch        = "name_filename_mismatch"
	CodeInvalidType                 = "invalid_type"
	CodeInvalidModelFormat          = "invalid_model_format"
	CodeWildcardAllowPermission     = "wildcard_allow_permission"
	CodeInvalidPermissionAction     = "invalid_permission_action"
	CodeDeadAgentReference          = "dead_agent_reference"
	CodeAgentCountDrift             = "agent_count_drift"
	CodeAgentInventoryDrift         = "agent_inventory_drift"
	CodeAgentInventoryDriftFallback = "agent_inventory_drift_fallback"
	CodeMissingInventorySource      = "missing_agent_inventory_source"
	CodeEmptyFallbackInventory      = "empty_fallback_agent_inventory"
)

// Summary counts findings per severity.
type Summary struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// Count returns the number of findings recorded for sev.
func (s Summary) Count(sev Severity) int {
	switch sev {
	case SeverityCritical:
		return s.Critical
	case SeverityHigh:
		return s.High
	case SeverityMedium:
		return s.Medium
	case SeverityLow:
		return s.Low
	}
	return 0
}

func (s Summary) Total() int { return s.Critical + s.High + s.Medium + s.Low }

// Blocking reports whether strict mode should fail the run.
func (s Summary) Blocking() bool { return s.Critical > 0 || s.High > 0 }

// Summarize counts findings per severity.
func Summarize(findings []Finding) Summary {
	var s Summary
	for _, f := range findings {
		switch f.Severity {
		case SeverityCritical:
			s.Critical++
		case SeverityHigh:
			s.High++
		case SeverityMedium:
			s.Medium++
		case SeverityLow:
			s.Low++
		}
	}
	return s
}

// SortFindings orders findings by severity rank, then file, then line.
// Ties keep their relative order.
func SortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if ra, rb := a.Severity.Rank(), b.Severity.Rank(); ra != rb {
			return ra < rb
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
}

// AuditReport is the output of one audit run.
type AuditReport struct {
	GeneratedAt time.Time `json:"generatedAt"`
	Root        string    `json:"root"`
	AgentCount  int       `json:"agentCount"`
	DocCount    int       `json:"docCount"`
	Summary     Summary   `json:"summary"`
	Findings    []Finding `json:"findings"`
}

// NewAuditReport sorts findings and computes the summary. findings is
// copied, the caller's slice is left untouched.
func NewAuditReport(generatedAt time.Time, root string, agentCount, docCount int, findings []Finding) *AuditReport {
	sorted := make([]Finding, len(findings))
	copy(sorted, findings)
	SortFindings(sorted)
	return &AuditReport{
		GeneratedAt: generatedAt,
		Root:        root,
		AgentCount:  agentCount,
		DocCount:    docCount,
		Summary:     Summarize(sorted),
		Findings:    sorted,
	}
}
