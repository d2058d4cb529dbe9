package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tdkit/agentaudit/internal/domain"
)

func TestSeverity_Rank(t *testing.T) {
	assert.Equal(t, 0, domain.SeverityCritical.Rank())
	assert.Equal(t, 1, domain.SeverityHigh.Rank())
	assert.Equal(t, 2, domain.SeverityMedium.Rank())
	assert.Equal(t, 3, domain.SeverityLow.Rank())
	assert.False(t, domain.Severity("urgent").Valid())
}

func TestSortFindings_SeverityThenFileThenLine(t *testing.T) {
	findings := []domain.Finding{
		{Severity: domain.SeverityLow, File: "a.md", Line: 1},
		{Severity: domain.SeverityHigh, File: "b.md", Line: 9},
		{Severity: domain.SeverityHigh, File: "b.md", Line: 2},
		{Severity: domain.SeverityCritical, File: "z.md", Line: 5},
		{Severity: domain.SeverityHigh, File: "a.md", Line: 7},
	}
	domain.SortFindings(findings)

	want := []string{"z.md:5", "a.md:7", "b.md:2", "b.md:9", "a.md:1"}
	var got []string
	for _, f := range findings {
		got = append(got, f.Location())
	}
	assert.Equal(t, want, got)
}

func TestNewAuditReport_SummaryMatchesFindings(t *testing.T) {
	findings := []domain.Finding{
		{Severity: domain.SeverityMedium, File: "b.md", Line: 1},
		{Severity: domain.SeverityCritical, File: "a.md", Line: 1},
		{Severity: domain.SeverityCritical, File: "a.md", Line: 3},
	}
	report := domain.NewAuditReport(time.Now(), "/repo", 2, 4, findings)

	assert.Equal(t, domain.Summary{Critical: 2, Medium: 1}, report.Summary)
	assert.Equal(t, len(report.Findings), report.Summary.Total())
	assert.Equal(t, domain.SeverityCritical, report.Findings[0].Severity)
	assert.Equal(t, domain.SeverityMedium, findings[0].Severity, "input slice must not be reordered")
}

func TestNewAuditReport_EmptyFindingsIsNotNil(t *testing.T) {
	report := domain.NewAuditReport(time.Now(), "/repo", 0, 4, nil)
	assert.NotNil(t, report.Findings)
	assert.Empty(t, report.Findings)
}

func TestSummary_Blocking(t *testing.T) {
	assert.True(t, domain.Summary{Critical: 1}.Blocking())
	assert.True(t, domain.Summary{High: 1}.Blocking())
	assert.False(t, domain.Summary{Medium: 3, Low: 2}.Blocking())
}

func TestSummary_Count(t *testing.T) {
	s := domain.Summary{Critical: 1, High: 2, Medium: 3, Low: 4}
	for i, sev := range domain.Severities {
		assert.Equal(t, i+1, s.Count(sev))
	}
}
