package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/tdkit/agentaudit/internal/domain"
)

// ── warm palette ──
var (
	accent  = lipgloss.Color("#D97706") // amber
	dim     = lipgloss.Color("#6B7280") // muted gray
	success = lipgloss.Color("#22C55E") // green
	danger  = lipgloss.Color("#EF4444") // red
	orange  = lipgloss.Color("#FB923C")
	warning = lipgloss.Color("#F59E0B") // amber-yellow
	info    = lipgloss.Color("#8B949E") // soft blue-gray
)

var severityColors = map[domain.Severity]lipgloss.Color{
	domain.SeverityCritical: danger,
	domain.SeverityHigh:     orange,
	domain.SeverityMedium:   warning,
	domain.SeverityLow:      info,
}

// Renderer renders audit reports as markdown. Styles are bound to the
// output writer, so ANSI colors only appear when it is a terminal.
type Renderer struct {
	header   lipgloss.Style
	dim      lipgloss.Style
	pass     lipgloss.Style
	code     lipgloss.Style
	severity map[domain.Severity]lipgloss.Style
}

// NewRenderer creates a Renderer for output written to w.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	rd := &Renderer{
		header:   r.NewStyle().Bold(true).Foreground(accent),
		dim:      r.NewStyle().Foreground(dim),
		pass:     r.NewStyle().Bold(true).Foreground(success),
		code:     r.NewStyle().Foreground(accent),
		severity: make(map[domain.Severity]lipgloss.Style, len(severityColors)),
	}
	for sev, color := range severityColors {
		rd.severity[sev] = r.NewStyle().Bold(true).Foreground(color)
	}
	return rd
}

// RenderAudit renders report as a markdown document, one finding per
// bullet with its suggestion nested below.
func (rd *Renderer) RenderAudit(report *domain.AuditReport) string {
	var b strings.Builder

	b.WriteString(rd.header.Render("# Agent Audit Report"))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "- Agents scanned: %d\n", report.AgentCount)
	fmt.Fprintf(&b, "- Markdown files checked: %d\n", report.DocCount)
	fmt.Fprintf(&b, "- Findings: %d\n", len(report.Findings))

	b.WriteString("\n")
	b.WriteString(rd.header.Render("## Severity Summary"))
	b.WriteString("\n\n")
	for _, sev := range domain.Severities {
		fmt.Fprintf(&b, "- %s: %d\n", rd.severityLabel(sev), report.Summary.Count(sev))
	}
	b.WriteString("\n")

	if len(report.Findings) == 0 {
		b.WriteString(rd.pass.Render("No findings. Audit passed."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(rd.header.Render("## Findings"))
	b.WriteString("\n\n")
	for _, f := range report.Findings {
		rd.renderFinding(&b, f)
	}
	return b.String()
}

func (rd *Renderer) renderFinding(b *strings.Builder, f domain.Finding) {
	fmt.Fprintf(b, "- [%s] %s (%s) %s\n",
		rd.severityLabel(f.Severity),
		f.Location(),
		rd.code.Render(f.Code),
		f.Message,
	)
	if f.Suggestion != "" {
		fmt.Fprintf(b, "  - %s\n", rd.dim.Render("Fix: "+f.Suggestion))
	}
}

func (rd *Renderer) severityLabel(sev domain.Severity) string {
	style, ok := rd.severity[sev]
	if !ok {
		return string(sev)
	}
	return style.Render(string(sev))
}
