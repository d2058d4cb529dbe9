package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tdkit/agentaudit/internal/application"
	"github.com/tdkit/agentaudit/internal/domain"
)

const (
	reportURI   = "agentaudit://report"
	configURI   = "agentaudit://config"
	severityURI = "agentaudit://findings/{severity}"
)

// registerResources registers the audit report resources.
func registerResources(s *server.MCPServer, projectPath string, svc Services) {
	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Audit Report",
			mcplib.WithResourceDescription("Current agent audit report for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleReportResource(projectPath, svc.Audit),
	)

	s.AddResource(
		mcplib.NewResource(
			configURI,
			"Audit Layout",
			mcplib.WithResourceDescription("Effective agent directory and inventory document layout"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(projectPath, svc.Config),
	)

	s.AddResourceTemplate(
		mcplib.NewResourceTemplate(
			severityURI,
			"Findings by Severity",
			mcplib.WithTemplateDescription("Audit findings of one severity (critical, high, medium, low)"),
			mcplib.WithTemplateMIMEType("application/json"),
		),
		handleSeverityResource(projectPath, svc.Audit),
	)
}

func handleReportResource(projectPath string, audit *application.AuditService) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		report, err := audit.Audit(ctx, projectPath)
		if err != nil {
			return nil, fmt.Errorf("audit failed: %w", err)
		}
		return jsonContents(reportURI, report)
	}
}

func handleConfigResource(projectPath string, loader domain.ConfigLoader) server.ResourceHandlerFunc {
	return func(_ context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := loader.Load(projectPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
		return jsonContents(configURI, cfg)
	}
}

func handleSeverityResource(projectPath string, audit *application.AuditService) server.ResourceTemplateHandlerFunc {
	return func(ctx context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		sev := domain.Severity(severityArg(request.Params.Arguments["severity"]))
		if !sev.Valid() {
			return nil, fmt.Errorf("unknown severity %q", sev)
		}

		report, err := audit.Audit(ctx, projectPath)
		if err != nil {
			return nil, fmt.Errorf("audit failed: %w", err)
		}

		findings := []domain.Finding{}
		for _, f := range report.Findings {
			if f.Severity == sev {
				findings = append(findings, f)
			}
		}
		return jsonContents(request.Params.URI, findings)
	}
}

// severityArg unwraps a template argument, which may arrive as a string
// or as a single-element list.
func severityArg(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case []string:
		if len(s) > 0 {
			return s[0]
		}
	}
	return ""
}

func jsonContents(uri string, v any) ([]mcplib.ResourceContents, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling %s: %w", uri, err)
	}
	return []mcplib.ResourceContents{
		mcplib.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
