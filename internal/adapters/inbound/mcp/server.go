package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/tdkit/agentaudit/internal/application"
	"github.com/tdkit/agentaudit/internal/domain"
)

// ServerName is the name advertised to MCP clients.
const ServerName = "agentaudit"

// Services are the application services the MCP server exposes.
type Services struct {
	Audit  *application.AuditService
	Tasks  *application.TaskService
	Config domain.ConfigLoader
}

// NewAgentAuditMCPServer creates an MCP server exposing the td tools, the
// audit tool and the audit resources for projectPath.
func NewAgentAuditMCPServer(projectPath, version string, svc Services) *server.MCPServer {
	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithRecovery(),
	)

	registerTaskTools(s, svc.Tasks)
	registerAuditTools(s, projectPath, svc.Audit)
	registerResources(s, projectPath, svc)

	return s
}
