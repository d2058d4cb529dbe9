package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tdkit/agentaudit/internal/application"
	"github.com/tdkit/agentaudit/internal/domain/task"
)

// AuditToolName is the tool that runs the agent audit.
const AuditToolName = "agent_audit"

// registerTaskTools registers one tool per td action.
func registerTaskTools(s *server.MCPServer, tasks *application.TaskService) {
	for _, action := range task.Catalog {
		s.AddTool(newTaskTool(action), handleTask(tasks, action))
	}
}

func newTaskTool(action task.Action) mcplib.Tool {
	opts := []mcplib.ToolOption{mcplib.WithDescription(action.Description)}
	for _, p := range action.Params {
		propOpts := []mcplib.PropertyOption{mcplib.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcplib.Required())
		}
		switch {
		case p.Kind == task.Files || p.Kind == task.List:
			propOpts = append(propOpts, mcplib.WithStringItems())
			opts = append(opts, mcplib.WithArray(p.Name, propOpts...))
		case p.Kind == task.Bool:
			opts = append(opts, mcplib.WithBoolean(p.Name, propOpts...))
		case p.Number:
			opts = append(opts, mcplib.WithNumber(p.Name, propOpts...))
		default:
			if len(p.Enum) > 0 {
				propOpts = append(propOpts, mcplib.Enum(p.Enum...))
			}
			opts = append(opts, mcplib.WithString(p.Name, propOpts...))
		}
	}
	return mcplib.NewTool(action.ToolName(), opts...)
}

const (
	// unavailableText is returned, not as an error, when td cannot be run.
	unavailableText = "TD CLI is not available. Install from https://github.com/MoshPitLabs/td"
	// emptyOutput is returned when td succeeds without printing anything.
	emptyOutput = "Command completed successfully"
)

func handleTask(tasks *application.TaskService, action task.Action) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		out, err := tasks.Forward(ctx, action, task.Args(request.GetArguments()))
		switch {
		case errors.Is(err, application.ErrTaskRunnerUnavailable):
			return textResult(unavailableText), nil
		case err != nil:
			return errorResult(err.Error()), nil
		case out == "":
			return textResult(emptyOutput), nil
		}
		return textResult(out), nil
	}
}

// registerAuditTools registers the agent audit tool.
func registerAuditTools(s *server.MCPServer, projectPath string, audit *application.AuditService) {
	s.AddTool(
		mcplib.NewTool(AuditToolName,
			mcplib.WithDescription("Audit agent definition files and their inventory documents; returns the JSON report"),
			mcplib.WithBoolean("strict",
				mcplib.Description("Flag the result as an error when critical or high findings exist"),
			),
		),
		handleAudit(projectPath, audit),
	)
}

func handleAudit(projectPath string, audit *application.AuditService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		strict, _ := request.GetArguments()["strict"].(bool)

		report, err := audit.Audit(ctx, projectPath)
		if err != nil {
			return errorResult(fmt.Sprintf("audit failed: %v", err)), nil
		}

		result, err := jsonResult(report)
		if err != nil {
			return nil, err
		}
		result.IsError = strict && report.Summary.Blocking()
		return result, nil
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
