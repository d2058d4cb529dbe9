package cli

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	mcpadapter "github.com/tdkit/agentaudit/internal/adapters/inbound/mcp"
	"github.com/tdkit/agentaudit/internal/adapters/outbound/config"
	"github.com/tdkit/agentaudit/internal/adapters/outbound/gitinfo"
	"github.com/tdkit/agentaudit/internal/adapters/outbound/scanner"
	"github.com/tdkit/agentaudit/internal/adapters/outbound/tdcli"
	"github.com/tdkit/agentaudit/internal/application"
	"github.com/tdkit/agentaudit/internal/logging"
)

func newMCPCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the agentaudit MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd(global))
	return cmd
}

func newMCPServeCmd(global *globalOptions) *cobra.Command {
	var (
		projectPath string
		tdBinary    string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start agentaudit MCP server (stdio)",
		Long: "Start the agentaudit MCP server using stdio transport. Tool calls are forwarded to the td " +
			"task tracker, and the agent audit is available as a tool and as resources.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := resolvePath(projectPath)
			if err != nil {
				return err
			}

			logger, err := logging.New(global.verbose)
			if err != nil {
				return fmt.Errorf("creating logger: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			runner := tdcli.New(tdBinary, tdcli.WithDir(root), tdcli.WithLogger(logger))
			loader := config.New()
			s := mcpadapter.NewAgentAuditMCPServer(root, version, mcpadapter.Services{
				Audit:  application.NewAuditService(scanner.New(), scanner.New(), loader, application.WithLogger(logger)),
				Tasks:  application.NewTaskService(runner, gitinfo.New(), root, logger),
				Config: loader,
			})

			logger.Infow("serving MCP over stdio", "root", root, "td", tdBinary)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Project path (defaults to current working directory)")
	cmd.Flags().StringVar(&tdBinary, "td-binary", tdcli.DefaultBinary, "td executable name or path")

	return cmd
}
