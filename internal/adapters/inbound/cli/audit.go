package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/tdkit/agentaudit/internal/adapters/outbound/config"
	"github.com/tdkit/agentaudit/internal/adapters/outbound/scanner"
	"github.com/tdkit/agentaudit/internal/adapters/outbound/tui"
	"github.com/tdkit/agentaudit/internal/application"
	"github.com/tdkit/agentaudit/internal/domain"
	"github.com/tdkit/agentaudit/internal/logging"
)

const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

type auditOptions struct {
	strict     bool
	format     string
	root       string
	configFile string
}

func runAudit(cmd *cobra.Command, global *globalOptions, opts *auditOptions) error {
	if opts.format != formatMarkdown && opts.format != formatJSON {
		return fmt.Errorf("unknown format %q (valid: %s, %s)", opts.format, formatMarkdown, formatJSON)
	}

	logger, err := logging.New(global.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	root, err := resolvePath(opts.root)
	if err != nil {
		return err
	}

	loader := config.New()
	if opts.configFile != "" {
		loader = config.NewWithFile(opts.configFile)
	}

	svc := application.NewAuditService(scanner.New(), scanner.New(), loader, application.WithLogger(logger))
	report, err := svc.Audit(cmd.Context(), root)
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	if opts.format == formatJSON {
		if err := renderAuditJSON(cmd, report); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), tui.NewRenderer(cmd.OutOrStdout()).RenderAudit(report))
	}

	if opts.strict && report.Summary.Blocking() {
		return &StrictError{Critical: report.Summary.Critical, High: report.Summary.High}
	}
	return nil
}

func renderAuditJSON(cmd *cobra.Command, report *domain.AuditReport) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// resolvePath returns the absolute form of path, defaulting to the
// current working directory.
func resolvePath(path string) (string, error) {
	if path == "" {
		path = "."
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return abs, nil
}
