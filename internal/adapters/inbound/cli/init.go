package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tdkit/agentaudit/internal/adapters/outbound/config"
	"github.com/tdkit/agentaudit/internal/domain"
)

const configFileName = config.FileName

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a " + configFileName + " configuration file",
		Long:  "Create a " + configFileName + " describing the default agent directory and inventory documents.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := resolvePath(path)
			if err != nil {
				return err
			}

			dest := filepath.Join(absPath, configFileName)

			if !force {
				if _, err := os.Stat(dest); err == nil {
					return fmt.Errorf("%s already exists (use --force to overwrite)", configFileName)
				}
			}

			content, err := generateConfig(domain.DefaultAuditConfig())
			if err != nil {
				return err
			}

			if err := os.WriteFile(dest, content, 0644); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing "+configFileName)

	return cmd
}

func generateConfig(cfg domain.AuditConfig) ([]byte, error) {
	body, err := yaml.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	header := "# agentaudit configuration\n# Paths are relative to the project root.\n\n"
	return append([]byte(header), body...), nil
}
