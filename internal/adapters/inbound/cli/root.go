package cli

import "github.com/spf13/cobra"

var (
	version = "dev"
	commit  = "none"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	global := &globalOptions{}
	opts := &auditOptions{}

	cmd := &cobra.Command{
		Use:   "agentaudit",
		Short: "Audit agent definition files and their inventory docs",
		Long: "agentaudit validates the frontmatter of agent definition files and checks that " +
			"the project's documentation references and agent inventory match the files on disk.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAudit(cmd, global, opts)
		},
	}

	cmd.PersistentFlags().BoolVarP(&global.verbose, "verbose", "v", false, "Enable debug logging on stderr")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Exit 1 when critical or high findings exist")
	cmd.Flags().StringVar(&opts.format, "format", formatMarkdown, "Output format (markdown, json)")
	cmd.Flags().StringVar(&opts.root, "root", "", "Project root to audit (defaults to current working directory)")
	cmd.Flags().StringVar(&opts.configFile, "config", "", "Config file (defaults to <root>/"+configFileName+")")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newMCPCmd(global))
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	return newRootCmd().Execute()
}
