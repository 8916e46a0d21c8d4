package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// GlobalOptions are the flags shared by every subcommand
type GlobalOptions struct {
	EnvFile     string
	ErrorPolicy string
	Only        []string
	DryRun      bool
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	var opts GlobalOptions

	rootCmd := &cobra.Command{
		Use:   "beauthy",
		Short: "Manage Authentik application icons and metadata",
		Long: `Beauthy matches the applications registered in an Authentik portal
with icons from the dashboard-icons repository and uploads or links
them back to the portal. It can also generate descriptions and
publishers with a local Ollama model.

Required environment (or .env file):
  AUTHENTIK_HOST   portal hostname
  AUTHENTIK_TOKEN  portal API token
  GITHUB_TOKEN     GitHub personal access token`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "Environment file to load if present")
	rootCmd.PersistentFlags().StringVar(&opts.ErrorPolicy, "on-error", "continue", "What to do when an application fails (continue, fail-fast, collect)")
	rootCmd.PersistentFlags().StringSliceVar(&opts.Only, "only", nil, "Only process applications with these slugs")
	rootCmd.PersistentFlags().BoolVar(&opts.DryRun, "dry-run", false, "Log portal changes without applying them")

	// Add subcommands
	rootCmd.AddCommand(NewAppsCmd(&opts))
	rootCmd.AddCommand(NewIconsCmd(&opts))
	rootCmd.AddCommand(NewDescribeCmd(&opts))

	return rootCmd
}
