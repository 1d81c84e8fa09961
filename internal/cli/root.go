package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

// banner is the separator line used by the console reports.
var banner = strings.Repeat("=", 60)

// NewRootCmd creates the root command for the deploytrack CLI.
func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "deploytrack",
		Short: "Track deployment delays and publish the deployment dashboard.",
		Long: `deploytrack is a small toolkit around one deployments.json file:
calc derives per-deployment delay statistics and rewrites the file,
publish pushes the dashboard definition to Grafana, and serve exposes
the data file over read-only HTTP routes.`,
		SilenceUsage:  true,
		SilenceErrors: true, // main logs the error once via slog
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "deploytrack.yaml",
		"path to config file (defaults apply when missing)")

	rootCmd.AddCommand(NewCalcCmd(&configPath))
	rootCmd.AddCommand(NewPublishCmd(&configPath))
	rootCmd.AddCommand(NewServeCmd(&configPath))

	return rootCmd
}
