package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deploytrack/deploytrack/internal/config"
	"github.com/deploytrack/deploytrack/internal/grafana"
)

// NewPublishCmd creates the publish command: push the dashboard definition to
// Grafana. Exits zero only when Grafana answers HTTP 200.
func NewPublishCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish the deployment dashboard to Grafana",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			return runPublish(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}
}

func runPublish(ctx context.Context, w io.Writer, cfg *config.Config) error {
	g := cfg.Grafana

	apiKey := g.APIKey()
	if apiKey == "" {
		fmt.Fprintf(w, "Error: %s environment variable must be set\n", config.APIKeyEnv)
		fmt.Fprintln(w, "   Set it in the CI credential store")
		return fmt.Errorf("%s is not set", config.APIKeyEnv)
	}

	baseURL := g.BaseURL()
	dataURL := g.DataURL()

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "Deploying Dashboard to Grafana")
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Grafana URL: %s\n", baseURL)
	if dataURL != "" {
		fmt.Fprintf(w, "Data URL: %s\n", dataURL)
	} else {
		fmt.Fprintln(w, "Data URL: Not set")
	}
	fmt.Fprintln(w, banner)

	dashboard, err := grafana.LoadDashboard(g.DashboardFile, g.Placeholder, dataURL)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Dashboard JSON loaded: %s\n", g.DashboardFile)
	if dataURL != "" {
		fmt.Fprintf(w, "Data URL updated to: %s\n", dataURL)
	}

	client := grafana.NewClient(baseURL, apiKey, g.Timeout)
	fmt.Fprintf(w, "Deploying to: %s\n", client.Endpoint())

	result, err := client.Deploy(ctx, dashboard)
	if err != nil {
		writePublishFailure(w, baseURL, client.Endpoint(), err)
		return err
	}

	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "Dashboard Deployed Successfully!")
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "   Dashboard URL: %s%s\n", baseURL, result.URL)
	fmt.Fprintf(w, "   Status: %s\n", result.Status)
	fmt.Fprintf(w, "   Version: %d\n", result.Version)
	fmt.Fprintf(w, "   UID: %s\n", result.UID)
	if result.Slug != "" {
		fmt.Fprintf(w, "   Slug: %s\n", result.Slug)
	}
	fmt.Fprintln(w, banner)
	return nil
}

// writePublishFailure prints the diagnostic block for a failed deploy:
// status-specific guidance for HTTP errors, transport-specific guidance for
// TLS, connection and timeout failures.
func writePublishFailure(w io.Writer, baseURL, endpoint string, err error) {
	fmt.Fprintln(w, banner)
	switch {
	case errors.Is(err, grafana.ErrAuth):
		fmt.Fprintln(w, "Authentication Failed (401 Unauthorized)")
		fmt.Fprintln(w, banner)
		fmt.Fprintln(w, "   Possible causes:")
		fmt.Fprintln(w, "   1. Invalid or expired API key")
		fmt.Fprintln(w, "   2. API key doesn't have sufficient permissions")
		fmt.Fprintln(w, "   3. API key is for a different organization")
		fmt.Fprintln(w, "")
		fmt.Fprintln(w, "   Solution: generate a new API key with Editor or Admin role")
		fmt.Fprintf(w, "   and update %s in the CI credential store\n", config.APIKeyEnv)

	case errors.Is(err, grafana.ErrPermission):
		fmt.Fprintln(w, "Permission Denied (403 Forbidden)")
		fmt.Fprintln(w, banner)
		fmt.Fprintln(w, "   The API key cannot create or update dashboards.")
		fmt.Fprintln(w, "   Generate a new API key with Editor or Admin role.")

	case errors.Is(err, grafana.ErrEndpointNotFound):
		fmt.Fprintln(w, "Not Found (404)")
		fmt.Fprintln(w, banner)
		fmt.Fprintf(w, "   URL: %s\n", endpoint)
		fmt.Fprintln(w, "   Check if the Grafana URL is correct")

	case errors.Is(err, grafana.ErrUnexpectedStatus):
		fmt.Fprintln(w, "Deployment Failed")
		fmt.Fprintln(w, banner)
		fmt.Fprintf(w, "   %v\n", err)

	default:
		switch grafana.ClassifyFailure(err) {
		case grafana.KindTLS:
			fmt.Fprintln(w, "SSL Certificate Error")
			fmt.Fprintln(w, banner)
			fmt.Fprintf(w, "   %v\n", err)
			fmt.Fprintln(w, "")
			fmt.Fprintln(w, "   Fix the certificate on the Grafana server; do not disable")
			fmt.Fprintln(w, "   verification in production.")
		case grafana.KindTimeout:
			fmt.Fprintln(w, "Request Timeout")
			fmt.Fprintln(w, banner)
			fmt.Fprintln(w, "   Grafana took too long to respond.")
			fmt.Fprintln(w, "   Try again or raise grafana.timeout in the config.")
		case grafana.KindConnection:
			fmt.Fprintln(w, "Connection Error")
			fmt.Fprintln(w, banner)
			fmt.Fprintf(w, "   Cannot connect to: %s\n", baseURL)
			fmt.Fprintf(w, "   %v\n", err)
			fmt.Fprintln(w, "")
			fmt.Fprintln(w, "   Check:")
			fmt.Fprintln(w, "   1. The Grafana URL is correct")
			fmt.Fprintln(w, "   2. The Grafana server is running")
			fmt.Fprintln(w, "   3. Network/firewall allows the connection")
		default:
			fmt.Fprintln(w, "Unexpected Error")
			fmt.Fprintln(w, banner)
			fmt.Fprintf(w, "   %v\n", err)
		}
	}
	fmt.Fprintln(w, banner)
}
