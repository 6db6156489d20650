// Package cli is the repcoach command line client. It talks to a running
// RepCoach server over its REST API.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/claude/repcoach/internal/mcp"
)

const defaultServer = "http://localhost:8080"

var (
	serverURL string
	apiKey    string
)

var rootCmd = &cobra.Command{
	Use:           "repcoach",
	Short:         "Fatigue-aware strength training recommendations",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if serverURL == "" {
			serverURL = os.Getenv("REPCOACH_SERVER")
		}
		if serverURL == "" {
			serverURL = defaultServer
		}
		if apiKey == "" {
			apiKey = os.Getenv("REPCOACH_API_KEY")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "RepCoach server URL (env REPCOACH_SERVER)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key for write endpoints (env REPCOACH_API_KEY)")
}

// Execute runs the root command. Variables from a .env file in the working
// directory are loaded first when the file exists.
func Execute(version string) error {
	_ = godotenv.Load()
	rootCmd.Version = version
	return rootCmd.Execute()
}

func apiClient() *mcp.HTTPClient {
	return mcp.NewHTTPClient(serverURL, apiKey)
}
