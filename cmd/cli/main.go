package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	authToken string
	apiURL    string = "http://localhost:8787"
	output    string = "text" // "text" or "json"
)

// commands that work without a token
var anonymousCommands = map[string]bool{
	"help":  true,
	"video": true,
	"get":   true,
}

var rootCmd = &cobra.Command{
	Use:   "vidshare",
	Short: "VidShare CLI - Watch, like and subscribe from the terminal",
	Long: `VidShare CLI provides command-line access to a VidShare server.
Fetch video details, manage your watch history, and toggle likes and subscriptions.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if authToken == "" {
			authToken = os.Getenv("VIDSHARE_TOKEN")
		}
		if authToken == "" && cmd.Parent() != nil && !anonymousCommands[cmd.Name()] {
			fmt.Fprintf(os.Stderr, "Error: VIDSHARE_TOKEN environment variable not set\n")
			fmt.Fprintf(os.Stderr, "Please set your auth token: export VIDSHARE_TOKEN=<your-token>\n")
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&authToken, "token", "", "Authentication token (defaults to VIDSHARE_TOKEN env var)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", apiURL, "API server URL")
	rootCmd.PersistentFlags().StringVar(&output, "output", output, "Output format: text or json")

	// Add command groups
	rootCmd.AddCommand(videoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(likeCmd)
	rootCmd.AddCommand(subscribeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
