package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/promptloom/promptloom/cmd/promptloom/commands"
	"github.com/promptloom/promptloom/logger"
)

var rootCmd = &cobra.Command{
	Use:   "promptloom",
	Short: "promptloom - token-template engine for agent instruction prompts",
	Long: `promptloom assembles agent instruction prompts from token templates:
{{token}} placeholders, parameterized {{macro:id}} invocations and
{{#if}}/{{#unless}} conditional blocks.

Available commands:
  validate - Check a template against the macro registry
  preview  - Resolve a template with the synthetic preview context
  macros   - List registered macros
  configs  - Inspect saved prompt configurations
  serve    - Start the HTTP/WebSocket preview server
  version  - Show version information

Examples:
  promptloom validate prompt.txt        # Validate a template file
  echo '{{agent}}' | promptloom preview # Preview from stdin
  promptloom macros --grouped           # Palette view of the macro catalog
  promptloom serve                      # Start the live preview server`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON instead of console output")

	rootCmd.AddCommand(commands.ValidateCmd)
	rootCmd.AddCommand(commands.PreviewCmd)
	rootCmd.AddCommand(commands.MacrosCmd)
	rootCmd.AddCommand(commands.ConfigsCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
