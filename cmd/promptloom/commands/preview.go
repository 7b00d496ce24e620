package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/promptloom/promptloom/prompt"
)

// PreviewCmd resolves a template with the synthetic preview context.
var PreviewCmd = &cobra.Command{
	Use:   "preview [file]",
	Short: "Resolve a template with the synthetic preview context",
	Long: `Expand macros, evaluate conditionals and substitute the bracketed preview
context into a template. Reads from the file argument or stdin.

Unresolved syntax is preserved by default so problems stay visible; pass
--strip to remove it instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		template, err := readTemplate(args)
		if err != nil {
			return err
		}
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		strip, _ := cmd.Flags().GetBool("strip")
		resolver := prompt.NewResolver(registry)
		text, report := resolver.Preview(template, prompt.NewPreviewContext(), prompt.ResolveOptions{
			PreserveUnresolved: !strip,
			PassThroughNative:  true,
		})

		fmt.Println(text)

		if quiet, _ := cmd.Flags().GetBool("quiet"); !quiet {
			for _, missing := range report.MissingMacros() {
				pterm.Error.Printf("missing macro: %s\n", missing.Name)
			}
			for _, warning := range report.Warnings() {
				pterm.Warning.Printf("unresolved token: %s\n", warning.Name)
			}
		}
		return nil
	},
}

func init() {
	PreviewCmd.Flags().Bool("strip", false, "Strip unresolved syntax instead of preserving it")
	PreviewCmd.Flags().BoolP("quiet", "q", false, "Suppress validation findings")
}
