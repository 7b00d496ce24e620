package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/promptloom/promptloom/prompt"
)

// ValidateCmd checks a template against the macro registry.
var ValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a template against the macro registry",
	Long: `Scan a template for tokens, macro invocations, conditionals and transform
pipelines, and cross-reference every macro against the registry. Reads the
template from the file argument, or stdin when no file is given.

Missing macros are errors; unresolved generic tokens are warnings only.`,
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

		report := prompt.Validate(template, registry)

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			out, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
		} else {
			printReport(report)
		}

		if !report.Valid {
			return fmt.Errorf("template references %d missing macro(s)", len(report.MissingMacros()))
		}
		return nil
	},
}

func printReport(report *prompt.ValidationReport) {
	pterm.Printf("Tokens: %d  Macros: %d  Conditionals: %d  Transforms: %d\n",
		len(report.Tokens), len(report.Macros), len(report.Conditionals), len(report.Transforms))

	for _, missing := range report.MissingMacros() {
		pterm.Error.Printf("missing macro: %s\n", missing.Name)
	}
	for _, warning := range report.Warnings() {
		pterm.Warning.Printf("unresolved token: %s\n", warning.Name)
	}

	if report.Valid {
		pterm.Success.Println("Template is valid")
	}
}

func init() {
	ValidateCmd.Flags().BoolP("json", "j", false, "Output the validation report as JSON")
}
