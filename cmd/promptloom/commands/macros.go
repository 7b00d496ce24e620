package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// MacrosCmd lists registered macros.
var MacrosCmd = &cobra.Command{
	Use:   "macros",
	Short: "List registered macros",
	Long: `List every macro visible to the engine: built-in definitions plus TOML
definitions loaded from the configured macro directory.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := loadRegistry()
		if err != nil {
			return err
		}

		if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
			out, err := json.MarshalIndent(registry.AllMacros(), "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if grouped, _ := cmd.Flags().GetBool("grouped"); grouped {
			byCategory := registry.MacrosByCategory()
			categories := make([]string, 0, len(byCategory))
			for category := range byCategory {
				categories = append(categories, category)
			}
			sort.Strings(categories)

			for _, category := range categories {
				pterm.DefaultSection.Println(category)
				for _, def := range byCategory[category] {
					pterm.Printf("  %-16s %s\n", def.ID, def.Description)
				}
			}
			return nil
		}

		for _, def := range registry.AllMacros() {
			pterm.Printf("%-16s %-10s %s\n", def.ID, def.Category, def.Description)
		}
		return nil
	},
}

func init() {
	MacrosCmd.Flags().Bool("grouped", false, "Group macros by category")
	MacrosCmd.Flags().BoolP("json", "j", false, "Output the catalog as JSON")
}
