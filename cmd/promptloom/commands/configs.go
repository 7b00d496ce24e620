package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/promptloom/promptloom/config"
	"github.com/promptloom/promptloom/db"
	"github.com/promptloom/promptloom/store"
)

// ConfigsCmd inspects saved prompt configurations.
var ConfigsCmd = &cobra.Command{
	Use:   "configs",
	Short: "Inspect saved prompt configurations",
}

var configsListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the latest version of every saved configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := openConfigStore()
		if err != nil {
			return err
		}

		list, err := configs.List()
		if err != nil {
			return err
		}
		if len(list) == 0 {
			pterm.Info.Println("No saved configurations")
			return nil
		}

		for _, cfg := range list {
			pterm.Printf("%-24s v%-3d %-8s %s\n",
				cfg.Name, cfg.Version, cfg.Mode, cfg.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var configsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show the latest version of a saved configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := openConfigStore()
		if err != nil {
			return err
		}

		cfg, err := configs.GetByName(args[0])
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	},
}

var configsVersionsCmd = &cobra.Command{
	Use:   "versions <name>",
	Short: "List every stored version of a configuration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := openConfigStore()
		if err != nil {
			return err
		}

		versions, err := configs.Versions(args[0])
		if err != nil {
			return err
		}
		for _, v := range versions {
			pterm.Printf("v%-3d %-36s %s\n",
				v.Version, v.ID, v.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var configsRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a configuration and all its versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		configs, err := openConfigStore()
		if err != nil {
			return err
		}

		if err := configs.DeleteConfig(args[0]); err != nil {
			return err
		}
		pterm.Success.Printf("Deleted %s\n", args[0])
		return nil
	},
}

func openConfigStore() (*store.ConfigStore, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	conn, err := db.OpenWithMigrations(cfg.Database.Path, nil)
	if err != nil {
		return nil, err
	}
	return store.NewConfigStore(conn), nil
}

func init() {
	ConfigsCmd.AddCommand(configsListCmd)
	ConfigsCmd.AddCommand(configsShowCmd)
	ConfigsCmd.AddCommand(configsVersionsCmd)
	ConfigsCmd.AddCommand(configsRmCmd)
}
