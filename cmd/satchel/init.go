package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the config directory and the local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		configDir, err := resolveConfigDir()
		if err != nil {
			return err
		}

		// PersistentPreRunE already created the config dir and default
		// config.yaml. Opening the store creates the database schema.
		store, err := openStore()
		if err != nil {
			return err
		}
		defer store.Close()

		dataDir, err := resolveDataDir()
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(map[string]string{
				"config_dir": configDir,
				"data_dir":   dataDir,
			})
		}
		fmt.Println("Initialized satchel")
		fmt.Println("  config:", configDir)
		fmt.Println("  data:  ", dataDir)
		return nil
	},
}
