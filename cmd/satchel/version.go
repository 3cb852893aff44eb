package main

import (
	"fmt"

	"github.com/mesh-intelligence/satchel/pkg/satchel"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the satchel version",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagJSON {
			return printJSON(map[string]string{"version": satchel.Version})
		}
		fmt.Println("satchel " + satchel.Version)
		return nil
	},
}
