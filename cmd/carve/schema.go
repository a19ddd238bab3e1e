package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/docslice/carve/internal/profile"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the profile JSON schema",
	Long: `Print the JSON schema that profiles are checked against before
normalization. Useful for editor integration and CI linting.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), profile.SchemaJSON())
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
