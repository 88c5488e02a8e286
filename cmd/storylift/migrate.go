package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema",
	Long:  "Applies every embedded migration that has not been recorded in schema_version.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	applied, err := a.db.Migrate(cmd.Context())
	if err != nil {
		return err
	}

	if len(applied) == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Schema is up to date")
		return nil
	}
	for _, v := range applied {
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Applied migration %03d\n", v)
	}
	return nil
}
