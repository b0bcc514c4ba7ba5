package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/rangepick/internal/db"
	"github.com/terraincognita07/rangepick/internal/services"
)

func newPruneCommand() *cobra.Command {
	var olderThan string

	cmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete picker sessions idle longer than the TTL",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw := olderThan
			if raw == "" {
				raw = os.Getenv("PICKER_TTL")
			}
			ttl, err := parsePickerTTL(raw)
			if err != nil {
				return err
			}

			database, err := db.OpenSQLite(resolveDBPath())
			if err != nil {
				return err
			}
			if sqlDB, err := database.DB(); err == nil {
				defer sqlDB.Close()
			}

			repositories := db.NewRepositories(database)
			pickers := services.NewPickerService(repositories.Pickers, repositories.Updates, mustLoadLocation(getEnv("TZ", "UTC")))
			deleted, err := pickers.PruneIdle(ttl)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "pruned %d picker session(s) idle longer than %s\n", deleted, ttl)
			return nil
		},
	}
	cmd.Flags().StringVar(&olderThan, "older-than", "", "Idle threshold such as 2h or 30m (overrides PICKER_TTL)")
	return cmd
}
