package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/parabrain/para-flow/internal/cli"
	"github.com/parabrain/para-flow/internal/config"
	"github.com/parabrain/para-flow/internal/storage"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dbPath := config.DatabasePath()

			store, err := storage.NewSQLiteStorage(dbPath)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			if err := store.Migrate(cmd.Context()); err != nil {
				return err
			}

			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Database up to date (schema v%d): %s", storage.ExpectedSchemaVersion, dbPath)))
			return nil
		},
	}
}
