package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bookbnb/rental-ledger-go/eventstore/postgresengine"
	"github.com/bookbnb/rental-ledger-go/ledger/shell/config"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the events table and its indexes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cfg.Store.Driver == config.DriverMemory {
				return fmt.Errorf("%w: migrate needs a postgres store.driver", config.ErrInvalidConfig)
			}

			dryRun, _ := cmd.Flags().GetBool("dry-run")
			statements := postgresengine.SchemaStatements(cfg.Store.TableName)

			if dryRun {
				for _, stmt := range statements {
					fmt.Fprintf(cmd.OutOrStdout(), "%s;\n", stmt)
				}
				return nil
			}

			ctx := cmd.Context()
			db, err := config.NewSQLX(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			tx, err := db.BeginTxx(ctx, nil)
			if err != nil {
				return err
			}

			for _, stmt := range statements {
				start := time.Now()
				if _, err = tx.ExecContext(ctx, stmt); err != nil {
					_ = tx.Rollback()
					return fmt.Errorf("migrate: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok  %-60.60s  %s\n", stmt, time.Since(start).Round(time.Millisecond))
			}

			return tx.Commit()
		},
	}

	cmd.Flags().Bool("dry-run", false, "print the statements instead of running them")

	return cmd
}
