package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/cutflow-extractor/internal/repository"
)

func newDBHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dbhealth",
		Short: "Ping the run store and report how many runs it holds",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := a.requireStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.HealthCheck(ctx, a.cfg.Database.DialTimeout); err != nil {
				return fmt.Errorf("DB health: FAIL (%w)", err)
			}
			runs, err := repository.NewRunRepository(db, a.logger).ListRuns(ctx, 0)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "DB health: OK (%s, %d runs)\n", db.Dialect(), len(runs))
			return nil
		},
	}
}
