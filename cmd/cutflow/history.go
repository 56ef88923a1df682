package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/console"
	"github.com/joseph-ayodele/cutflow-extractor/internal/repository"
)

func newHistoryCmd(a *app) *cobra.Command {
	var (
		limit int
		run   string
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, or the sources of one run",
		RunE: func(cmd *cobra.Command, args []string) error {
			v := common.NewValidator().Field("limit", limit, common.NonNegative)
			if run != "" {
				v.Field("run", run, common.UUID)
			}
			if err := common.ValidateAndReturnError(v); err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := a.requireStore(ctx)
			if err != nil {
				return err
			}
			defer db.Close()
			runs := repository.NewRunRepository(db, a.logger)

			if run != "" {
				sources, err := runs.ListSources(ctx, uuid.MustParse(run))
				if err != nil {
					return err
				}
				console.WriteSources(cmd.OutOrStdout(), sources)
				return nil
			}
			list, err := runs.ListRuns(ctx, limit)
			if err != nil {
				return err
			}
			console.WriteRuns(cmd.OutOrStdout(), list)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of runs to list, 0 for all")
	cmd.Flags().StringVar(&run, "run", "", "show the sources of this run id")
	return cmd
}
