package main

import (
	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/console"
	"github.com/joseph-ayodele/cutflow-extractor/internal/export"
	"github.com/joseph-ayodele/cutflow-extractor/internal/ingest"
	"github.com/joseph-ayodele/cutflow-extractor/internal/pipeline"
	"github.com/joseph-ayodele/cutflow-extractor/internal/repository"
)

func newProcessCmd(a *app) *cobra.Command {
	var (
		noFrame, noSave, quiet bool
	)
	cmd := &cobra.Command{
		Use:   "process [paths...]",
		Short: "Parse cut-flow tables and write one delimited file per report plus alpha_gen",
		Long: "Each path is a report file or a directory of .tex/.txt reports. For every report the table\n" +
			"following \"Here is the cut-flow-table:\" is parsed and written to dataframe_<name>.<format>;\n" +
			"the generator-level efficiencies of all reports go to alpha_gen.<format>.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return common.NewConfigError("at least one report path is required")
			}
			out := a.cfg.Output
			opts := pipeline.OptionsFrom(out)
			if noFrame {
				opts.ToFrame = false
			}
			if noSave {
				opts.Save = false
			}
			opts.Verbose = opts.Verbose || a.verbose
			// the summary table and the documents below need the results
			opts.Return = opts.Return || out.XLSXPath != "" || out.ReportPath != ""

			ctx := cmd.Context()
			db, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			var runs repository.RunRepository
			if db != nil {
				defer db.Close()
				runs = repository.NewRunRepository(db, a.logger)
			}

			processor := pipeline.NewProcessor(a.logger, ingest.NewFSIngestor(a.logger), runs)
			res, runErr := processor.Process(ctx, args, opts)
			if res == nil {
				return runErr
			}

			svc := export.NewService(a.logger)
			if out.XLSXPath != "" {
				data, err := svc.WorkbookXLSX(ctx, res.RunReport())
				if err != nil {
					return err
				}
				if err := export.WriteFile(out.XLSXPath, data); err != nil {
					return err
				}
			}
			if out.ReportPath != "" {
				data, err := svc.ReportJSON(ctx, res.RunReport())
				if err != nil {
					return err
				}
				if err := export.WriteFile(out.ReportPath, data); err != nil {
					return err
				}
			}
			if !quiet {
				console.WriteSummary(cmd.OutOrStdout(), res)
			}
			return runErr
		},
	}

	f := cmd.Flags()
	f.StringVarP(&a.cfg.Output.DataDir, "out", "o", a.cfg.Output.DataDir, "output directory for delimited files (env CUTFLOW_DATA_DIR)")
	f.StringVar(&a.cfg.Output.Format, "format", a.cfg.Output.Format, "delimited format: csv or tsv")
	f.BoolVar(&noFrame, "no-frame", false, "do not materialize frames (use with --no-save)")
	f.BoolVar(&noSave, "no-save", false, "do not write delimited files")
	f.StringVar(&a.cfg.Output.XLSXPath, "xlsx", a.cfg.Output.XLSXPath, "also write an XLSX workbook to this path")
	f.StringVar(&a.cfg.Output.ReportPath, "report", a.cfg.Output.ReportPath, "also write a JSON run report to this path")
	f.BoolVar(&a.cfg.Output.ContinueOnError, "continue-on-error", a.cfg.Output.ContinueOnError, "skip reports that fail to parse")
	f.BoolVarP(&quiet, "quiet", "q", false, "do not print the summary table")
	return cmd
}
