package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
	"github.com/joseph-ayodele/cutflow-extractor/internal/console"
	"github.com/joseph-ayodele/cutflow-extractor/internal/repository"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

// app carries what every subcommand shares.
type app struct {
	cfg     *common.Config
	logger  *slog.Logger
	verbose bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := &app{cfg: common.LoadConfig()}
	err := newRootCmd(a).ExecuteContext(ctx)
	stop()
	if err != nil {
		printError("Error: %v\n", err)
		os.Exit(common.ExitCode(err))
	}
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "cutflow",
		Short:         "Extract cut-flow tables from LaTeX analysis reports",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}
			level := console.ParseLevel(a.cfg.Log.Level)
			if a.verbose || a.cfg.Output.Verbose {
				level = slog.LevelDebug
			}
			a.logger = console.NewLogger(os.Stderr, a.cfg.Log.Format, level)
			slog.SetDefault(a.logger)
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "trace table detection, summary values and written files")
	pf.StringVar(&a.cfg.Log.Format, "log-format", a.cfg.Log.Format, "log format: auto, json or text")
	pf.StringVar(&a.cfg.Database.DSN, "db", a.cfg.Database.DSN, "run store: SQLite path or postgres:// URL (env DB_URL)")

	root.AddCommand(newProcessCmd(a), newHistoryCmd(a), newDBHealthCmd(a))
	return root
}

// openStore opens and migrates the run store. It returns a nil DB when no DSN is configured.
func (a *app) openStore(ctx context.Context) (*repository.DB, error) {
	if a.cfg.Database.DSN == "" {
		return nil, nil
	}
	db, err := repository.Open(ctx, repository.ConfigFrom(a.cfg.Database), a.logger)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func (a *app) requireStore(ctx context.Context) (*repository.DB, error) {
	if a.cfg.Database.DSN == "" {
		return nil, common.NewConfigError("a run store is required: pass --db or set DB_URL")
	}
	return a.openStore(ctx)
}
