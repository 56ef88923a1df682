package pipeline

import (
	"github.com/joseph-ayodele/cutflow-extractor/constants"
	"github.com/joseph-ayodele/cutflow-extractor/internal/common"
)

// Options selects what a run materializes, persists and returns.
type Options struct {
	// DataDir receives the delimited files; normalized to end with a separator.
	DataDir string
	// Format is the delimited output format, csv or tsv.
	Format string
	// ToFrame materializes each table (and the aggregate) as a frame.
	ToFrame bool
	// Save writes the frames to DataDir. Requires ToFrame.
	Save bool
	// Return makes Process return its Result; otherwise the Result is nil.
	Return bool
	// Verbose raises the per-source trace from debug to info.
	Verbose bool
	// ContinueOnError skips failed sources instead of aborting the run.
	ContinueOnError bool
}

// DefaultOptions materializes, saves as CSV and returns. DataDir must still be set to save.
func DefaultOptions() Options {
	return Options{
		Format:  constants.FormatCSV,
		ToFrame: true,
		Save:    true,
		Return:  true,
	}
}

// OptionsFrom maps the output section of the application config.
func OptionsFrom(c common.OutputConfig) Options {
	return Options{
		DataDir:         c.DataDir,
		Format:          c.Format,
		ToFrame:         c.ToFrame,
		Save:            c.Save,
		Return:          c.Return,
		Verbose:         c.Verbose,
		ContinueOnError: c.ContinueOnError,
	}
}

// Validate reports option combinations that cannot be honoured, as configuration errors.
func (o Options) Validate() error {
	_, knownFormat := constants.Delimiter(o.Format)
	v := common.NewValidator().
		Check(knownFormat, "format", o.Format, "must be csv or tsv").
		Check(!o.Save || o.ToFrame, "save", o.Save, "saving delimited files requires materializing frames")
	if o.Save {
		v.Field("data_dir", o.DataDir, common.Required)
	}
	return common.ValidateAndReturnError(v)
}
