package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/peekknuf/dataoverview/internal/config"
	"github.com/peekknuf/dataoverview/internal/loader"
	"github.com/peekknuf/dataoverview/internal/logging"
	"github.com/peekknuf/dataoverview/internal/profiler"
	"github.com/peekknuf/dataoverview/internal/report"
)

// errReported is returned once a processing error has already been shown
// to the user, so Execute only needs to set the exit status.
var errReported = errors.New("processing failed")

type app struct {
	v        *viper.Viper
	cfgFile  string
	settings *config.Settings
	logger   *slog.Logger
}

// NewRootCmd builds the dataoverview command tree.
func NewRootCmd() *cobra.Command {
	a := &app{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "dataoverview <input_file> [output_file]",
		Short: "Summarize the columns of a CSV or Excel file",
		Long: `Analyze a CSV or Excel file and generate an overview of its fields:
data type, count of unique values and the most frequent values.

CSV files are read with ';' as the field delimiter.

Examples:
  dataoverview data.csv                  # Print the overview
  dataoverview data.xlsx overview.csv    # Save the overview as CSV
  dataoverview scan --dir ./exports      # Profile every file in a directory`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.ErrOrStderr())
		},
		RunE: a.runFile,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "",
		"config file (default is ./dataoverview.yaml)")
	flags.String("delimiter", ";", "CSV field delimiter")
	flags.Int("top", profiler.DefaultTop, "Number of example values per field")
	flags.String("log-level", "warn", "Log level: debug, info, warn, error")
	flags.String("log-format", "text", "Log format: text, json")
	flags.Bool("fail-on-error", false, "Exit with status 1 when a file cannot be processed")

	_ = a.v.BindPFlag(config.KeyDelimiter, flags.Lookup("delimiter"))
	_ = a.v.BindPFlag(config.KeyTop, flags.Lookup("top"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyFailOnError, flags.Lookup("fail-on-error"))

	rootCmd.AddCommand(newScanCmd(a))

	return rootCmd
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

func (a *app) init(stderr io.Writer) error {
	used, err := config.ReadFile(a.v, a.cfgFile)
	if err != nil {
		return err
	}

	a.settings, err = config.Decode(a.v)
	if err != nil {
		return err
	}

	a.logger, err = logging.NewLogger(stderr, a.settings.Log.Level, a.settings.Log.Format)
	if err != nil {
		return err
	}

	if used != "" {
		a.logger.Info("using config file", "path", used)
	}

	return nil
}

func (a *app) runFile(cmd *cobra.Command, args []string) error {
	input := args[0]
	out := cmd.OutOrStdout()

	rep, err := a.profileFile(input)
	if err != nil {
		return a.reportError(out, input, err)
	}

	if len(args) < 2 {
		return report.Print(out, rep)
	}

	output := args[1]
	if err := report.SaveCSV(output, rep); err != nil {
		return a.reportError(out, input, err)
	}
	fmt.Fprintf(out, "Data overview saved to %s\n", output)

	return nil
}

// profileFile loads and profiles one input file.
func (a *app) profileFile(path string) (*profiler.Report, error) {
	start := time.Now()

	loadOpts := loader.DefaultOptions()
	loadOpts.Delimiter = a.settings.Delimiter()
	loadOpts.Logger = a.logger

	t, err := loader.Load(path, loadOpts)
	if err != nil {
		return nil, err
	}

	profileOpts := profiler.DefaultOptions()
	profileOpts.Top = a.settings.Profile.Top

	rep := profiler.Profile(path, t, profileOpts)

	if info, err := os.Stat(path); err == nil {
		a.logger.Debug("profiled file",
			"path", path,
			"size", humanize.Bytes(uint64(info.Size())),
			"rows", humanize.Comma(int64(rep.Rows)),
			"columns", len(rep.Columns),
			"elapsed", time.Since(start).Round(time.Millisecond))
	}

	return rep, nil
}

// reportError logs err by kind and prints the one-line message the user
// sees. It returns errReported only when a failing exit status is wanted.
func (a *app) reportError(out io.Writer, path string, err error) error {
	var le *loader.Error
	if errors.As(err, &le) {
		switch le.Kind {
		case loader.UnsupportedFormat:
			a.logger.Warn("unsupported file format", "path", path, "kind", le.Kind)
		case loader.FileAccess:
			a.logger.Error("cannot access file", "path", path, "kind", le.Kind, "error", le.Err)
		case loader.Parse:
			a.logger.Error("cannot parse file", "path", path, "kind", le.Kind, "error", le.Err)
		}
	} else {
		a.logger.Error("failed to write overview", "path", path, "error", err)
	}

	fmt.Fprintf(out, "Error processing file: %v\n", err)

	if a.settings.FailOnError {
		return errReported
	}
	return nil
}
