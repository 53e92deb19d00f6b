package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/peekknuf/dataoverview/internal/connectors"
	"github.com/peekknuf/dataoverview/internal/loader"
	"github.com/peekknuf/dataoverview/internal/report"
)

type scanOptions struct {
	dirPath   string
	outDir    string
	recursive bool
	minSize   int64
	maxSize   int64
}

func newScanCmd(a *app) *cobra.Command {
	var opts scanOptions

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Generate an overview for every data file in a directory",
		Long: `Scan a directory for CSV and Excel files and generate
an overview of each one, printed or saved next to each other in --out-dir.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runScan(cmd, opts)
		},
	}

	scanCmd.Flags().StringVarP(&opts.dirPath, "dir", "d", "",
		"Directory to scan (required)")
	scanCmd.Flags().StringVarP(&opts.outDir, "out-dir", "o", "",
		"Directory to save one <name>_overview.csv per file (default: stdout)")
	scanCmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false,
		"Search directories recursively")
	scanCmd.Flags().Int64Var(&opts.minSize, "min-size", 0,
		"Minimum file size in bytes")
	scanCmd.Flags().Int64Var(&opts.maxSize, "max-size", 0,
		"Maximum file size in bytes")

	_ = scanCmd.MarkFlagRequired("dir")

	return scanCmd
}

func (a *app) runScan(cmd *cobra.Command, opts scanOptions) error {
	out := cmd.OutOrStdout()

	files, err := connectors.DiscoverFiles(opts.dirPath, loader.Extensions, connectors.DiscoveryOptions{
		Recursive: opts.recursive,
		MinSize:   opts.minSize,
		MaxSize:   opts.maxSize,
	})
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(files) == 0 {
		fmt.Fprintf(out, "No CSV or Excel files found in %s\n", opts.dirPath)
		return nil
	}

	a.logger.Info("discovered files", "dir", opts.dirPath, "count", len(files))

	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan][reset] Profiling files..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(cmd.ErrOrStderr())
		}),
	)

	var failed error
	for _, file := range files {
		_ = bar.Add(1)

		rep, err := a.profileFile(file.Path)
		if err != nil {
			if rerr := a.reportError(out, file.Path, err); rerr != nil {
				failed = rerr
			}
			continue
		}

		if opts.outDir != "" {
			base := strings.TrimSuffix(filepath.Base(file.Path), filepath.Ext(file.Path))
			target := filepath.Join(opts.outDir, base+"_overview.csv")
			if err := report.SaveCSV(target, rep); err != nil {
				if rerr := a.reportError(out, file.Path, err); rerr != nil {
					failed = rerr
				}
				continue
			}
			fmt.Fprintf(out, "Data overview saved to %s\n", target)
			continue
		}

		metrics := rep.CalculateQuality()
		fmt.Fprintf(out, "\nFile: %s (%s, %s rows, %.2f%% null, %.2f distinct ratio)\n",
			file.Path, humanize.Bytes(uint64(file.Size)),
			humanize.Comma(int64(metrics.TotalRows)), metrics.NullPercentage*100,
			metrics.DistinctRatio)
		if err := report.Print(out, rep); err != nil {
			return err
		}
	}

	_ = bar.Finish()

	return failed
}
