package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tillbook-dev/tillbook/internal/config"
	"github.com/tillbook-dev/tillbook/internal/journal"
	"github.com/tillbook-dev/tillbook/internal/run"
	"github.com/tillbook-dev/tillbook/internal/runlog"
	"github.com/tillbook-dev/tillbook/internal/settings"
)

const entryDateFormat = "02/01/2006"

func newGenerateCommand() *cobra.Command {
	var (
		workDir     string
		user        string
		label       string
		journalCode string
		dateStr     string
		format      string
		outPath     string
	)

	cmd := &cobra.Command{
		Use:   "generate <export.xlsx>",
		Short: "Generate the sales journal from a till export",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(workDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			var date time.Time
			if dateStr != "" {
				date, err = time.Parse(entryDateFormat, dateStr)
				if err != nil {
					return fmt.Errorf("parsing --date %q (want dd/mm/yyyy): %w", dateStr, err)
				}
			}

			return runGenerate(cmd, generateOptions{
				workDir:     absDir,
				source:      args[0],
				user:        user,
				label:       label,
				journalCode: journalCode,
				date:        date,
				format:      format,
				outPath:     outPath,
			})
		},
	}

	cmd.Flags().StringVar(&workDir, "dir", ".", "tillbook work directory")
	cmd.Flags().StringVar(&user, "user", "default", "settings profile to apply")
	cmd.Flags().StringVar(&label, "label", "", "entry label (default \"<prefix> MM-YYYY\" from the period)")
	cmd.Flags().StringVar(&journalCode, "journal-code", "", "journal code (default from config)")
	cmd.Flags().StringVar(&dateStr, "date", "", "entry date dd/mm/yyyy (default last day of the period)")
	cmd.Flags().StringVar(&format, "format", "csv", "export format: csv, xlsx or pdf")
	cmd.Flags().StringVar(&outPath, "out", "", "output file (default exports/ECRITURES_<MM-YYYY>.<format>)")

	return cmd
}

type generateOptions struct {
	workDir     string
	source      string
	user        string
	label       string
	journalCode string
	date        time.Time
	format      string
	outPath     string
}

// loadConfig reads <dir>/tillbook.yaml, falling back to the stock layout
// when the work directory was never initialized.
func loadConfig(dir string) (*config.Config, error) {
	cfg, err := config.Load(filepath.Join(dir, "tillbook.yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	cfg, err := loadConfig(opts.workDir)
	if err != nil {
		return err
	}
	sett, err := settings.Load(opts.workDir, opts.user)
	if err != nil {
		return err
	}

	runner := run.NewRunner(cfg, sett.Overrides())
	res, err := runner.ExecuteFile(opts.source, run.Options{
		User:        opts.user,
		SourceName:  filepath.Base(opts.source),
		Label:       opts.label,
		JournalCode: opts.journalCode,
		Date:        opts.date,
	})
	if err != nil {
		return err
	}

	for _, w := range res.Warnings {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}

	out := opts.outPath
	if out == "" {
		name := fmt.Sprintf("ECRITURES_%s.%s", res.Period.Label(), opts.format)
		out = filepath.Join(opts.workDir, "exports", name)
	}
	if err := writeExport(out, opts.format, res); err != nil {
		return err
	}

	if err := runlog.Append(opts.workDir, runlog.Entry{
		Timestamp:   time.Now(),
		User:        opts.user,
		SourceFile:  filepath.Base(opts.source),
		Period:      res.Period.String(),
		Lines:       len(res.Journal.Lines),
		TotalDebit:  res.Summary.TotalDebit,
		TotalCredit: res.Summary.TotalCredit,
		Difference:  res.Summary.Difference,
	}); err != nil {
		return fmt.Errorf("appending run log: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d lines for %s, %s\n%s\n",
		len(res.Journal.Lines), res.Period, res.Summary, out)
	return nil
}

func writeExport(path, format string, res *run.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating export dir: %w", err)
	}

	switch strings.ToLower(format) {
	case "csv":
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export: %w", err)
		}
		defer f.Close()
		if err := journal.WriteCSV(f, res.Journal); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		return nil
	case "xlsx":
		data, err := journal.BuildXLSX(res.Journal, res.Summary)
		if err != nil {
			return fmt.Errorf("building workbook: %w", err)
		}
		return writeFile(path, data)
	case "pdf":
		data, err := journal.BuildPDF(res.Journal, res.Summary, res.Label)
		if err != nil {
			return fmt.Errorf("building pdf: %w", err)
		}
		return writeFile(path, data)
	default:
		return fmt.Errorf("unknown format %q (want csv, xlsx or pdf)", format)
	}
}

func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
