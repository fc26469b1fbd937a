// Package run wires one generation run end to end: ingest, account
// resolution, journal generation, balance check. All state for a run
// lives in an explicit Runner and Result; there are no ambient globals.
package run

import (
	"fmt"
	"io"
	"time"

	"github.com/tillbook-dev/tillbook/internal/accounts"
	"github.com/tillbook-dev/tillbook/internal/config"
	"github.com/tillbook-dev/tillbook/internal/journal"
	"github.com/tillbook-dev/tillbook/internal/model"
	"github.com/tillbook-dev/tillbook/internal/report"
)

// Options are the per-run inputs beyond the workbook itself. Zero values
// mean "derive from config and period".
type Options struct {
	User        string
	SourceName  string
	Label       string
	JournalCode string
	Date        time.Time
	Now         time.Time // injectable clock for the period fallback
}

// Result is everything one run produced.
type Result struct {
	Period   model.Period
	Label    string
	Date     time.Time
	Journal  model.Journal
	Summary  journal.Summary
	Warnings []string
}

// Runner holds the merged configuration for a run. The resolver is built
// once at construction and immutable afterwards.
type Runner struct {
	cfg      *config.Config
	resolver *accounts.Resolver
}

// NewRunner merges the user's overrides into a frozen resolver.
func NewRunner(cfg *config.Config, ov accounts.Overrides) *Runner {
	return &Runner{
		cfg:      cfg,
		resolver: accounts.NewResolver(ov, cfg.Payments.TokenOrder),
	}
}

// Resolver exposes the run's merged account table, e.g. for display.
func (r *Runner) Resolver() *accounts.Resolver {
	return r.resolver
}

// Execute reads a workbook stream and produces the journal. Structural
// failures (unreadable file, missing sheet or column) abort before any
// output; cell-level noise and imbalance surface as warnings instead.
func (r *Runner) Execute(src io.Reader, opts Options) (*Result, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	rpt, err := report.Read(src, r.cfg.Report, now)
	if err != nil {
		return nil, fmt.Errorf("reading till export: %w", err)
	}
	return r.fromReport(rpt, opts), nil
}

// ExecuteFile is Execute for a workbook on disk.
func (r *Runner) ExecuteFile(path string, opts Options) (*Result, error) {
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	rpt, err := report.ReadFile(path, r.cfg.Report, now)
	if err != nil {
		return nil, fmt.Errorf("reading till export: %w", err)
	}
	return r.fromReport(rpt, opts), nil
}

func (r *Runner) fromReport(rpt *report.Report, opts Options) *Result {
	res := &Result{Period: rpt.Period}
	if rpt.PeriodDefaulted {
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("no MM/YYYY marker in the report header; period defaulted to %s", rpt.Period))
	}

	res.Label = opts.Label
	if res.Label == "" {
		res.Label = r.cfg.Journal.LabelPrefix + " " + rpt.Period.Label()
	}
	res.Date = opts.Date
	if res.Date.IsZero() {
		res.Date = rpt.Period.EndOfMonth()
	}
	code := opts.JournalCode
	if code == "" {
		code = r.cfg.Journal.Code
	}

	gen := journal.NewGenerator(r.resolver, journal.Params{
		Date:        res.Date,
		Label:       res.Label,
		JournalCode: code,
	})
	res.Journal = gen.Generate(rpt)
	res.Summary = journal.Verify(res.Journal)
	if !res.Summary.Balanced() {
		res.Warnings = append(res.Warnings, res.Summary.String())
	}
	return res
}
