package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mjgrzymek/PeanoScript/internal/diag"
	"github.com/mjgrzymek/PeanoScript/internal/diagfmt"
	"github.com/mjgrzymek/PeanoScript/internal/driver"
	"github.com/mjgrzymek/PeanoScript/internal/fix"
	"github.com/mjgrzymek/PeanoScript/internal/logging"
	"github.com/mjgrzymek/PeanoScript/internal/observ"
	"github.com/mjgrzymek/PeanoScript/internal/source"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.peano|directory>...",
	Short: "Check PeanoScript proofs",
	Long: `Check type-checks PeanoScript files, or every *.peano and *.ps file below the
given directories, in parallel. The exit status is 1 when any file has errors.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|records)")
	checkCmd.Flags().String("ui", "auto", "progress view (auto|on|off)")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=from peano.toml or GOMAXPROCS)")
	checkCmd.Flags().Bool("hardcoded-impls", false, "replace decision procedure realizers with direct computations")
	checkCmd.Flags().Bool("no-cache", false, "do not read or write the check cache")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("fix", false, "apply suggested fixes to the checked files")
	addExerciseFlags(checkCmd)
}

type checkOptions struct {
	format  string
	ui      toggle
	batch   driver.BatchOptions
	notes   bool
	fixes   bool
	apply   bool
	color   bool
	quiet   bool
	timings bool
}

func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "short", "json", "records":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	mode, err := readToggle(cmd.Flags(), "ui")
	if err != nil {
		return err
	}
	ex, err := exerciseFrom(cmd, app.cfg)
	if err != nil {
		return err
	}

	cfg := app.cfg
	hardcoded := cfg.Check.HardcodedImpls
	if cmd.Flags().Changed("hardcoded-impls") {
		hardcoded, _ = cmd.Flags().GetBool("hardcoded-impls")
	}
	jobs := cfg.Check.Jobs
	if cmd.Flags().Changed("jobs") {
		jobs, _ = cmd.Flags().GetInt("jobs")
	}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	notes, _ := cmd.Flags().GetBool("with-notes")
	fixes, _ := cmd.Flags().GetBool("suggest")
	apply, _ := cmd.Flags().GetBool("fix")

	opts := checkOptions{
		format: format,
		ui:     mode,
		batch: driver.BatchOptions{
			Options: driver.Options{
				HardcodedImpls: hardcoded,
				MaxDiagnostics: maxDiagnostics(),
			},
			Exercise: ex,
			Jobs:     jobs,
		},
		notes:   notes,
		fixes:   fixes,
		apply:   apply,
		color:   useColor(cmd, os.Stdout),
		quiet:   isQuiet(cmd),
		timings: showTimings(cmd),
	}
	// records need a fresh check: cached results carry diagnostics only
	if cfg.Cache.Enabled && !noCache && format != "records" {
		cache, err := driver.OpenDiskCache(cfg.Cache.Dir, "peano")
		if err != nil {
			logging.FromContext(cmd.Context()).Warn("check cache disabled", "error", err)
		} else {
			opts.batch.Cache = cache
		}
	}

	failed, err := checkPaths(cmd.Context(), args, opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if failed > 0 {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

// checkPaths checks paths and reports the number of files with errors.
func checkPaths(ctx context.Context, paths []string, opts checkOptions, out, errOut io.Writer) (int, error) {
	files, err := driver.ListFiles(paths)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no PeanoScript files in %s", strings.Join(paths, ", "))
	}

	var (
		fs      *source.FileSet
		results []driver.FileResult
	)
	if opts.format == "pretty" && !opts.quiet && useTUI(opts.ui) {
		fs, results, err = runCheckWithUI(ctx, "checking", files, opts.batch)
	} else {
		fs, results, err = driver.CheckFiles(ctx, files, opts.batch)
	}
	if err != nil {
		return 0, err
	}

	failed := 0
	for _, r := range results {
		if r.Result != nil && r.Result.HasErrors() {
			failed++
		}
	}

	switch opts.format {
	case "json":
		err = writeCheckJSON(out, fs, results, opts)
	case "records":
		err = writeCheckRecords(out, results)
	case "short":
		writeCheckShort(out, fs, results, opts)
	default:
		writeCheckPretty(out, fs, results, opts)
	}
	if err != nil {
		return failed, err
	}
	if opts.apply {
		if err := applyFixes(out, fs, results); err != nil {
			return failed, err
		}
	}
	if opts.timings {
		var total observ.Report
		for _, r := range results {
			if r.Result != nil {
				total = total.Merge(r.Result.Timings)
			}
		}
		printTimings(errOut, total)
	}
	return failed, nil
}

func writeCheckPretty(out io.Writer, fs *source.FileSet, results []driver.FileResult, opts checkOptions) {
	okColor := color.New(color.FgGreen, color.Bold)
	errColor := color.New(color.FgRed, color.Bold)
	prettyOpts := diagfmt.PrettyOpts{
		Color:     opts.color,
		Context:   2,
		ShowNotes: opts.notes,
		ShowFixes: opts.fixes,
	}
	for _, r := range results {
		res := r.Result
		if res == nil {
			continue
		}
		if res.File == nil {
			// the file never loaded, so there is no source to quote
			for _, d := range res.Bag.Items() {
				fmt.Fprintf(out, "%s: %s\n", r.Path, errColor.Sprint(d.Message))
			}
			continue
		}
		if res.Bag.Len() > 0 {
			diagfmt.Pretty(out, res.Bag, fs, prettyOpts)
			fmt.Fprintln(out)
		}
		if opts.quiet {
			continue
		}
		status := okColor.Sprint("ok")
		if res.HasErrors() {
			status = errColor.Sprintf("%d error(s)", countErrors(res))
		} else if res.Cached {
			status += " (cached)"
		}
		fmt.Fprintf(out, "%s: %s\n", r.Path, status)
		if msg, solved := res.ExerciseVerdict(opts.batch.Exercise); msg != "" && !res.HasErrors() {
			c := errColor
			if solved {
				c = okColor
			}
			fmt.Fprintf(out, "  %s\n", c.Sprint(msg))
		}
	}
}

// writeCheckShort prints one line per diagnostic and nothing for clean files.
func writeCheckShort(out io.Writer, fs *source.FileSet, results []driver.FileResult, opts checkOptions) {
	var all []diag.Diagnostic
	for _, r := range results {
		if r.Result == nil || r.Result.Bag == nil {
			continue
		}
		if r.Result.File == nil {
			for _, d := range r.Result.Bag.Items() {
				fmt.Fprintf(out, "%s %s %s %s\n", d.Severity.Label(), d.Code.ID(), r.Path, d.Message)
			}
			continue
		}
		all = append(all, r.Result.Bag.Items()...)
	}
	if text := diag.FormatShort(all, fs, opts.notes); text != "" {
		fmt.Fprintln(out, text)
	}
}

func countErrors(res *driver.Result) int {
	n := 0
	for _, d := range res.Bag.Items() {
		if d.Severity == diag.SevError {
			n++
		}
	}
	return n
}

type exerciseJSON struct {
	Message string `json:"message"`
	Solved  bool   `json:"solved"`
}

type checkFileJSON struct {
	Path     string        `json:"path"`
	Type     string        `json:"type,omitempty"`
	Cached   bool          `json:"cached,omitempty"`
	Exercise *exerciseJSON `json:"exercise,omitempty"`
	diagfmt.DiagnosticsOutput
}

func writeCheckJSON(out io.Writer, fs *source.FileSet, results []driver.FileResult, opts checkOptions) error {
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		IncludeNotes:     opts.notes,
		IncludeFixes:     opts.fixes,
	}
	files := make([]checkFileJSON, 0, len(results))
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		entry := checkFileJSON{
			Path:              r.Path,
			Type:              r.Result.Type,
			Cached:            r.Result.Cached,
			DiagnosticsOutput: diagfmt.BuildDiagnosticsOutput(r.Result.Bag, fs, jsonOpts),
		}
		if msg, solved := r.Result.ExerciseVerdict(opts.batch.Exercise); msg != "" {
			entry.Exercise = &exerciseJSON{Message: msg, Solved: solved}
		}
		files = append(files, entry)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(files)
}

type checkRecordsJSON struct {
	Path string `json:"path"`
	diagfmt.RecordsOutput
}

func writeCheckRecords(out io.Writer, results []driver.FileResult) error {
	files := make([]checkRecordsJSON, 0, len(results))
	for _, r := range results {
		if r.Result == nil {
			continue
		}
		files = append(files, checkRecordsJSON{
			Path:          r.Path,
			RecordsOutput: diagfmt.BuildRecordsOutput(r.Result.Records, false),
		})
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(files)
}

// applyFixes rewrites the checked files with every non-conflicting fix and
// reports what changed. Diagnostics are not recomputed.
func applyFixes(out io.Writer, fs *source.FileSet, results []driver.FileResult) error {
	var diags []diag.Diagnostic
	for _, r := range results {
		if r.Result != nil && r.Result.Bag != nil {
			diags = append(diags, r.Result.Bag.Items()...)
		}
	}
	res, err := fix.Apply(fs, diags, fix.ApplyOptions{Mode: fix.ApplyModeAll})
	if errors.Is(err, fix.ErrNoFixes) {
		fmt.Fprintln(out, "no fixes to apply")
		return nil
	}
	if err != nil {
		return err
	}
	for _, a := range res.Applied {
		fmt.Fprintf(out, "fixed %s:%d:%d: %s\n", a.Path, a.Start.Line, a.Start.Col, a.Title)
	}
	for _, s := range res.Skipped {
		fmt.Fprintf(out, "skipped %s: %s (%s)\n", s.Path, s.Title, s.Reason)
	}
	fmt.Fprintf(out, "applied %d fix(es) in %d file(s)\n", len(res.Applied), len(res.FileChanges))
	return nil
}
