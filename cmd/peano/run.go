package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mjgrzymek/PeanoScript/internal/diagfmt"
	"github.com/mjgrzymek/PeanoScript/internal/driver"
	"github.com/mjgrzymek/PeanoScript/internal/source"
	"github.com/mjgrzymek/PeanoScript/internal/value"
)

var runCmd = &cobra.Command{
	Use:   "run [flags] file.peano",
	Short: "Check a PeanoScript file and evaluate its console.log calls",
	Long: `Run checks a PeanoScript file and, when it has no errors, evaluates every
console.log argument in order. Proofs are programs: the output shows the
values their realizers compute.`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().Duration("timeout", 0, "stop evaluation after this long (0 = no limit)")
	runCmd.Flags().Bool("hardcoded-impls", false, "replace decision procedure realizers with direct computations")
	runCmd.Flags().Bool("show-type", false, "print the type of the program")
}

type runOptions struct {
	driver   driver.Options
	timeout  time.Duration
	showType bool
	color    bool
	timings  bool
}

func runRun(cmd *cobra.Command, args []string) error {
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return fmt.Errorf("failed to get timeout flag: %w", err)
	}
	if timeout < 0 {
		return fmt.Errorf("--timeout must not be negative")
	}
	hardcoded := app.cfg.Check.HardcodedImpls
	if cmd.Flags().Changed("hardcoded-impls") {
		hardcoded, _ = cmd.Flags().GetBool("hardcoded-impls")
	}
	showType, _ := cmd.Flags().GetBool("show-type")

	opts := runOptions{
		driver: driver.Options{
			HardcodedImpls: hardcoded,
			MaxDiagnostics: maxDiagnostics(),
		},
		timeout:  timeout,
		showType: showType,
		color:    useColor(cmd, os.Stderr),
		timings:  showTimings(cmd),
	}
	failed, err := runFile(cmd.Context(), args[0], opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if failed {
		cmd.SilenceErrors = true
		return errDiagnostics
	}
	return nil
}

// runFile compiles path and prints its console.log outputs to out. It
// reports failure when the file has errors or an output is an error.
func runFile(ctx context.Context, path string, opts runOptions, out, errOut io.Writer) (bool, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return false, err
	}
	file := fs.Get(id)

	kill := value.NewKillSwitch()
	copts := opts.driver
	copts.NoEval = true
	res, err := driver.CompileFile(ctx, fs, file, copts, nil, kill)
	if err != nil {
		return false, err
	}
	if res.Bag.Len() > 0 {
		diagfmt.Pretty(errOut, res.Bag, fs, diagfmt.PrettyOpts{Color: opts.color, Context: 2, ShowFixes: true})
	}
	if res.HasErrors() {
		return true, nil
	}

	evalCtx := ctx
	if opts.timeout > 0 {
		var cancel context.CancelFunc
		evalCtx, cancel = context.WithTimeout(ctx, opts.timeout)
		defer cancel()
		timer := time.AfterFunc(opts.timeout, kill.Kill)
		defer timer.Stop()
	}

	entries := res.Logs()
	for _, e := range entries {
		e.Slot.Start(evalCtx)
	}
	dim := color.New(color.Faint)
	bad := color.New(color.FgRed)
	failed := false
	for _, e := range entries {
		lr, err := e.Slot.Wait(ctx)
		if err != nil {
			return failed, err
		}
		pos := file.Position(e.Span.Start)
		text := lr.Text
		if lr.IsError {
			failed = true
			if strings.HasPrefix(text, value.ErrKilled.Error()) && opts.timeout > 0 {
				text = fmt.Sprintf("timed out after %s", opts.timeout)
			}
			text = bad.Sprint(text)
		}
		fmt.Fprintf(out, "%d:%d: %s %s\n", pos.Line, pos.Col, text, dim.Sprintf("(%s)", formatElapsed(e.Slot.Elapsed())))
	}

	if opts.showType {
		fmt.Fprintf(out, "type: %s\n", res.Type)
	}
	if opts.timings {
		printTimings(errOut, res.Timings)
	}
	return failed, nil
}

func formatElapsed(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return "<1ms"
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
}
