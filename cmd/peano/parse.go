package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mjgrzymek/PeanoScript/internal/ast"
	"github.com/mjgrzymek/PeanoScript/internal/diagfmt"
	"github.com/mjgrzymek/PeanoScript/internal/driver"
	"github.com/mjgrzymek/PeanoScript/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.peano",
	Short: "Parse a PeanoScript source file and output its syntax tree",
	Long: `Parse reads a PeanoScript file from one of the grammar entry points and
prints the result as normalized source, as JSON or as an indented tree`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("start", "code", "grammar entry point (code|expr|logic)")
	parseCmd.Flags().String("format", "source", "output format (source|json|tree)")
}

func runParse(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	startName, err := cmd.Flags().GetString("start")
	if err != nil {
		return fmt.Errorf("failed to get start flag: %w", err)
	}
	start, err := parser.ParseStart(startName)
	if err != nil {
		return err
	}
	switch format {
	case "source", "json", "tree":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	result, err := driver.Parse(args[0], start, maxDiagnostics())
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if result.Node == nil {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		})
		cmd.SilenceErrors = true
		return errDiagnostics
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		return diagfmt.FormatASTJSON(out, result.Node)
	case "tree":
		return diagfmt.FormatASTPretty(out, result.Node, result.FileSet, result.File.ID)
	default:
		_, err = fmt.Fprintln(out, ast.Unparse(result.Node))
		return err
	}
}
