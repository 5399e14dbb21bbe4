package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mjgrzymek/PeanoScript/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Create a peano.toml project file",
	Long: `Initialize a PeanoScript project by writing peano.toml and, when missing, a
main.peano with a first proof. Without [dir] the current directory is used;
a missing directory is created.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

const mainTemplate = `// Every natural number is equal to itself.
const refl: (x: N) => x == x = x => eqRefl(x);

console.log(refl(2));
`

func runInit(cmd *cobra.Command, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	created, err := initProject(target)
	if err != nil {
		return err
	}
	if !isQuiet(cmd) {
		for _, p := range created {
			fmt.Fprintf(cmd.OutOrStdout(), "created %s\n", p)
		}
	}
	return nil
}

// initProject writes the manifest into dir and a starter file next to it.
// An existing main.peano is left alone.
func initProject(dir string) ([]string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if st, err := os.Stat(abs); err == nil && !st.IsDir() {
		return nil, fmt.Errorf("%q is not a directory", abs)
	}
	manifest, err := config.WriteDefault(abs)
	if err != nil {
		if errors.Is(err, config.ErrExists) {
			return nil, fmt.Errorf("project already initialized: %w", err)
		}
		return nil, fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}
	created := []string{manifest}

	mainPath := filepath.Join(abs, "main.peano")
	f, err := os.OpenFile(mainPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	switch {
	case errors.Is(err, os.ErrExist):
		return created, nil
	case err != nil:
		return created, err
	}
	if _, err := f.WriteString(mainTemplate); err != nil {
		_ = f.Close()
		return created, err
	}
	if err := f.Close(); err != nil {
		return created, err
	}
	return append(created, mainPath), nil
}
