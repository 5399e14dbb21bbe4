package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/mjgrzymek/PeanoScript/internal/config"
	"github.com/mjgrzymek/PeanoScript/internal/driver"
	"github.com/mjgrzymek/PeanoScript/internal/logging"
	"github.com/mjgrzymek/PeanoScript/internal/prof"
)

// app holds what setupApp resolved for the running command.
var app struct {
	cfg      config.Config
	logger   *logging.Logger
	profiles *prof.Session
}

// setupApp loads peano.toml, builds the logger and attaches it to the
// command context. Flags given on the command line win over the file.
func setupApp(cmd *cobra.Command, _ []string) error {
	flags := cmd.Root().PersistentFlags()

	cfgPath, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	var (
		cfg      config.Config
		warnings []config.Warning
	)
	if cfgPath != "" {
		cfg, warnings, err = config.Load(cfgPath)
	} else {
		cfg, warnings, err = config.Discover(".")
	}
	if err != nil {
		return err
	}

	levelName := cfg.Log.Level
	if flags.Changed("log-level") {
		levelName, _ = flags.GetString("log-level")
	}
	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return err
	}
	logFile := cfg.Log.File
	if flags.Changed("log-file") {
		logFile, _ = flags.GetString("log-file")
	}
	if flags.Changed("max-diagnostics") {
		n, _ := flags.GetInt("max-diagnostics")
		if n <= 0 {
			return fmt.Errorf("--max-diagnostics must be positive, got %d", n)
		}
		cfg.Check.MaxDiagnostics = n
	}

	lg, err := logging.New(logging.Options{
		Level:   level,
		Writer:  cmd.ErrOrStderr(),
		File:    logFile,
		Journal: cfg.Log.Journal,
	})
	if err != nil {
		return err
	}
	app.cfg = cfg
	app.logger = lg
	for _, w := range warnings {
		lg.Warn("peano.toml", "warning", w.String())
	}
	if cfg.Path != "" {
		lg.Debug("config loaded", "path", cfg.Path)
	}

	colorFlag, err := readToggle(flags, "color")
	if err != nil {
		return err
	}
	color.NoColor = !colorFor(colorFlag, os.Stdout)

	profiles, err := profileOptions(flags)
	if err != nil {
		return err
	}
	if profiles.Enabled() {
		if app.profiles, err = prof.Start(profiles); err != nil {
			return err
		}
		lg.Debug("profiling", "cpu", profiles.CPU, "mem", profiles.Mem, "trace", profiles.Trace)
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), lg.Logger))
	return nil
}

func profileOptions(flags flagGetter) (prof.Options, error) {
	var opts prof.Options
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"cpu-profile", &opts.CPU},
		{"mem-profile", &opts.Mem},
		{"runtime-trace", &opts.Trace},
	} {
		v, err := flags.GetString(f.name)
		if err != nil {
			return opts, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
		*f.dst = v
	}
	return opts, nil
}

// closeApp is safe to call more than once.
func closeApp() {
	if app.profiles != nil {
		if err := app.profiles.Stop(); err != nil {
			fmt.Fprintf(os.Stderr, "peano: %v\n", err)
		}
		app.profiles = nil
	}
	if app.logger != nil {
		_ = app.logger.Close()
		app.logger = nil
	}
}

func maxDiagnostics() int {
	if app.cfg.Check.MaxDiagnostics > 0 {
		return app.cfg.Check.MaxDiagnostics
	}
	return 100
}

func isQuiet(cmd *cobra.Command) bool {
	q, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	return q
}

func showTimings(cmd *cobra.Command) bool {
	t, _ := cmd.Root().PersistentFlags().GetBool("timings")
	return t
}

// exerciseFrom combines the exercise flags of cmd with [exercise] of
// peano.toml. The flags must come in pairs.
func exerciseFrom(cmd *cobra.Command, cfg config.Config) (*driver.Exercise, error) {
	name, _ := cmd.Flags().GetString("exercise-var")
	typ, _ := cmd.Flags().GetString("exercise-type")
	return resolveExercise(strings.TrimSpace(name), strings.TrimSpace(typ), cfg)
}

func resolveExercise(name, typ string, cfg config.Config) (*driver.Exercise, error) {
	switch {
	case name != "" && typ != "":
		return &driver.Exercise{VarName: name, TypeSource: typ}, nil
	case name != "" || typ != "":
		return nil, fmt.Errorf("--exercise-var and --exercise-type must be given together")
	case cfg.HasExercise():
		return &driver.Exercise{VarName: cfg.Exercise.Var, TypeSource: cfg.Exercise.Type}, nil
	}
	return nil, nil
}

func addExerciseFlags(cmd *cobra.Command) {
	cmd.Flags().String("exercise-var", "", "name of the proof the program must define")
	cmd.Flags().String("exercise-type", "", "statement the exercise proof must have")
}
