package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// toggle is the value of the auto|on|off flags (--color, --ui).
type toggle string

const (
	toggleAuto toggle = "auto"
	toggleOn   toggle = "on"
	toggleOff  toggle = "off"
)

func parseToggle(flag, value string) (toggle, error) {
	switch t := toggle(strings.ToLower(strings.TrimSpace(value))); t {
	case "":
		return toggleAuto, nil
	case toggleAuto, toggleOn, toggleOff:
		return t, nil
	}
	return "", fmt.Errorf("invalid --%s value %q (expected auto|on|off)", flag, value)
}

// resolve turns auto into the answer of detect.
func (t toggle) resolve(detect func() bool) bool {
	switch t {
	case toggleOn:
		return true
	case toggleOff:
		return false
	}
	return detect()
}

type flagGetter interface {
	GetString(name string) (string, error)
}

func readToggle(flags flagGetter, name string) (toggle, error) {
	value, err := flags.GetString(name)
	if err != nil {
		return "", fmt.Errorf("failed to get %s flag: %w", name, err)
	}
	return parseToggle(name, value)
}

// colorFor decides colour for output written to f. NO_COLOR only affects auto.
func colorFor(t toggle, f *os.File) bool {
	return t.resolve(func() bool {
		return os.Getenv("NO_COLOR") == "" && isTerminal(f)
	})
}

func useColor(cmd *cobra.Command, f *os.File) bool {
	t, err := readToggle(cmd.Root().PersistentFlags(), "color")
	if err != nil {
		return false
	}
	return colorFor(t, f)
}

// useTUI reports whether the progress view runs: it needs a terminal on stdout.
func useTUI(t toggle) bool {
	return t.resolve(func() bool { return isTerminal(os.Stdout) })
}
