package main

import (
	"fmt"
	"io"

	"github.com/mjgrzymek/PeanoScript/internal/observ"
)

func printTimings(out io.Writer, report observ.Report) {
	if out == nil || len(report.Phases) == 0 {
		return
	}
	if _, err := fmt.Fprint(out, report.Summary()); err != nil {
		panic(err)
	}
}
