package app

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/hetulpatel/appealdigest/internal/pipeline"
	"github.com/hetulpatel/appealdigest/internal/runner"
)

func printSummary(w io.Writer, s runner.Summary) {
	header := color.New(color.FgCyan, color.Bold)
	fmt.Fprintln(w)
	header.Fprintln(w, strings.Repeat("=", 80))
	header.Fprintf(w, "Run %s\n", s.RunID)
	header.Fprintln(w, strings.Repeat("=", 80))

	for _, out := range s.Outcomes {
		var clr *color.Color
		switch out.Kind {
		case pipeline.KindSuccess:
			clr = color.New(color.FgGreen)
		case pipeline.KindImprovedFailure:
			clr = color.New(color.FgYellow)
		default:
			clr = color.New(color.FgRed)
		}
		if !out.Persisted() {
			clr = color.New(color.FgYellow)
		}
		clr.Fprintf(w, "  %-40s %s\n", out.Document.Name(), runner.Status(out))
		if out.Cause != nil && out.Kind != pipeline.KindSuccess {
			color.New(color.FgHiBlack).Fprintf(w, "    %v\n", out.Cause)
		}
	}

	fmt.Fprintln(w)
	if s.Interrupted {
		color.New(color.FgRed, color.Bold).Fprintf(w, "Run interrupted after %d of %d PDF files.\n", len(s.Outcomes), s.Total)
	} else {
		color.New(color.FgGreen, color.Bold).Fprintln(w, "All PDF files processed.")
	}
	color.New(color.FgHiBlack).Fprintf(w, "(%d succeeded, %d initial only, %d failed, %d with write errors in %v)\n",
		s.Succeeded, s.ImprovedFailed, s.Failed, s.PersistFailed, s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
}
