package evals

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/SaiNageswarS/go-collection-boot/linq"
	"github.com/dustin/go-humanize"
)

type Report struct {
	RunID    string
	Started  time.Time
	Duration time.Duration
	Results  []CaseResult
}

func (r *Report) PassedCount() int {
	passed := 0
	for _, res := range r.Results {
		if res.Passed() {
			passed++
		}
	}
	return passed
}

func (r *Report) AverageScore() float64 {
	if len(r.Results) == 0 {
		return 0
	}
	scores := linq.Map(r.Results, func(res CaseResult) float64 { return res.Verdict.Score })

	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total / float64(len(scores))
}

// Print writes one row per case followed by a summary line.
func (r *Report) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Evaluation %s (started %s)\n", r.RunID, humanize.Time(r.Started))
	fmt.Fprintln(tw, "Case\tPass\tScore\tDuration\tReason")
	for _, res := range r.Results {
		fmt.Fprintf(tw, "%s\t%s\t%.2f\t%s\t%s\n",
			res.Case.Name,
			passMark(res),
			res.Verdict.Score,
			res.Duration.Round(time.Millisecond),
			oneLine(reason(res)))
	}
	fmt.Fprintf(tw, "Passed %d of %d, average score %.2f, total %s\n",
		r.PassedCount(), len(r.Results), r.AverageScore(), r.Duration.Round(time.Millisecond))

	return tw.Flush()
}

func passMark(res CaseResult) string {
	if res.Passed() {
		return "✔"
	}
	return "✗"
}

func reason(res CaseResult) string {
	if res.Err != nil {
		return "error: " + res.Err.Error()
	}
	return res.Verdict.Reason
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
