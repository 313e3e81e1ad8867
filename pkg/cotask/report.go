package cotask

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"
)

// WriteReport writes one row per task in declaration order.
func (s *Scheduler) WriteReport(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tPRIO\tPERIOD\tSTATE\tRUNS\tLATE\tOVERRUNS\tFAULTS\tLAST\tMAX\tAVG")
	for _, t := range s.tasks {
		state := t.State()
		if t.disabled {
			state = "DISABLED"
		} else if state == "" {
			state = "-"
		}
		period := "-"
		if t.Periodic() {
			period = t.Period.String()
		}
		st := t.stats
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n",
			t.Name, t.Priority, period, state,
			st.Runs, st.LateRuns, st.Overruns, st.Faults,
			fmtDuration(t.Profile, st.LastDuration),
			fmtDuration(t.Profile, st.MaxDuration),
			fmtDuration(t.Profile, st.AvgDuration()))
	}
	return tw.Flush()
}

func fmtDuration(profiled bool, d time.Duration) string {
	if !profiled {
		return "-"
	}
	return d.Round(time.Microsecond).String()
}
