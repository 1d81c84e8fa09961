package delay

import (
	"fmt"
	"io"
	"strings"
)

// banner is the separator line used by the summary block.
var banner = strings.Repeat("=", 60)

// WriteReport prints one status line per record: the tier and delay for
// processed records, a warning for skipped ones.
func WriteReport(w io.Writer, results []RecordResult) {
	for _, res := range results {
		if res.Skip != nil {
			fmt.Fprintf(w, "%-8sWarning: %s\n", "[warn]", res.Skip.Message(res.Name))
			continue
		}
		fmt.Fprintf(w, "%-8s%-20s: %3d days delay\n",
			"["+string(res.Tier)+"]", res.Name, res.Days)
	}
}

// WriteSummary prints the aggregate block: counts by type, average delay over
// the configured divisor, and the total delay.
func WriteSummary(w io.Writer, sum Summary, div Divisor) {
	fmt.Fprintln(w, banner)
	fmt.Fprintln(w, "Summary:")
	fmt.Fprintf(w, "  Total Deployments: %d\n", sum.Total)
	fmt.Fprintf(w, "  Sprints: %d\n", sum.Sprints)
	fmt.Fprintf(w, "  Hotfixes: %d\n", sum.Hotfixes)
	fmt.Fprintf(w, "  Average Delay: %.1f days (over %s records)\n", sum.AverageDelay(div), div)
	fmt.Fprintf(w, "  Total Delay: %d days\n", sum.TotalDelay)
	fmt.Fprintln(w, banner)
}
