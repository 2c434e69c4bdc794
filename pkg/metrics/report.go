package metrics

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	json "github.com/goccy/go-json"
)

// Report is the --stats-json payload.
type Report struct {
	Enabled bool    `json:"enabled"`
	Timings []Stats `json:"timings"`
}

// WriteJSON writes the recorded timings as indented JSON.
func WriteJSON(w io.Writer) error {
	r := Report{Enabled: Enabled(), Timings: Recorded()}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding metrics: %w", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// WriteTable writes a human-readable table of recorded timings.
func WriteTable(w io.Writer) error {
	stats := Recorded()
	if len(stats) == 0 {
		_, err := fmt.Fprintln(w, "no timings recorded")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "METRIC\tCOUNT\tAVG(ms)\tMAX(ms)\tTOTAL(ms)")
	for _, s := range stats {
		fmt.Fprintf(tw, "%s\t%d\t%.3f\t%.3f\t%.3f\n", s.Name, s.Count, s.AvgMs, s.MaxMs, s.TotalMs)
	}
	return tw.Flush()
}

// Summary lists the average of each recorded metric, one per line.
func Summary() string {
	var lines []string
	for _, s := range Recorded() {
		lines = append(lines, fmt.Sprintf("%s %.2fms", s.Name, s.AvgMs))
	}
	return strings.Join(lines, "\n")
}
