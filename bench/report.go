package bench

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/inference-sim/rwbench/rwlock"
)

// ErrFileAccess wraps failures writing the results file.
var ErrFileAccess = errors.New("bench: file access failure")

var banner = strings.Repeat("=", 49)

// Report is the outcome of one run, printed to the console and optionally
// saved as JSON.
type Report struct {
	RunID          string   `json:"run_id"`
	Lock           string   `json:"lock"`
	Threads        int      `json:"threads"`
	TotalOps       int      `json:"total_ops"`
	OpsPerThread   int      `json:"ops_per_thread"`
	CompletedOps   int      `json:"completed_ops"`
	SearchProb     float64  `json:"search_prob"`
	InsertProb     float64  `json:"insert_prob"`
	DeleteProb     float64  `json:"delete_prob"`
	InitialKeys    int      `json:"initial_keys"`
	FinalKeys      int      `json:"final_keys"`
	Seed           int64    `json:"seed"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
	OpsPerSec      float64  `json:"ops_per_sec"`
	Counts         OpCounts `json:"counts"`
	Host           string   `json:"host,omitempty"`
}

func (h *Harness) newReport(elapsed time.Duration) *Report {
	counts := h.State.Metrics.Counts()
	r := &Report{
		RunID:          h.RunID,
		Lock:           h.Config.LockKind,
		Threads:        h.Config.Threads,
		TotalOps:       h.Config.TotalOps,
		OpsPerThread:   h.Config.OpsPerThread(),
		CompletedOps:   counts.Total(),
		SearchProb:     h.Config.SearchProb,
		InsertProb:     h.Config.InsertProb,
		DeleteProb:     h.Config.DeleteProb,
		InitialKeys:    h.inserted,
		FinalKeys:      h.State.List.Len(),
		Seed:           h.Config.Seed,
		ElapsedSeconds: elapsed.Seconds(),
		Counts:         counts,
	}
	if r.ElapsedSeconds > 0 {
		r.OpsPerSec = float64(r.CompletedOps) / r.ElapsedSeconds
	}
	return r
}

// Preview returns a report of the configuration and the populated list,
// before any worker has run.
func (h *Harness) Preview() *Report {
	return h.newReport(0)
}

// percent returns n as a percentage of the completed operations, not of the
// requested TotalOps, so the per-thread remainder never shows up as missing.
func (r *Report) percent(n int) float64 {
	if r.CompletedOps == 0 {
		return 0
	}
	return float64(n) * 100.0 / float64(r.CompletedOps)
}

// PrintHeader writes the configuration echo that precedes a run.
func (r *Report) PrintHeader(w io.Writer) {
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Using %s\n", rwlock.Describe(r.Lock))
	fmt.Fprintln(w, banner)
	fmt.Fprintf(w, "Inserted %d keys in empty list\n", r.InitialKeys)
	fmt.Fprintf(w, "Initial list size: %d\n", r.InitialKeys)
	fmt.Fprintf(w, "Threads: %d\n", r.Threads)
	fmt.Fprintf(w, "Total operations: %d\n", r.TotalOps)
	fmt.Fprintf(w, "Search/Insert/Delete ratio: %.1f%% / %.1f%% / %.1f%%\n",
		r.SearchProb*100, r.InsertProb*100, r.DeleteProb*100)
	if r.Host != "" {
		fmt.Fprintf(w, "Host: %s\n", r.Host)
	}
	fmt.Fprintln(w, banner)
}

// Print writes the configuration echo followed by the results.
func (r *Report) Print(w io.Writer) {
	r.PrintHeader(w)
	r.PrintResults(w)
}

// PrintResults writes the timing and the operation breakdown.
func (r *Report) PrintResults(w io.Writer) {
	fmt.Fprintln(w, "\nResults:")
	fmt.Fprintf(w, "Elapsed time = %e seconds\n", r.ElapsedSeconds)
	fmt.Fprintf(w, "Total operations completed = %d\n", r.CompletedOps)
	fmt.Fprintf(w, "Operations per thread = %d\n", r.OpsPerThread)
	fmt.Fprintln(w, "\nOperation breakdown:")
	fmt.Fprintf(w, "  Member (search) ops = %d (%.1f%%), found %d\n",
		r.Counts.Member, r.percent(r.Counts.Member), r.Counts.MemberHits)
	fmt.Fprintf(w, "  Insert ops = %d (%.1f%%), added %d\n",
		r.Counts.Insert, r.percent(r.Counts.Insert), r.Counts.InsertHits)
	fmt.Fprintf(w, "  Delete ops = %d (%.1f%%), removed %d\n",
		r.Counts.Delete, r.percent(r.Counts.Delete), r.Counts.DeleteHits)
	fmt.Fprintf(w, "\nOperations per second: %e\n", r.OpsPerSec)
	fmt.Fprintf(w, "Final list size: %d\n", r.FinalKeys)
	fmt.Fprintf(w, "Run ID: %s\n", r.RunID)
	fmt.Fprintln(w, banner)
}

// SaveResults writes the report as indented JSON to path.
func (r *Report) SaveResults(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding results: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrFileAccess, err)
	}
	logrus.Infof("results written to %s", path)
	return nil
}
