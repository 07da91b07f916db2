package simulation

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/ruteri/go-padnet/padalloc"
)

// ScenarioStats aggregates the wasted-pad counts of one scenario's
// executions.
type ScenarioStats struct {
	Scenario      string  `json:"scenario"`
	ActiveParties int     `json:"active_parties"`
	AvgWasted     float64 `json:"avg_wasted"`
	MinWasted     int     `json:"min_wasted"`
	MaxWasted     int     `json:"max_wasted"`
	AvgMessages   float64 `json:"avg_messages"`
}

// Report is the full outcome of a Monte-Carlo run.
type Report struct {
	Policy     padalloc.Policy `json:"policy"`
	PadCount   int             `json:"pad_count"`
	Gap        int             `json:"gap"`
	Executions int             `json:"executions"`
	Seed       int64           `json:"seed"`

	// Baseline is the waste of a naive static quarter-split scheme,
	// 0.75 × n, included for comparison.
	Baseline  float64         `json:"baseline_wasted"`
	Scenarios []ScenarioStats `json:"scenarios"`
}

// newScenarioStats folds the execution results into per-scenario statistics.
func newScenarioStats(sc Scenario, results []ExecutionResult) ScenarioStats {
	stats := ScenarioStats{
		Scenario:      sc.Name,
		ActiveParties: sc.ActiveParties,
		MinWasted:     results[0].Wasted,
		MaxWasted:     results[0].Wasted,
	}

	var wastedSum, messagesSum int
	for _, res := range results {
		wastedSum += res.Wasted
		messagesSum += res.Messages
		if res.Wasted < stats.MinWasted {
			stats.MinWasted = res.Wasted
		}
		if res.Wasted > stats.MaxWasted {
			stats.MaxWasted = res.Wasted
		}
	}

	stats.AvgWasted = float64(wastedSum) / float64(len(results))
	stats.AvgMessages = float64(messagesSum) / float64(len(results))
	return stats
}

// WriteText prints the human-readable report.
func (rep *Report) WriteText(w io.Writer) error {
	fmt.Fprintf(w, "=== Pad allocation report ===\n")
	fmt.Fprintf(w, "Policy: %s\n", rep.Policy)
	fmt.Fprintf(w, "Pads: %d, gap: %d, executions per scenario: %d, seed: %d\n",
		rep.PadCount, rep.Gap, rep.Executions, rep.Seed)
	fmt.Fprintf(w, "Naive quarter-split baseline: %.1f wasted\n", rep.Baseline)

	for _, sc := range rep.Scenarios {
		fmt.Fprintf(w, "  %-22s avg wasted %.1f (min %d, max %d), avg messages %.1f\n",
			sc.Scenario+":", sc.AvgWasted, sc.MinWasted, sc.MaxWasted, sc.AvgMessages)
	}

	_, err := fmt.Fprintln(w, "=============================")
	return err
}

// WriteJSON prints the report as indented JSON.
func (rep *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}
