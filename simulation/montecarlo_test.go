package simulation

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	mrand "math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ruteri/go-padnet/padalloc"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunExecutionSingleParty(t *testing.T) {
	// One active party under the dynamic policy sweeps everything but the
	// d-wide clearance regardless of which party it is.
	for p := padalloc.Party(0); p < padalloc.NumParties; p++ {
		alloc, err := padalloc.New(padalloc.PolicyDynamicBoundary, 100, 5)
		require.NoError(t, err)

		rng := mrand.New(mrand.NewSource(1))
		res, err := RunExecution(alloc, []padalloc.Party{p}, rng)
		require.NoError(t, err)
		require.Equal(t, 5, res.Wasted, "party %d", p)
		require.Equal(t, 100, res.Used+res.Wasted)
	}
}

func TestRunExecutionAllParties(t *testing.T) {
	for _, policy := range []padalloc.Policy{padalloc.PolicyFixedZone, padalloc.PolicyDynamicBoundary} {
		alloc, err := padalloc.New(policy, 200, 7)
		require.NoError(t, err)

		rng := mrand.New(mrand.NewSource(3))
		active := []padalloc.Party{0, 1, 2, 3}
		res, err := RunExecution(alloc, active, rng)
		require.NoError(t, err)

		require.Equal(t, 200, res.Used+res.Wasted, "policy %s", policy)
		require.Positive(t, res.Messages)
		// Every message claims a distinct pad.
		require.LessOrEqual(t, res.Messages, res.Used)
	}
}

func TestRunExecutionStopsAtFirstRejection(t *testing.T) {
	// Party 1 drains its whole fixed zone up front, which leaves party 0
	// permanently blocked while the right zone is still untouched. The
	// first turn party 0 draws must end the execution even though party 2
	// has plenty of room left.
	alloc, err := padalloc.New(padalloc.PolicyFixedZone, 100, 5)
	require.NoError(t, err)
	for {
		_, ok, err := alloc.Claim(1)
		require.NoError(t, err)
		if !ok {
			break
		}
	}

	rng := mrand.New(mrand.NewSource(2))
	res, err := RunExecution(alloc, []padalloc.Party{0, 2}, rng)
	require.NoError(t, err)

	_, ok, err := alloc.PeekNext(2)
	require.NoError(t, err)
	require.True(t, ok, "execution must halt while party 2 can still claim")
	require.Less(t, res.Messages, 45)
}

func TestRunExecutionAllActiveWasteNearGap(t *testing.T) {
	// With all four parties active under the dynamic policy an execution
	// ends at the first rejection, so waste must scale with the gap, not
	// the pool: far below the 3n/4 a naive static quarter-split loses.
	const (
		n          = 1000
		d          = 10
		executions = 100
	)

	active := []padalloc.Party{0, 1, 2, 3}
	total := 0
	for i := 0; i < executions; i++ {
		alloc, err := padalloc.New(padalloc.PolicyDynamicBoundary, n, d)
		require.NoError(t, err)

		rng := mrand.New(mrand.NewSource(int64(i)))
		res, err := RunExecution(alloc, active, rng)
		require.NoError(t, err)
		require.LessOrEqual(t, res.Wasted, 3*d, "execution %d", i)
		total += res.Wasted
	}
	require.Less(t, float64(total)/executions, 0.75*n/10)
}

func TestRunnerReport(t *testing.T) {
	cfg := &Config{
		PadCount:   200,
		Gap:        5,
		Executions: 20,
		Seed:       42,
		Policy:     padalloc.PolicyDynamicBoundary,
		Workers:    3,
	}

	runner, err := NewRunner(cfg, testLogger())
	require.NoError(t, err)

	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	completed, total := runner.Progress()
	require.Equal(t, total, completed)
	require.Equal(t, int64(60), total)

	require.Equal(t, 150.0, report.Baseline)
	require.Len(t, report.Scenarios, 3)

	for _, sc := range report.Scenarios {
		require.LessOrEqual(t, float64(sc.MinWasted), sc.AvgWasted, sc.Scenario)
		require.LessOrEqual(t, sc.AvgWasted, float64(sc.MaxWasted), sc.Scenario)
		require.Positive(t, sc.AvgMessages, sc.Scenario)

		// The dynamic policy loses pads proportional to the gap; even
		// the worst scenario must land far under the quarter-split
		// baseline.
		require.Less(t, sc.AvgWasted, report.Baseline/2, sc.Scenario)
	}
}

func TestRunnerDeterministic(t *testing.T) {
	cfg := &Config{
		PadCount:   100,
		Gap:        5,
		Executions: 10,
		Seed:       7,
		Policy:     padalloc.PolicyFixedZone,
		Workers:    4,
	}

	run := func() *Report {
		runner, err := NewRunner(cfg, testLogger())
		require.NoError(t, err)
		report, err := runner.Run(context.Background())
		require.NoError(t, err)
		return report
	}

	// Worker scheduling must not leak into the results.
	require.Equal(t, run(), run())
}

func TestRunnerRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gap = cfg.PadCount

	_, err := NewRunner(cfg, testLogger())
	require.ErrorIs(t, err, padalloc.ErrInvalidConfiguration)
}

func TestRunnerCancellation(t *testing.T) {
	cfg := &Config{
		PadCount:   1000,
		Gap:        10,
		Executions: 1000,
		Seed:       42,
		Policy:     padalloc.PolicyDynamicBoundary,
		Workers:    1,
	}

	runner, err := NewRunner(cfg, testLogger())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runner.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
}

func TestReportWriters(t *testing.T) {
	cfg := &Config{
		PadCount:   100,
		Gap:        5,
		Executions: 5,
		Seed:       42,
		Policy:     padalloc.PolicyDynamicBoundary,
		Workers:    2,
	}

	runner, err := NewRunner(cfg, testLogger())
	require.NoError(t, err)
	report, err := runner.Run(context.Background())
	require.NoError(t, err)

	var text bytes.Buffer
	require.NoError(t, report.WriteText(&text))
	require.True(t, strings.Contains(text.String(), "dynamic-boundary"))
	require.True(t, strings.Contains(text.String(), "baseline"))
	require.True(t, strings.Contains(text.String(), "all four active"))

	var raw bytes.Buffer
	require.NoError(t, report.WriteJSON(&raw))

	var decoded Report
	require.NoError(t, json.Unmarshal(raw.Bytes(), &decoded))
	require.Equal(t, *report, decoded)
}
