package simulation

import (
	"math/rand"

	"github.com/ruteri/go-padnet/padalloc"
)

// Scenario names a class of executions by how many of the four parties
// actively claim pads.
type Scenario struct {
	Name          string
	ActiveParties int
}

// Scenarios returns the three standard experiment scenarios.
func Scenarios() []Scenario {
	return []Scenario{
		{Name: "one active party", ActiveParties: 1},
		{Name: "two active parties", ActiveParties: 2},
		{Name: "all four active", ActiveParties: 4},
	}
}

// ExecutionResult summarizes one completed execution.
type ExecutionResult struct {
	// Messages counts the successful claims across all active parties.
	Messages int

	// Used and Wasted are the allocator's final accounting; they always
	// sum to the pad count.
	Used   int
	Wasted int
}

// pickActive draws a random subset of the given size, so repeated executions
// cover all party combinations of a scenario.
func pickActive(rng *rand.Rand, size int) []padalloc.Party {
	perm := rng.Perm(padalloc.NumParties)
	active := make([]padalloc.Party, size)
	for i := range active {
		active[i] = padalloc.Party(perm[i])
	}
	return active
}

// RunExecution claims pads for uniformly chosen active parties and stops at
// the first rejection: once any active party cannot claim safely the whole
// execution is over, mirroring a deployment where one sender running dry
// ends the conversation for everyone.
func RunExecution(a *padalloc.Allocator, active []padalloc.Party, rng *rand.Rand) (ExecutionResult, error) {
	var res ExecutionResult
	for {
		_, ok, err := a.Claim(active[rng.Intn(len(active))])
		if err != nil {
			return ExecutionResult{}, err
		}
		if !ok {
			break
		}
		res.Messages++
	}

	res.Used = a.UsedCount()
	res.Wasted = a.WastedCount()
	return res, nil
}
