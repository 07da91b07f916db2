package padalloc

import (
	mrand "math/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

// drain claims for the party until the allocator rejects it, returning the
// claimed indices in order.
func drain(t *testing.T, a *Allocator, p Party) []int {
	t.Helper()
	var claimed []int
	for {
		idx, ok, err := a.Claim(p)
		require.NoError(t, err)
		if !ok {
			return claimed
		}
		claimed = append(claimed, idx)
	}
}

// sequence returns from, from+step, ..., to inclusive.
func sequence(from, to, step int) []int {
	var out []int
	for i := from; ; i += step {
		out = append(out, i)
		if i == to {
			return out
		}
	}
}

func TestFixedZoneSingleParty(t *testing.T) {
	// With n=100 and d=5 the midpoint is 50. A lone party marches through
	// its half until its next step would come within d of the partner's
	// untouched starting position, leaving the rest of the pool stranded.
	cases := []struct {
		party Party
		want  []int
	}{
		{0, sequence(0, 44, 1)},
		{1, sequence(49, 5, -1)},
		{2, sequence(50, 94, 1)},
		{3, sequence(99, 55, -1)},
	}

	for _, tc := range cases {
		a, err := New(PolicyFixedZone, 100, 5)
		require.NoError(t, err)

		claimed := drain(t, a, tc.party)
		require.Equal(t, tc.want, claimed, "party %d", tc.party)
		require.Equal(t, 45, a.UsedCount())
		require.Equal(t, 55, a.WastedCount())
	}
}

func TestFixedZoneAllPartiesRoundRobin(t *testing.T) {
	a, err := New(PolicyFixedZone, 100, 5)
	require.NoError(t, err)

	claimed := drainRoundRobin(t, a)
	requireUniqueInRange(t, claimed, 100)

	// Each zone converges to a d-wide unclaimed band between the pair.
	require.Equal(t, 90, a.UsedCount())
	require.Equal(t, 10, a.WastedCount())
}

func TestDynamicBoundarySingleParty(t *testing.T) {
	// A lone party under the dynamic policy sweeps almost the whole pool;
	// only the d-wide clearance from the far end's untouched sentinels is
	// lost. Riders additionally start d+1 past their pace setter's
	// sentinel.
	cases := []struct {
		party      Party
		first      int
		wantClaims int
	}{
		{0, 0, 95},
		{1, 5, 90},
		{2, 94, 90},
		{3, 99, 95},
	}

	for _, tc := range cases {
		a, err := New(PolicyDynamicBoundary, 100, 5)
		require.NoError(t, err)

		claimed := drain(t, a, tc.party)
		require.Len(t, claimed, tc.wantClaims, "party %d", tc.party)
		require.Equal(t, tc.first, claimed[0], "party %d first claim", tc.party)
		require.Equal(t, 5, a.WastedCount(), "party %d", tc.party)
	}
}

func TestDynamicBoundarySameSidePair(t *testing.T) {
	// Parties 0 and 1 share the left end. The rider (1) enters d+1 ahead
	// of the pace setter's sentinel; the setter (0) fills the skipped
	// prefix and then carries on from the side's leading frontier, so the
	// pair never reuses an index and never strands one behind.
	a, err := New(PolicyDynamicBoundary, 100, 5)
	require.NoError(t, err)

	idx, ok, err := a.Claim(1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 5, idx)

	setter := drain(t, a, 0)
	require.Equal(t, append(sequence(0, 4, 1), sequence(6, 94, 1)...), setter)

	// The setter's sweep leaves the rider nothing; only the clearance
	// from the right side's untouched sentinels is lost.
	_, ok, err = a.PeekNext(1)
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, 95, a.UsedCount())
	require.Equal(t, 5, a.WastedCount())
}

func TestDynamicBoundarySameSidePairAlternating(t *testing.T) {
	// Strict alternation: the rider opens at d, the setter fills 0..4
	// underneath it, then the two take turns advancing the side's leading
	// frontier, covering 0..94 between them without a hole.
	a, err := New(PolicyDynamicBoundary, 100, 5)
	require.NoError(t, err)

	var p0, p1 []int
	p0Blocked := false
	for {
		idx, ok, err := a.Claim(1)
		require.NoError(t, err)
		if !ok {
			break
		}
		p1 = append(p1, idx)

		if !p0Blocked {
			idx, ok, err := a.Claim(0)
			require.NoError(t, err)
			if ok {
				p0 = append(p0, idx)
			} else {
				p0Blocked = true
			}
		}
	}

	require.Equal(t, append(sequence(0, 4, 1), sequence(11, 93, 2)...), p0)
	require.Equal(t, append(sequence(5, 10, 1), sequence(12, 94, 2)...), p1)
	require.Equal(t, 95, a.UsedCount())
	require.Equal(t, 5, a.WastedCount())
}

func TestDynamicBoundaryAllPartiesRoundRobin(t *testing.T) {
	a, err := New(PolicyDynamicBoundary, 100, 5)
	require.NoError(t, err)

	claimed := drainRoundRobin(t, a)
	requireUniqueInRange(t, claimed, 100)

	// Both sides fill their prefixes completely; only the d-wide band
	// where the riders meet is lost.
	require.Equal(t, 95, a.UsedCount())
	require.Equal(t, 5, a.WastedCount())
}

func TestPoliciesRandomizedInvariants(t *testing.T) {
	rng := mrand.New(mrand.NewSource(7))

	for _, policy := range []Policy{PolicyFixedZone, PolicyDynamicBoundary} {
		for run := 0; run < 200; run++ {
			n := 40 + rng.Intn(200)
			maxGap := n/4 - 1
			if policy == PolicyDynamicBoundary {
				maxGap = n / 3
			}
			d := 1 + rng.Intn(maxGap)

			a, err := New(policy, n, d)
			require.NoError(t, err)

			// A random non-empty subset of parties interleaves claims
			// in random order until all of them are rejected.
			active := rng.Perm(NumParties)[:1+rng.Intn(NumParties)]
			perParty := make(map[Party][]int)
			blocked := make(map[Party]bool)
			for len(blocked) < len(active) {
				p := Party(active[rng.Intn(len(active))])
				if blocked[p] {
					continue
				}
				idx, ok, err := a.Claim(p)
				require.NoError(t, err)
				if !ok {
					blocked[p] = true
					continue
				}
				perParty[p] = append(perParty[p], idx)
				requireGapInvariant(t, policy, a)
			}

			var all []int
			for p, claims := range perParty {
				all = append(all, claims...)

				// Frontiers advance strictly monotonically in the
				// party's direction.
				for i := 1; i < len(claims); i++ {
					if ascends(policy, p) {
						require.Greater(t, claims[i], claims[i-1], "policy %s party %d", policy, p)
					} else {
						require.Less(t, claims[i], claims[i-1], "policy %s party %d", policy, p)
					}
				}

				f, ok, err := a.Frontier(p)
				require.NoError(t, err)
				require.True(t, ok)
				require.Equal(t, claims[len(claims)-1], f)
			}

			requireUniqueInRange(t, all, n)
			require.Equal(t, n, a.UsedCount()+a.WastedCount(), "policy %s n=%d d=%d", policy, n, d)
			requireSidesSeparated(t, policy, a, perParty)

			// Rejection is terminal for every party that hit it.
			for p := range blocked {
				_, ok, err := a.Claim(p)
				require.NoError(t, err)
				require.False(t, ok, "policy %s party %d claimed after rejection", policy, p)
			}
		}
	}
}

// ascends reports whether the party's frontier moves upward under the policy:
// under fixed-zone the even parties ascend, under dynamic-boundary the whole
// left pair does.
func ascends(policy Policy, p Party) bool {
	if policy == PolicyFixedZone {
		return p%2 == 0
	}
	return p < 2
}

// drainRoundRobin cycles through the parties in order, one claim each, until
// every party is rejected, and returns all claimed indices.
func drainRoundRobin(t *testing.T, a *Allocator) []int {
	t.Helper()
	var all []int
	blocked := [NumParties]bool{}
	for {
		progress := false
		for p := Party(0); p < NumParties; p++ {
			if blocked[p] {
				continue
			}
			idx, ok, err := a.Claim(p)
			require.NoError(t, err)
			if !ok {
				blocked[p] = true
				continue
			}
			all = append(all, idx)
			progress = true
		}
		if !progress {
			return all
		}
	}
}

// requireUniqueInRange asserts no index was handed out twice and all fall
// within [0, n).
func requireUniqueInRange(t *testing.T, claimed []int, n int) {
	t.Helper()
	seen := make(map[int]bool, len(claimed))
	for _, idx := range claimed {
		require.GreaterOrEqual(t, idx, 0)
		require.Less(t, idx, n)
		require.False(t, seen[idx], "index %d claimed twice", idx)
		seen[idx] = true
	}
}

// requireGapInvariant asserts every pair of opposing frontiers is separated
// by strictly more than the gap, counting unclaimed parties at their start
// sentinels. Under fixed-zone the opposing pairs are (0,1) and (2,3); under
// dynamic-boundary it is the nearer left frontier against the nearer right
// one.
func requireGapInvariant(t *testing.T, policy Policy, a *Allocator) {
	t.Helper()

	var f [NumParties]int
	for p := Party(0); p < NumParties; p++ {
		idx, _, err := a.Frontier(p)
		require.NoError(t, err)
		f[p] = idx
	}

	if policy == PolicyFixedZone {
		require.Greater(t, f[1]-f[0], a.Gap())
		require.Greater(t, f[3]-f[2], a.Gap())
		return
	}

	low, high := f[0], f[3]
	if f[1] > low {
		low = f[1]
	}
	if f[2] < high {
		high = f[2]
	}
	require.Greater(t, high-low, a.Gap())
}

// requireSidesSeparated asserts the claims of the two approaching sides never
// interleave: everything claimed from the low end stays strictly below
// everything claimed from the high end of the shared range.
func requireSidesSeparated(t *testing.T, policy Policy, a *Allocator, perParty map[Party][]int) {
	t.Helper()

	pairs := [][2][]Party{{{0, 1}, {2, 3}}}
	if policy == PolicyFixedZone {
		pairs = [][2][]Party{{{0}, {1}}, {{2}, {3}}}
	}

	for _, pair := range pairs {
		lowMax, highMin := -1, a.PadCount()
		for _, p := range pair[0] {
			for _, idx := range perParty[p] {
				if idx > lowMax {
					lowMax = idx
				}
			}
		}
		for _, p := range pair[1] {
			for _, idx := range perParty[p] {
				if idx < highMin {
					highMin = idx
				}
			}
		}
		require.Less(t, lowMax, highMin, "policy %s", policy)
	}
}
