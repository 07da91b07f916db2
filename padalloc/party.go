package padalloc

// NumParties is the number of allocation participants. The protocol is
// defined for exactly two pairs of parties, one pair per end of the pad
// sequence.
const NumParties = 4

// Party identifies one of the four allocation participants.
type Party int

// Valid returns true if the party is one of the four recognized identities.
func (p Party) Valid() bool {
	return p >= 0 && p < NumParties
}

// Policy selects the allocation rule set used by an Allocator.
type Policy string

const (
	// PolicyFixedZone confines each party pair to a static half of the
	// sequence, split at the midpoint.
	PolicyFixedZone Policy = "fixed-zone"

	// PolicyDynamicBoundary lets the boundary between left-claimed and
	// right-claimed territory move with the claims.
	PolicyDynamicBoundary Policy = "dynamic-boundary"
)

// Valid returns true if the policy is recognized.
func (pl Policy) Valid() bool {
	switch pl {
	case PolicyFixedZone, PolicyDynamicBoundary:
		return true
	}
	return false
}

// partySpec is the per-party claim configuration. The claim rule is one
// generic routine parameterized by these records; no party is special-cased.
type partySpec struct {
	// dir is the direction the frontier advances in, +1 or -1.
	dir int

	// mate is the same-side party a candidate must stay clear of. A
	// rider enters d+1 past the mate's frontier; the pace setter fills
	// the skipped prefix and then both advance from the side's leading
	// frontier. Parties without a same-side mate reference themselves.
	mate Party

	// rider marks the party that enters ahead of its side's pace
	// setter rather than filling the prefix behind it.
	rider bool

	// opposing lists the parties approaching from the other direction.
	// A candidate must keep more than d clearance from the nearest of
	// their frontiers.
	opposing []Party

	// lo and hi bound the party's claimable zone, inclusive.
	lo, hi int

	// start is the frontier sentinel before any claim, one step outside
	// the party's starting end.
	start int
}

// fixedZoneSpecs confines pair (0,1) to [0, mid) and pair (2,3) to [mid, n).
// Within a zone the two parties advance toward each other from opposite
// ends, so each party's only opposing frontier is its partner's and there
// is no same-side mate.
func fixedZoneSpecs(n int) [NumParties]partySpec {
	mid := n / 2
	return [NumParties]partySpec{
		{dir: +1, mate: 0, opposing: []Party{1}, lo: 0, hi: mid - 1, start: -1},
		{dir: -1, mate: 1, opposing: []Party{0}, lo: 0, hi: mid - 1, start: mid},
		{dir: +1, mate: 2, opposing: []Party{3}, lo: mid, hi: n - 1, start: mid - 1},
		{dir: -1, mate: 3, opposing: []Party{2}, lo: mid, hi: n - 1, start: n},
	}
}

// dynamicBoundarySpecs has parties 0 and 1 advancing upward from the left
// end and parties 2 and 3 downward from the right end. Parties 0 and 3 set
// the pace for their side while parties 1 and 2 ride ahead of them. Every
// left party opposes every right party.
func dynamicBoundarySpecs(n int) [NumParties]partySpec {
	return [NumParties]partySpec{
		{dir: +1, mate: 1, opposing: []Party{2, 3}, lo: 0, hi: n - 1, start: -1},
		{dir: +1, mate: 0, rider: true, opposing: []Party{2, 3}, lo: 0, hi: n - 1, start: -1},
		{dir: -1, mate: 3, rider: true, opposing: []Party{0, 1}, lo: 0, hi: n - 1, start: n},
		{dir: -1, mate: 2, opposing: []Party{0, 1}, lo: 0, hi: n - 1, start: n},
	}
}
