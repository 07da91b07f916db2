package padalloc

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrInvalidConfiguration is returned by New when the pad count or gap
	// violates the selected policy's spacing precondition. It is fatal to
	// the allocator instance and never recovered.
	ErrInvalidConfiguration = errors.New("invalid allocator configuration")

	// ErrInvalidParty is returned when a caller names a party outside the
	// four recognized identities. It indicates a programming error.
	ErrInvalidParty = errors.New("invalid party")
)

// Allocator hands out pad indices to the four parties while maintaining the
// gap invariant between opposing frontiers. All methods are safe for
// concurrent use; see the package documentation for the state machine.
type Allocator struct {
	mu       sync.Mutex
	n        int
	d        int
	policy   Policy
	parties  [NumParties]partySpec
	frontier [NumParties]int

	// entry records each party's first claimed index, or the start
	// sentinel while the party has not claimed. A rider's entry marks
	// where the skipped prefix ends: the pace setter fills up to the
	// entry and then continues from the side's leading frontier, never
	// touching a pad the rider holds.
	entry [NumParties]int
}

// New creates an allocator for n pads with gap d under the given policy.
//
// Construction fails with ErrInvalidConfiguration when n or d is not
// strictly positive, or when d is not strictly smaller than the policy's
// spacing bound: a quarter of n for PolicyFixedZone, n itself for
// PolicyDynamicBoundary.
func New(policy Policy, n, d int) (*Allocator, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: pad count %d must be positive", ErrInvalidConfiguration, n)
	}
	if d <= 0 {
		return nil, fmt.Errorf("%w: gap %d must be positive", ErrInvalidConfiguration, d)
	}

	var parties [NumParties]partySpec
	switch policy {
	case PolicyFixedZone:
		if d >= n/4 {
			return nil, fmt.Errorf("%w: gap %d must be smaller than a quarter of the pad count %d", ErrInvalidConfiguration, d, n)
		}
		parties = fixedZoneSpecs(n)
	case PolicyDynamicBoundary:
		if d >= n {
			return nil, fmt.Errorf("%w: gap %d must be smaller than the pad count %d", ErrInvalidConfiguration, d, n)
		}
		parties = dynamicBoundarySpecs(n)
	default:
		return nil, fmt.Errorf("%w: unknown policy %q", ErrInvalidConfiguration, policy)
	}

	a := &Allocator{n: n, d: d, policy: policy, parties: parties}
	for p := range a.frontier {
		a.frontier[p] = parties[p].start
		a.entry[p] = parties[p].start
	}
	return a, nil
}

// PadCount returns the immutable length n of the pad sequence.
func (a *Allocator) PadCount() int { return a.n }

// Gap returns the immutable safety margin d.
func (a *Allocator) Gap() int { return a.d }

// Policy returns the allocation policy selected at construction.
func (a *Allocator) Policy() Policy { return a.policy }

// Frontier returns the party's last claimed index. The boolean is false if
// the party has not claimed anything yet, in which case the index is the
// party's start sentinel.
func (a *Allocator) Frontier(p Party) (int, bool, error) {
	if !p.Valid() {
		return 0, false, fmt.Errorf("%w: %d", ErrInvalidParty, p)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.frontier[p], a.frontier[p] != a.parties[p].start, nil
}

// PeekNext computes the index the party would claim next without mutating
// any state. The boolean is false when claiming is currently unsafe for the
// party; this is the normal end-of-allocation signal, not an error.
func (a *Allocator) PeekNext(p Party) (int, bool, error) {
	if !p.Valid() {
		return 0, false, fmt.Errorf("%w: %d", ErrInvalidParty, p)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	next, ok := a.nextLocked(p)
	return next, ok, nil
}

// Claim records and returns the party's next pad index. When no index can
// be claimed safely the allocator state is left untouched and the boolean
// is false; callers should treat that as terminal for the party.
func (a *Allocator) Claim(p Party) (int, bool, error) {
	if !p.Valid() {
		return 0, false, fmt.Errorf("%w: %d", ErrInvalidParty, p)
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	next, ok := a.nextLocked(p)
	if !ok {
		return 0, false, nil
	}
	if a.frontier[p] == a.parties[p].start {
		a.entry[p] = next
	}
	a.frontier[p] = next
	return next, true, nil
}

// nextLocked is the claim rule shared by both policies, parameterized by the
// party's record. Callers must hold a.mu.
func (a *Allocator) nextLocked(p Party) (int, bool) {
	ps := &a.parties[p]

	next := a.frontier[p] + ps.dir
	if ps.mate != p {
		switch {
		case ps.rider && a.frontier[p] == ps.start:
			// A rider's first claim opens d+1 past the pace setter's
			// frontier, leaving the setter room to fill the skipped
			// prefix behind it.
			next = a.frontier[ps.mate] + ps.dir*(a.d+1)
		case !ps.rider && a.fillingLocked(p):
			// The pace setter fills the indices skipped behind its
			// rider's entry; everything from the entry on belongs to
			// the side's leading frontier.
		default:
			// Both parties of a side otherwise advance one step past
			// the side's leading frontier, so the side never hands
			// out an index twice and never strands one behind.
			next = a.leadLocked(p) + ps.dir
		}
	}

	if next < ps.lo || next > ps.hi {
		return 0, false
	}

	// The candidate must leave more than d clearance from the nearest
	// opposing frontier.
	for _, q := range ps.opposing {
		if ps.dir > 0 && a.frontier[q]-next <= a.d {
			return 0, false
		}
		if ps.dir < 0 && next-a.frontier[q] <= a.d {
			return 0, false
		}
	}

	return next, true
}

// fillingLocked reports whether the pace setter's next step still lands in
// the prefix its rider skipped over on entry. Callers must hold a.mu.
func (a *Allocator) fillingLocked(p Party) bool {
	ps := &a.parties[p]
	mate := ps.mate
	if a.frontier[mate] == a.parties[mate].start {
		return false
	}
	next := a.frontier[p] + ps.dir
	if ps.dir > 0 {
		return next < a.entry[mate]
	}
	return next > a.entry[mate]
}

// leadLocked returns the side's leading frontier, the most advanced of the
// party's own frontier and its mate's. Callers must hold a.mu.
func (a *Allocator) leadLocked(p Party) int {
	ps := &a.parties[p]
	lead := a.frontier[p]
	if ps.dir > 0 && a.frontier[ps.mate] > lead {
		lead = a.frontier[ps.mate]
	}
	if ps.dir < 0 && a.frontier[ps.mate] < lead {
		lead = a.frontier[ps.mate]
	}
	return lead
}

// UsedCount returns the number of distinct pad indices rendered unusable by
// the allocation history: every party's claimed span together with the
// reserved margins its policy carries along. Computed from the four
// frontiers alone, as the union of per-party spans; overlapping spans are
// counted once.
func (a *Allocator) UsedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.usedLocked()
}

// WastedCount returns n minus UsedCount: the pads no party can ever claim
// under the current frontiers without violating the gap invariant.
func (a *Allocator) WastedCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n - a.usedLocked()
}

type span struct{ lo, hi int }

func (a *Allocator) usedLocked() int {
	// Each party's claimed-or-reserved span runs from its own end of the
	// zone to its frontier. Under the fixed-zone policy the invariant
	// keeps the four spans disjoint and the union degenerates to the
	// closed-form per-party sum; under the dynamic policy the two spans
	// on one side overlap and must not be double-counted.
	spans := make([]span, 0, NumParties)
	for p := range a.parties {
		ps := &a.parties[p]
		f := a.frontier[p]
		if f == ps.start {
			continue
		}
		if ps.dir > 0 {
			spans = append(spans, span{ps.lo, f})
		} else {
			spans = append(spans, span{f, ps.hi})
		}
	}
	if len(spans) == 0 {
		return 0
	}

	sort.Slice(spans, func(i, j int) bool { return spans[i].lo < spans[j].lo })

	total := 0
	cur := spans[0]
	for _, s := range spans[1:] {
		if s.lo <= cur.hi+1 {
			if s.hi > cur.hi {
				cur.hi = s.hi
			}
			continue
		}
		total += cur.hi - cur.lo + 1
		cur = s
	}
	total += cur.hi - cur.lo + 1
	return total
}
