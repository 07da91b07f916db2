// Package padalloc manages index allocation over a finite, pre-shared pool of
// single-use pads among four independent parties that cannot coordinate in
// real time.
//
// Each party advances a frontier through the pad sequence in a fixed
// direction. The allocator guarantees that the frontiers of opposing parties
// never come within the configured gap d of each other, so concurrent claims
// from the two sides of the sequence cannot collide even though the parties
// only learn about each other's progress through the shared allocator state.
// The gap absorbs the bounded delay with which a party may observe its
// counterpart's true position.
//
// # Policies
//
// Two interchangeable allocation policies are supported, selected at
// construction time:
//
//   - PolicyFixedZone splits the sequence at its midpoint into two static
//     zones. Parties 0 and 1 approach each other inside the left zone,
//     parties 2 and 3 inside the right zone. A party blocks once its next
//     step would come within d of its partner or leave its zone.
//
//   - PolicyDynamicBoundary has no static midpoint. Parties 0 and 1 advance
//     upward from the left end, parties 2 and 3 downward from the right end.
//     Parties 1 and 2 enter d+1 past their side's pace setter, leaving the
//     setter room to fill the skipped prefix; once both parties of a side
//     have claimed, each advances one step past the side's leading frontier,
//     so no index is ever handed out twice and none is stranded behind. A
//     claim blocks once the candidate index would come within d of the
//     opposing side's nearest frontier. The boundary between the two sides
//     moves with the claims instead of being fixed, which wastes O(d) pads
//     instead of the O(n) a static split loses when traffic is asymmetric.
//
// # State machine
//
// The only mutable state is the per-party frontier map. Frontiers advance
// strictly monotonically toward the opposing side and never roll back. Once
// a party's claim is rejected it stays rejected: every blocking condition
// depends on frontiers that only ever move closer. Unavailability is a
// normal terminal condition, not an error.
//
// Claim and PeekNext are safe for concurrent use; every claim reads all four
// frontiers and writes at most one of them inside a single critical section.
package padalloc
