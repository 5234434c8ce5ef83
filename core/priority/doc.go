// Package priority orders the queue of waiting jobs.
//
// The ordering is produced by an exchange procedure in which the left element of
// each adjacent pair chooses the comparison: a strict job compares deadlines, a
// flexible job compares profit-to-time ratios. Because the rule depends on
// position it is not a total order, so the result is the fixed point of this
// exact procedure and cannot be reproduced with sort.SliceStable.
package priority
