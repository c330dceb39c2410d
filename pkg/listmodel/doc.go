// Package listmodel holds the central ListItem record produced by the
// parallel status collector and the status-symbol grid rendering on top of
// it: five orthogonal state axes (working tree, worktree location/operation,
// main-branch relation, upstream divergence, user marker), each padded to a
// fixed column position so every row aligns vertically regardless of which
// symbols that row actually has.
package listmodel
