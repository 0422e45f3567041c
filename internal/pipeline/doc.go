// Package pipeline implements the graph-assembly and activation core of a
// composite media device: transitive discovery of the node graph from the
// topology description, asynchronous binding of subdevice handles, deferred
// pad-to-pad link assembly once every node is bound, and the idempotent
// power/stream activation state machine with partial-failure rollback.
package pipeline
