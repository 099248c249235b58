package queue

import "fmt"

// Task represents a tree node pending to be split or turned into a leaf.
type Task struct {
	// The ID of the node in the tree's node store
	NodeID int
	// The depth of the node, 0 for the root
	Depth int
	// The range [Start, End) of the shared row index array holding the
	// training rows that reach the node. Ranges of pending tasks never
	// overlap.
	Start, End int
}

// ID returns the ID of the task's node.
func (t *Task) ID() int {
	return t.NodeID
}

// Rows returns the number of rows reaching the task's node.
func (t *Task) Rows() int {
	return t.End - t.Start
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %d depth:%d rows:[%d,%d)}", t.NodeID, t.Depth, t.Start, t.End)
}
