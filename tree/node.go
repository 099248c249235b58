package tree

import (
	"fmt"

	"github.com/pbanos/sapling/split"
)

// NoNode is the ID used for missing parents and children.
const NoNode = -1

/*
Node is a node of a growing tree
*/
type Node struct {
	// An ID to identify the node in its NodeStore
	ID int
	// The ID of the parent of the node, NoNode for the root
	ParentID int
	// The depth of the node, 0 for the root
	Depth int
	// The range [Start, End) of the shared row index array with the
	// training rows reaching the node
	Start, End int
	// The number of training rows of each class reaching the node
	Counts [2]int
	// The split dividing the node's rows between its children, nil for leaves
	Split *split.Split
	// The IDs of the children nodes, NoNode for leaves
	LeftID, RightID int
	// The class predicted by leaves
	Class int
	// Whether the node has been either split or turned into a leaf
	Resolved bool
}

/*
NewNode takes the ID of the parent node, a depth and the row range of a node
and returns an unresolved node for them.
*/
func NewNode(parentID, depth, start, end int) *Node {
	return &Node{
		ParentID: parentID,
		Depth:    depth,
		Start:    start,
		End:      end,
		LeftID:   NoNode,
		RightID:  NoNode,
	}
}

// Leaf reports whether the node has no split.
func (n *Node) Leaf() bool {
	return n.Split == nil
}

// Rows returns the number of training rows reaching the node.
func (n *Node) Rows() int {
	return n.Counts[0] + n.Counts[1]
}

/*
MakeLeaf turns the node into a leaf predicting the majority class of its
rows, class 0 on ties.
*/
func (n *Node) MakeLeaf() {
	n.Split = nil
	n.LeftID, n.RightID = NoNode, NoNode
	n.Class = MajorityClass(n.Counts)
	n.Resolved = true
}

// MajorityClass returns the class with most rows, 0 on ties.
func MajorityClass(counts [2]int) int {
	if counts[1] > counts[0] {
		return 1
	}
	return 0
}

func (n *Node) String() string {
	if n.Leaf() {
		return fmt.Sprintf("{Node %d leaf class:%d counts:%v}", n.ID, n.Class, n.Counts)
	}
	return fmt.Sprintf("{Node %d split:%v children:%d,%d counts:%v}", n.ID, n.Split, n.LeftID, n.RightID, n.Counts)
}
