package tree

import (
	"context"
	"fmt"
)

/*
Compress takes a context, the node store of a fully grown tree and the ID of
its root node and returns the records of the compressed tree: one per node
in pre-order (node, left subtree, right subtree), with each decision record
holding the indexes of its children.

An error is returned if a node cannot be retrieved, is missing or was never
resolved, or if the context is cancelled.
*/
func Compress(ctx context.Context, ns NodeStore, rootID int) ([]Record, error) {
	var records []Record
	var compress func(id int) (int, error)
	compress = func(id int) (int, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n, err := ns.Get(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("retrieving node %d: %v", id, err)
		}
		if n == nil {
			return 0, fmt.Errorf("node %d not found", id)
		}
		if !n.Resolved {
			return 0, fmt.Errorf("node %d was not resolved", id)
		}
		i := len(records)
		if n.Leaf() {
			records = append(records, Record{Kind: LeafRecord, Class: n.Class, Counts: n.Counts})
			return i, nil
		}
		records = append(records, Record{
			Kind:        DecisionRecord,
			Column:      n.Split.Column,
			SplitKind:   n.Split.Kind,
			Threshold:   n.Split.Threshold,
			LeftLevels:  n.Split.LeftLevels,
			RightLevels: n.Split.RightLevels,
			Counts:      n.Counts,
		})
		left, err := compress(n.LeftID)
		if err != nil {
			return 0, err
		}
		right, err := compress(n.RightID)
		if err != nil {
			return 0, err
		}
		records[i].Left, records[i].Right = left, right
		return i, nil
	}
	if _, err := compress(rootID); err != nil {
		return nil, fmt.Errorf("compressing tree: %v", err)
	}
	return records, nil
}

/*
Decompress takes a context, the records of a compressed tree and a node store
and creates a resolved node in the store for every record, returning the ID
of the root node. Compressing the resulting nodes gives back the same
records. Row ranges are not kept in records, so the created nodes have
empty ones.
*/
func Decompress(ctx context.Context, records []Record, ns NodeStore) (int, error) {
	if len(records) == 0 {
		return NoNode, fmt.Errorf("decompressing tree: no records")
	}
	var decompress func(i, parentID, depth int) (int, error)
	decompress = func(i, parentID, depth int) (int, error) {
		r := &records[i]
		n := NewNode(parentID, depth, 0, 0)
		n.Counts = r.Counts
		n.Resolved = true
		if r.Leaf() {
			n.Class = r.Class
		} else {
			n.Split = r.asSplit()
			n.Split.LeftCounts = records[r.Left].Counts
			n.Split.RightCounts = records[r.Right].Counts
		}
		if err := ns.Create(ctx, n); err != nil {
			return NoNode, fmt.Errorf("creating node for record %d: %v", i, err)
		}
		if r.Leaf() {
			return n.ID, nil
		}
		var err error
		if n.LeftID, err = decompress(r.Left, n.ID, depth+1); err != nil {
			return NoNode, err
		}
		if n.RightID, err = decompress(r.Right, n.ID, depth+1); err != nil {
			return NoNode, err
		}
		if err = ns.Store(ctx, n); err != nil {
			return NoNode, fmt.Errorf("storing node for record %d: %v", i, err)
		}
		return n.ID, nil
	}
	if err := (&Tree{Records: records}).Validate(); err != nil {
		return NoNode, fmt.Errorf("decompressing tree: %v", err)
	}
	return decompress(0, NoNode, 0)
}
