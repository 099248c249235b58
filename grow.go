package sapling

import (
	"context"
	"fmt"
	"sync"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/queue"
	"github.com/pbanos/sapling/split"
	"github.com/pbanos/sapling/tree"
)

/*
Growth holds the state of a tree being grown: the validated training frame,
the shared row index array whose ranges tasks own, the node store with the
nodes created so far and the ID of the root node.
*/
type Growth struct {
	Frame     *dataset.Frame
	Rows      []int
	NodeStore tree.NodeStore
	RootID    int
	Logger    Logger
}

// Seed takes a context, a validated frame, a queue and a node store and
// sets everything up so that workers that consume from the queue afterwards
// grow a tree from the frame's rows.
// Specifically it will create the root node of the tree on the node store
// and push a task to resolve it on the queue.
// The function returns the growth state or an error if the frame has no
// rows, or if the node cannot be created on the store or the task pushed
// to the queue (in the amount of time allowed by the given context).
func Seed(ctx context.Context, fr *dataset.Frame, q queue.Queue, ns tree.NodeStore, logger Logger) (*Growth, error) {
	if fr.Count() == 0 {
		return nil, ErrEmptyTrainingSet
	}
	if logger == nil {
		logger = NopLogger{}
	}
	rows := make([]int, fr.Count())
	for i := range rows {
		rows[i] = i
	}
	n := tree.NewNode(tree.NoNode, 0, 0, len(rows))
	err := ns.Create(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("creating root node: %v", err)
	}
	task := &queue.Task{NodeID: n.ID, Depth: 0, Start: 0, End: len(rows)}
	err = q.Push(ctx, task)
	if err != nil {
		ns.Delete(ctx, n)
		return nil, fmt.Errorf("pushing root task: %v", err)
	}
	return &Growth{Frame: fr, Rows: rows, NodeStore: ns, RootID: n.ID, Logger: logger}, nil
}

// BranchOut takes a context, a task, the growth state and a splitter,
// and resolves the task's node: either splits it, partitioning its rows
// and returning the tasks to resolve its two children (left first), or
// turns it into a leaf and returns no tasks.
func BranchOut(ctx context.Context, task *queue.Task, g *Growth, sp *split.Splitter) (tasks []*queue.Task, e error) {
	n, err := g.NodeStore.Get(ctx, task.NodeID)
	if err != nil {
		return nil, fmt.Errorf("retrieving node %d: %v", task.NodeID, err)
	}
	if n == nil {
		return nil, fmt.Errorf("node %d not found", task.NodeID)
	}
	defer func() {
		if e != nil {
			return
		}
		if err := g.NodeStore.Store(ctx, n); err != nil {
			e = fmt.Errorf("storing node %d: %v", n.ID, err)
		}
	}()
	rows := g.Rows[task.Start:task.End]
	n.Counts = g.Frame.ClassCounts(rows)
	s, reason := sp.Split(g.Frame, rows, task.Depth)
	if s == nil {
		n.MakeLeaf()
		g.Logger.Logf("node %d at depth %d with %d rows %v is a leaf (%s)", n.ID, task.Depth, len(rows), n.Counts, reason)
		return nil, nil
	}
	boundary := split.Partition(g.Frame, rows, s)
	left := tree.NewNode(n.ID, task.Depth+1, task.Start, task.Start+boundary)
	right := tree.NewNode(n.ID, task.Depth+1, task.Start+boundary, task.End)
	for _, c := range []*tree.Node{left, right} {
		if err = g.NodeStore.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("creating child of node %d: %v", n.ID, err)
		}
		tasks = append(tasks, &queue.Task{NodeID: c.ID, Depth: c.Depth, Start: c.Start, End: c.End})
	}
	n.Split = s
	n.LeftID, n.RightID = left.ID, right.ID
	n.Resolved = true
	g.Logger.Logf("node %d at depth %d with %d rows %v split on column %d with gain %f", n.ID, task.Depth, len(rows), n.Counts, s.Column, s.Gain)
	return tasks, nil
}

// Work takes a context, the growth state, a queue and a splitter
// and enters a loop in which it:
//   - pulls a task from the queue,
//   - resolves its node using BranchOut
//   - pushes the tasks for the new child nodes into the queue
//   - marks the task as completed on the queue
//
// Pulling blocks while other workers still run tasks that may
// push children. Once the queue is drained the worker ends
// returning nil.
//
// Work will return a non-nil error if the given context
// times out or is cancelled, if BranchOut returns a non-nil
// error or if an operation with the given queue returns a
// non-nil error.
func Work(ctx context.Context, g *Growth, q queue.Queue, sp *split.Splitter) error {
	for {
		task, tctx, err := q.Pull(ctx)
		if err != nil {
			return err
		}
		if task == nil {
			return nil
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, g, q, sp)
		cancel()
		if err != nil {
			return err
		}
		err = ctx.Err()
		if err != nil {
			return err
		}
	}
}

func workTask(ctx context.Context, task *queue.Task, g *Growth, q queue.Queue, sp *split.Splitter) error {
	tasks, err := BranchOut(ctx, task, g, sp)
	if err != nil {
		q.Drop(context.Background(), task.ID())
		return err
	}
	for _, st := range tasks {
		err = q.Push(ctx, st)
		if err != nil {
			q.Drop(context.Background(), task.ID())
			return err
		}
	}
	return q.Complete(ctx, task.ID())
}

/*
Grow takes a context, a validated frame and training parameters and grows a
tree from the frame's rows with the configured number of workers, returning
the records of the compressed tree. The records do not depend on the number
of workers. If any worker fails or the context is cancelled, the growth is
aborted and an error returned.
*/
func Grow(ctx context.Context, fr *dataset.Frame, p Params, logger Logger) ([]tree.Record, error) {
	sp, err := p.splitter()
	if err != nil {
		return nil, err
	}
	q := queue.New()
	defer q.Stop(context.Background())
	ns := tree.NewMemoryNodeStore()
	defer ns.Close(context.Background())
	g, err := Seed(ctx, fr, q, ns, logger)
	if err != nil {
		return nil, err
	}
	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	for i := 0; i < p.workers(); i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := Work(wctx, g, q, sp); err != nil {
				once.Do(func() {
					firstErr = err
					cancel()
				})
			}
		}()
	}
	wg.Wait()
	if firstErr != nil {
		return nil, fmt.Errorf("growing tree: %v", firstErr)
	}
	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	pending, running, err := q.Count(ctx)
	if err != nil {
		return nil, err
	}
	if pending+running != 0 {
		return nil, fmt.Errorf("growing tree: workers ended with %d pending and %d running tasks", pending, running)
	}
	count, err := ns.Count(ctx)
	if err != nil {
		return nil, err
	}
	g.Logger.Logf("grown tree with %d nodes", count)
	return tree.Compress(ctx, ns, g.RootID)
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}
