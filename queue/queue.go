package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrStopped is returned by the operations of a stopped Queue.
var ErrStopped = errors.New("queue stopped")

// Queue holds the frontier of a growing tree. Workers
// Pull tasks from it, resolve their nodes, Push the
// tasks for the children and then Complete the task,
// or Drop it to give it back if they could not finish.
//
// The frontier is drained once no task is pending and
// none is running: no further task can ever be pushed
// then, as only running tasks push new ones.
//
// All its methods take a context.Context as first
// parameter that bounds how long they may block.
type Queue interface {
	// Push takes a task and stores it as pending.
	Push(context.Context, *Task) error
	// Pull blocks until a pending task is available and
	// returns it along with a context that is cancelled
	// when the queue is stopped. The task counts as
	// running from then on. Pull returns 3 nil values
	// once the frontier is drained.
	Pull(context.Context) (*Task, context.Context, error)
	// Drop takes the ID of a running task and makes it
	// pending again. Dropping a task that is not running
	// is a no-op.
	Drop(context.Context, int) error
	// Complete takes the ID of a running task and
	// removes it from the queue.
	Complete(context.Context, int) error
	// Count returns the number of pending and running
	// tasks.
	Count(context.Context) (pending int, running int, err error)
	// Stop cancels the contexts of pulled tasks and
	// wakes up and fails any blocked Pull.
	Stop(context.Context) error
}

type memQueue struct {
	mu      sync.Mutex
	fifo    []*Task
	running map[int]*Task
	// changed is closed and replaced whenever tasks are pushed or the
	// number of running tasks drops
	changed chan struct{}
	stopped bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New returns a FIFO queue backed only by the process memory
func New() Queue {
	ctx, cancel := context.WithCancel(context.Background())
	return &memQueue{
		running: make(map[int]*Task),
		changed: make(chan struct{}),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (mq *memQueue) Push(ctx context.Context, t *Task) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if mq.stopped {
		return ErrStopped
	}
	mq.fifo = append(mq.fifo, t)
	mq.notify()
	return nil
}

func (mq *memQueue) Pull(ctx context.Context) (*Task, context.Context, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		mq.mu.Lock()
		if mq.stopped {
			mq.mu.Unlock()
			return nil, nil, ErrStopped
		}
		if len(mq.fifo) > 0 {
			t := mq.fifo[0]
			mq.fifo[0] = nil
			mq.fifo = mq.fifo[1:]
			mq.running[t.ID()] = t
			mq.mu.Unlock()
			return t, mq.ctx, nil
		}
		if len(mq.running) == 0 {
			mq.mu.Unlock()
			return nil, nil, nil
		}
		changed := mq.changed
		mq.mu.Unlock()
		select {
		case <-ctx.Done():
		case <-changed:
		}
	}
}

func (mq *memQueue) Drop(ctx context.Context, id int) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	t, ok := mq.running[id]
	if !ok {
		return nil
	}
	delete(mq.running, id)
	if !mq.stopped {
		mq.fifo = append(mq.fifo, t)
	}
	mq.notify()
	return nil
}

func (mq *memQueue) Complete(ctx context.Context, id int) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if _, ok := mq.running[id]; !ok {
		return fmt.Errorf("completing task %d: not running", id)
	}
	delete(mq.running, id)
	mq.notify()
	return nil
}

func (mq *memQueue) Count(ctx context.Context) (int, int, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, err
	}
	mq.mu.Lock()
	defer mq.mu.Unlock()
	return len(mq.fifo), len(mq.running), nil
}

func (mq *memQueue) Stop(ctx context.Context) error {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	if !mq.stopped {
		mq.stopped = true
		mq.cancel()
		mq.notify()
	}
	return nil
}

func (mq *memQueue) String() string {
	mq.mu.Lock()
	defer mq.mu.Unlock()
	return fmt.Sprintf("{Queue pending: %v running: %d}", mq.fifo, len(mq.running))
}

// notify wakes up every blocked Pull. mq.mu must be held.
func (mq *memQueue) notify() {
	close(mq.changed)
	mq.changed = make(chan struct{})
}
