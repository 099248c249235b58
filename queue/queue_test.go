package queue

import (
	"context"
	"testing"
	"time"
)

func TestMemQueueIsFIFO(t *testing.T) {
	ctx := context.Background()
	q := New()
	for i := 0; i < 3; i++ {
		if err := q.Push(ctx, &Task{NodeID: i}); err != nil {
			t.Fatalf("pushing task %d: %v", i, err)
		}
	}
	task, _, _ := q.Pull(ctx)
	if task.ID() != 0 {
		t.Fatalf("expected task 0, got %v", task)
	}
	q.Complete(ctx, task.ID())
	q.Push(ctx, &Task{NodeID: 3})
	q.Push(ctx, &Task{NodeID: 4})
	for expected := 1; expected <= 4; expected++ {
		task, tctx, err := q.Pull(ctx)
		if err != nil {
			t.Fatalf("pulling task: %v", err)
		}
		if task == nil || tctx == nil {
			t.Fatalf("expected task %d, got none", expected)
		}
		if task.ID() != expected {
			t.Errorf("expected task %d, got %d", expected, task.ID())
		}
		q.Complete(ctx, task.ID())
	}
	task, _, err := q.Pull(ctx)
	if task != nil || err != nil {
		t.Errorf("expected no task from an empty queue, got %v %v", task, err)
	}
}

func TestMemQueueCountAndDrop(t *testing.T) {
	ctx := context.Background()
	q := New()
	q.Push(ctx, &Task{NodeID: 7, Start: 0, End: 10})
	task, _, _ := q.Pull(ctx)
	pending, running, err := q.Count(ctx)
	if err != nil || pending != 0 || running != 1 {
		t.Fatalf("expected 0 pending 1 running, got %d %d %v", pending, running, err)
	}
	if err = q.Drop(ctx, task.ID()); err != nil {
		t.Fatalf("dropping task: %v", err)
	}
	pending, running, _ = q.Count(ctx)
	if pending != 1 || running != 0 {
		t.Errorf("expected dropped task to be pending again, got %d %d", pending, running)
	}
	task, _, _ = q.Pull(ctx)
	if task.Rows() != 10 {
		t.Errorf("expected a task with 10 rows, got %v", task)
	}
	if err = q.Complete(ctx, task.ID()); err != nil {
		t.Fatalf("completing task: %v", err)
	}
	if err = q.Complete(ctx, task.ID()); err == nil {
		t.Errorf("expected an error completing a task twice")
	}
	pending, running, _ = q.Count(ctx)
	if pending != 0 || running != 0 {
		t.Errorf("expected a drained queue, got %d %d", pending, running)
	}
}

func TestMemQueuePullWaitsForRunningTasks(t *testing.T) {
	ctx := context.Background()
	q := New()
	q.Push(ctx, &Task{NodeID: 0})
	root, _, _ := q.Pull(ctx)
	pulled := make(chan *Task)
	go func() {
		task, _, err := q.Pull(ctx)
		if err != nil {
			t.Errorf("pulling task: %v", err)
		}
		pulled <- task
	}()
	select {
	case task := <-pulled:
		t.Fatalf("expected Pull to block while a task runs, got %v", task)
	case <-time.After(20 * time.Millisecond):
	}
	q.Push(ctx, &Task{NodeID: 1})
	q.Complete(ctx, root.ID())
	select {
	case task := <-pulled:
		if task == nil || task.ID() != 1 {
			t.Fatalf("expected task 1, got %v", task)
		}
		q.Complete(ctx, task.ID())
	case <-time.After(time.Second):
		t.Fatalf("expected Pull to return the pushed task")
	}
	go func() {
		task, _, _ := q.Pull(ctx)
		pulled <- task
	}()
	select {
	case task := <-pulled:
		if task != nil {
			t.Errorf("expected no task from a drained queue, got %v", task)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected Pull to return on a drained queue")
	}
}

func TestMemQueuePullHonoursCancellation(t *testing.T) {
	q := New()
	q.Push(context.Background(), &Task{})
	q.Pull(context.Background())
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if _, _, err := q.Pull(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected %v, got %v", context.DeadlineExceeded, err)
	}
}

func TestMemQueueStopCancelsTaskContexts(t *testing.T) {
	ctx := context.Background()
	q := New()
	q.Push(ctx, &Task{})
	_, tctx, _ := q.Pull(ctx)
	errs := make(chan error)
	go func() {
		_, _, err := q.Pull(ctx)
		errs <- err
	}()
	q.Stop(ctx)
	select {
	case <-tctx.Done():
	case <-time.After(time.Second):
		t.Errorf("expected task context to be cancelled when stopping the queue")
	}
	select {
	case err := <-errs:
		if err != ErrStopped {
			t.Errorf("expected %v from a blocked Pull, got %v", ErrStopped, err)
		}
	case <-time.After(time.Second):
		t.Errorf("expected a blocked Pull to return when stopping the queue")
	}
	if err := q.Push(ctx, &Task{}); err != ErrStopped {
		t.Errorf("expected %v pushing to a stopped queue, got %v", ErrStopped, err)
	}
}
