package executor

import (
	"sync"

	"github.com/aryankumar/crunch/internal/command"
	"github.com/eapache/queue"
)

// commandQueue is an unbounded FIFO of pending commands. Put never blocks; Take blocks
// until a command is available or the queue is closed.
type commandQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	items    *queue.Queue
	closed   bool
}

func newCommandQueue() *commandQueue {
	q := &commandQueue{items: queue.New()}
	q.notEmpty = sync.NewCond(&q.mu)
	return q
}

// Put appends cmd. It returns false if the queue has been closed.
func (q *commandQueue) Put(cmd command.Command) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.items.Add(cmd)
	q.notEmpty.Signal()
	return true
}

// Take removes the oldest command, waiting while the queue is empty.
// ok is false once the queue is closed.
func (q *commandQueue) Take() (cmd command.Command, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for q.items.Length() == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if q.closed {
		return command.Command{}, false
	}
	return q.items.Remove().(command.Command), true
}

// Close wakes every waiting Take and discards commands that were never started.
// It returns the number discarded.
func (q *commandQueue) Close() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return 0
	}
	q.closed = true
	dropped := q.items.Length()
	q.items = queue.New()
	q.notEmpty.Broadcast()
	return dropped
}

// Len returns the number of commands waiting.
func (q *commandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Length()
}
