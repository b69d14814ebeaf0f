// Package queue holds the command queue shared by producers and consumers.
package queue

import "sync"

// CommandQueue is an unbounded FIFO of command lines.
// All operations take the same lock, so each line is handed to exactly one
// Dequeue caller.
type CommandQueue struct {
	mu    sync.Mutex
	lines []string
}

// New creates an empty command queue
func New() *CommandQueue {
	return &CommandQueue{lines: make([]string, 0, 64)}
}

// Enqueue appends a line to the back of the queue
func (q *CommandQueue) Enqueue(line string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.lines = append(q.lines, line)
}

// Dequeue removes the line at the front of the queue.
// It never blocks; ok is false when the queue is empty.
func (q *CommandQueue) Dequeue() (line string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.lines) == 0 {
		return "", false
	}
	line = q.lines[0]
	q.lines[0] = ""
	q.lines = q.lines[1:]
	if len(q.lines) == 0 {
		q.lines = nil // release the drained backing array
	}
	return line, true
}

// Len returns the number of queued lines
func (q *CommandQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.lines)
}
