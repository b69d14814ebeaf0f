package worker

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/gyurix/soitrontask/queue"
)

// LineSource is an input stream shared by one or more producers.
// Lines have no length limit.
type LineSource struct {
	mu     sync.Mutex
	reader *bufio.Reader
	done   bool
}

// NewLineSource reads newline separated commands from r
func NewLineSource(r io.Reader) *LineSource {
	return &LineSource{reader: bufio.NewReader(r)}
}

// readLine returns the next line without its "\n" or "\r\n" terminator.
// A final line without a terminator is still returned.
func (s *LineSource) readLine() (string, bool, error) {
	if s.done {
		return "", false, nil
	}
	line, err := s.reader.ReadString('\n')
	if err == io.EOF {
		s.done = true
		if line == "" {
			return "", false, nil
		}
	} else if err != nil {
		return "", false, err
	}
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line, true, nil
}

// transfer reads one line and enqueues it before releasing the source, so
// producers sharing the source enqueue lines in the order they were read.
// It returns false once the input is exhausted.
func (s *LineSource) transfer(q *queue.CommandQueue) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok, err := s.readLine()
	if !ok {
		return false, err
	}
	q.Enqueue(line)
	return true, nil
}

// Producer moves lines from a LineSource into the command queue
type Producer struct {
	*Log
	queue  *queue.CommandQueue
	source *LineSource
}

// NewProducer creates a producer reading from source
func NewProducer(name string, q *queue.CommandQueue, source *LineSource, logger *slog.Logger) *Producer {
	return &Producer{
		Log:    NewLog(name, logger),
		queue:  q,
		source: source,
	}
}

// Run enqueues lines until the source is exhausted.
// End of input is a normal return; any other read error stops the producer.
func (p *Producer) Run() error {
	p.Info("Started producer")
	for {
		p.Info("Enter the next command")
		ok, err := p.source.transfer(p.queue)
		if err != nil {
			return fmt.Errorf("%s failed to read command: %w", p.Name(), err)
		}
		if !ok {
			return nil
		}
	}
}
