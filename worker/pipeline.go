package worker

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"github.com/alitto/pond/v2"
	"github.com/gyurix/soitrontask/entity"
	"github.com/gyurix/soitrontask/queue"
	"github.com/gyurix/soitrontask/repository"
)

// Pipeline runs producers and consumers over one command queue using a worker pool
type Pipeline struct {
	queue     *queue.CommandQueue
	producers []*Producer
	consumers []*Consumer
	pool      pond.Pool
}

// NewPipeline creates producers sharing input and consumers sharing store
func NewPipeline(input io.Reader, store repository.Repository[entity.User], producers, consumers int, logger *slog.Logger) *Pipeline {
	q := queue.New()
	source := NewLineSource(input)

	p := &Pipeline{
		queue: q,
		// Every worker runs for the pipeline's lifetime, so each needs its own slot
		pool: pond.NewPool(producers + consumers),
	}
	for i := 1; i <= producers; i++ {
		p.producers = append(p.producers, NewProducer(fmt.Sprintf("producer-%d", i), q, source, logger))
	}
	for i := 1; i <= consumers; i++ {
		p.consumers = append(p.consumers, NewConsumer(fmt.Sprintf("consumer-%d", i), q, store, logger))
	}
	return p
}

// Queue returns the shared command queue
func (p *Pipeline) Queue() *queue.CommandQueue {
	return p.queue
}

// Producers returns the pipeline's producers
func (p *Pipeline) Producers() []*Producer {
	return p.producers
}

// Consumers returns the pipeline's consumers
func (p *Pipeline) Consumers() []*Consumer {
	return p.consumers
}

// Run starts every worker and returns once the input is exhausted and every
// queued command has been executed. If ctx is done first, consumers are
// stopped and Run returns without waiting for producers blocked on input.
func (p *Pipeline) Run(ctx context.Context) error {
	consumers := p.pool.NewGroup()
	for _, consumer := range p.consumers {
		consumers.Submit(func() {
			consumer.Run(ctx)
		})
	}

	producers := p.pool.NewGroup()
	for _, producer := range p.producers {
		producers.SubmitErr(producer.Run)
	}

	var err error
	select {
	case <-producers.Done():
		err = producers.Wait()
		p.drain(ctx)
	case <-ctx.Done():
		err = ctx.Err()
	}

	p.Stop()
	consumers.Wait()
	p.pool.Stop()
	return err
}

// drain waits for the consumers to take every queued command
func (p *Pipeline) drain(ctx context.Context) {
	for p.queue.Len() > 0 && ctx.Err() == nil {
		runtime.Gosched()
	}
}

// Stop asks every consumer to stop after its current command
func (p *Pipeline) Stop() {
	for _, consumer := range p.consumers {
		consumer.Stop()
	}
}

// InfoLines returns the informational lines of every consumer
func (p *Pipeline) InfoLines() []string {
	var lines []string
	for _, consumer := range p.consumers {
		lines = append(lines, consumer.InfoLines()...)
	}
	return lines
}

// ErrorLines returns the error lines of every consumer
func (p *Pipeline) ErrorLines() []string {
	var lines []string
	for _, consumer := range p.consumers {
		lines = append(lines, consumer.ErrorLines()...)
	}
	return lines
}

// Totals sums the consumers' processed and failed command counts
func (p *Pipeline) Totals() (processed, failed int64) {
	for _, consumer := range p.consumers {
		processed += consumer.Progress().Processed.Load()
		failed += consumer.Progress().Failed.Load()
	}
	return processed, failed
}
