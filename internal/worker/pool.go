// worker/pool.go
package worker

import "sync"

type Job[T any] func() T

// Result carries the output of one job together with the position it was
// submitted at, so callers can restore submission order.
type Result[T any] struct {
	Seq    int
	Output T
}

type Pool[T any] struct {
	jobs    chan jobWrapper[T]
	results chan Result[T]
	wg      sync.WaitGroup
	once    sync.Once
}

type jobWrapper[T any] struct {
	seq int
	fn  Job[T]
}

// NewPool starts workerCount goroutines. workerCount below 1 is treated as 1.
func NewPool[T any](workerCount int, bufferSize int) *Pool[T] {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool[T]{
		jobs:    make(chan jobWrapper[T], bufferSize),
		results: make(chan Result[T], bufferSize),
	}

	p.wg.Add(workerCount)
	for i := 0; i < workerCount; i++ {
		go p.worker()
	}

	go func() {
		p.wg.Wait()
		close(p.results)
	}()

	return p
}

func (p *Pool[T]) worker() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.results <- Result[T]{
			Seq:    job.seq,
			Output: job.fn(),
		}
	}
}

// Submit queues a job. It must not be called after Close.
func (p *Pool[T]) Submit(seq int, fn Job[T]) {
	p.jobs <- jobWrapper[T]{seq: seq, fn: fn}
}

// Close stops accepting jobs. Results is closed once every queued job ran.
func (p *Pool[T]) Close() {
	p.once.Do(func() { close(p.jobs) })
}

func (p *Pool[T]) Results() <-chan Result[T] {
	return p.results
}

// Map runs fn over every input on a pool of workerCount goroutines and
// returns the outputs in input order.
func Map[In, Out any](workerCount int, inputs []In, fn func(In) Out) []Out {
	out := make([]Out, len(inputs))
	if len(inputs) == 0 {
		return out
	}

	p := NewPool[Out](workerCount, len(inputs))
	for i, in := range inputs {
		in := in
		p.Submit(i, func() Out { return fn(in) })
	}
	p.Close()

	for r := range p.Results() {
		out[r.Seq] = r.Output
	}
	return out
}
