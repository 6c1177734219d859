package worker

import (
	"context"
	"sync"
)

// Job represents a unit of work to be executed
type Job interface {
	Execute(ctx context.Context) Result
}

// Result represents the result of a job execution
type Result interface {
	GetError() error
}

// OrderedPool executes a fixed list of jobs with bounded concurrency and
// returns results in job-list order, never completion order. Downstream
// stages depend on deterministic ordering by input position.
type OrderedPool struct {
	workers int
}

// NewOrderedPool creates a pool with the specified number of workers
func NewOrderedPool(workers int) *OrderedPool {
	if workers <= 0 {
		workers = 1
	}
	return &OrderedPool{workers: workers}
}

// Run executes all jobs and blocks until every result slot is filled.
// Jobs are responsible for honoring ctx cancellation promptly.
func (p *OrderedPool) Run(ctx context.Context, jobs []Job) []Result {
	results := make([]Result, len(jobs))

	semaphore := make(chan struct{}, p.workers)
	var wg sync.WaitGroup

	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				// Execute anyway; the job sees the cancelled context
				// and returns immediately with its error.
			}

			results[idx] = j.Execute(ctx)
		}(i, job)
	}

	wg.Wait()
	return results
}
