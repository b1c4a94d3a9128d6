// Package simulation runs one test case: it spawns producer and consumer
// workers against a shared synchronized queue, keeps them active for a fixed
// wall-clock duration, then terminates the run and joins every worker.
package simulation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/queuelab/prodconsim/pkg/boundedqueue"
	"github.com/queuelab/prodconsim/pkg/config"
	"github.com/queuelab/prodconsim/pkg/syncqueue"
)

// maxItemValue bounds the random values producers push (inclusive).
const maxItemValue = 200

// Result holds the counters observed for one completed test case.
type Result struct {
	Produced       int64
	Consumed       int64
	FinalOccupancy int
	Elapsed        time.Duration
}

// Throughput returns consumed messages per second over the elapsed time.
func (r Result) Throughput() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(r.Consumed) / r.Elapsed.Seconds()
}

// Runner owns the queue and workers of a single test case. Test cases run
// sequentially; a Runner is used for exactly one Run call and discarded.
type Runner struct {
	tc  config.TestCase
	out io.Writer
}

// NewRunner prepares a runner for tc. Per-event progress lines are written
// to out; pass io.Discard to silence them.
func NewRunner(tc config.TestCase, out io.Writer) *Runner {
	return &Runner{tc: tc, out: out}
}

// Run executes the test case: it allocates the shared queue, spawns
// NumProducers + NumConsumers workers bound to it, waits out duration,
// flips the termination signal with a broadcast wake-up, and joins every
// worker before returning the observed counters.
func (r *Runner) Run(duration time.Duration) (Result, error) {
	buf, err := boundedqueue.New(r.tc.Capacity)
	if err != nil {
		return Result{}, fmt.Errorf("test case with capacity %d: %w", r.tc.Capacity, err)
	}
	q := syncqueue.New(buf)

	// The parser is permissive; negative counts just mean no workers.
	producers := max(r.tc.NumProducers, 0)
	consumers := max(r.tc.NumConsumers, 0)

	var produced, consumed atomic.Int64
	var wg sync.WaitGroup

	start := time.Now()

	wg.Add(producers + consumers)
	for i := 0; i < producers; i++ {
		go func() {
			defer wg.Done()
			r.produce(q, &produced)
		}()
	}
	for i := 0; i < consumers; i++ {
		go func() {
			defer wg.Done()
			r.consume(q, &consumed)
		}()
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()
	<-ctx.Done()

	q.Terminate()
	wg.Wait()

	return Result{
		Produced:       produced.Load(),
		Consumed:       consumed.Load(),
		FinalOccupancy: q.Occupancy(),
		Elapsed:        time.Since(start),
	}, nil
}

// produce pushes random values until the run is terminated. A false return
// from Push means the worker was woken by termination; it exits without a
// final push even if space opened up in the meantime.
func (r *Runner) produce(q *syncqueue.Queue, produced *atomic.Int64) {
	for !q.Terminated() {
		item := rand.Intn(maxItemValue + 1)
		if !q.Push(item) {
			return
		}
		produced.Add(1)
		fmt.Fprintf(r.out, "\tProducer produces an item %d\n", item)
		pause(r.tc.ProducerSleepBound)
	}
}

// consume pops and logs values until the run is terminated.
func (r *Runner) consume(q *syncqueue.Queue, consumed *atomic.Int64) {
	for !q.Terminated() {
		item, ok := q.Pop()
		if !ok {
			return
		}
		consumed.Add(1)
		fmt.Fprintf(r.out, "\tConsumer consumes an item %d\n", item)
		pause(r.tc.ConsumerSleepBound)
	}
}

// pause sleeps for a duration drawn uniformly from [0, bound).
// Non-positive bounds mean no sleep.
func pause(bound time.Duration) {
	if bound <= 0 {
		return
	}
	time.Sleep(time.Duration(rand.Int63n(int64(bound))))
}
