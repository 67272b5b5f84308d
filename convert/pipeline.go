// Copyright ©2024 The wga Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package convert

import (
	"container/heap"
	"sync"
)

// Pipeline runs a conversion function over a stream of input records
// using a bounded pool of worker goroutines, while committing results
// to the output in the same order the input was read (§4.4, §5: "a
// converter pass is internally parallel but externally ordered").
//
// The shape is one reader goroutine feeding a bounded channel of
// (seq, record) pairs, N worker goroutines draining it and computing
// (seq, result) pairs, and a single committer loop holding a min-heap
// keyed by seq that releases results to Emit strictly in input order.
// It generalizes the block reassembly queue a blocked-gzip reader uses
// to reorder decompressed blocks, from fixed-size blocks to alignment
// records of any format.
type Pipeline struct {
	// Workers is the number of concurrent conversion goroutines. A
	// value <= 1 runs with a single worker.
	Workers int
	// Convert transforms one input record into one output record, or
	// returns an error to report it against that record.
	Convert func(in interface{}) (interface{}, error)
	// Emit is called once per successfully converted record, strictly
	// in input order, until the run records its first error.
	Emit func(interface{}) error
	// OnError is called for every record whose Convert returned an
	// error; a non-nil return becomes the run's error. If OnError is
	// nil, the Convert error itself becomes the run's error. Once the
	// run has an error (from OnError, Convert or Emit), Emit is not
	// called again, but the remaining input is still read and
	// converted before Run returns.
	OnError func(in interface{}, err error) error
}

type job struct {
	seq int
	in  interface{}
}

type result struct {
	seq int
	in  interface{}
	out interface{}
	err error
}

// resultHeap orders pending results by seq, ascending.
type resultHeap []result

func (h resultHeap) Len() int           { return len(h) }
func (h resultHeap) Less(i, j int) bool { return h[i].seq < h[j].seq }
func (h resultHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *resultHeap) Push(x interface{}) { *h = append(*h, x.(result)) }
func (h *resultHeap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// Run reads records from next until it returns ok=false, converts them
// through p.Workers goroutines, and commits results to p.Emit in the
// order next produced them. It returns the first error surfaced by
// p.OnError (or a bare Convert error, if OnError is nil), by p.Emit,
// or by next itself, after the reader and all workers have finished.
func (p *Pipeline) Run(next func() (interface{}, bool, error)) error {
	workers := p.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan job, workers)
	results := make(chan result, workers)

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := range jobs {
				out, err := p.Convert(j.in)
				results <- result{seq: j.seq, in: j.in, out: out, err: err}
			}
		}()
	}

	var readErr error
	go func() {
		defer close(jobs)
		seq := 0
		for {
			in, ok, err := next()
			if err != nil {
				readErr = err
				return
			}
			if !ok {
				return
			}
			jobs <- job{seq: seq, in: in}
			seq++
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	pending := &resultHeap{}
	heap.Init(pending)
	expect := 0
	var firstErr error
	for r := range results {
		heap.Push(pending, r)
		for pending.Len() > 0 && (*pending)[0].seq == expect {
			top := heap.Pop(pending).(result)
			expect++
			if top.err != nil {
				handled := top.err
				if p.OnError != nil {
					handled = p.OnError(top.in, top.err)
				}
				if handled != nil && firstErr == nil {
					firstErr = handled
				}
				continue
			}
			if firstErr != nil {
				continue
			}
			if err := p.Emit(top.out); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if firstErr != nil {
		return firstErr
	}
	return readErr
}
