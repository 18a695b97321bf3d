package app

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/alexanderramin/waterfall/internal/plandoc"
)

// Completion is the result of one generation request. Exactly one is
// delivered per Dispatch unless the request context ends first.
type Completion struct {
	Seq      uint64
	Prompt   string
	Document *plandoc.Document
	Err      error
}

// Dispatcher runs generation off the caller's goroutine and queues results
// for the owner of the plan state. Identical prompts already in flight share
// a single generator call.
type Dispatcher struct {
	gen   PlanGenerator
	group singleflight.Group
	seq   atomic.Uint64
	out   chan Completion
}

const defaultQueueSize = 16

func NewDispatcher(gen PlanGenerator) *Dispatcher {
	return &Dispatcher{gen: gen, out: make(chan Completion, defaultQueueSize)}
}

// Dispatch starts generating for prompt and returns the request's sequence
// number. Sequence numbers increase with every call.
func (d *Dispatcher) Dispatch(ctx context.Context, prompt string) uint64 {
	seq := d.seq.Add(1)
	go func() {
		// The shared call outlives any single caller; each caller stops
		// waiting on its own context instead.
		shared := context.WithoutCancel(ctx)
		ch := d.group.DoChan(prompt, func() (any, error) {
			return d.gen.Generate(shared, prompt)
		})
		var res singleflight.Result
		select {
		case res = <-ch:
		case <-ctx.Done():
			return
		}
		doc, _ := res.Val.(*plandoc.Document)
		c := Completion{Seq: seq, Prompt: prompt, Document: doc, Err: res.Err}
		select {
		case d.out <- c:
		case <-ctx.Done():
		}
	}()
	return seq
}

// Completions is the hand-off queue.
func (d *Dispatcher) Completions() <-chan Completion {
	return d.out
}

// Wait blocks for the next completion.
func (d *Dispatcher) Wait(ctx context.Context) (Completion, error) {
	select {
	case c := <-d.out:
		return c, nil
	case <-ctx.Done():
		return Completion{}, ctx.Err()
	}
}

// Latest returns the most recently issued sequence number.
func (d *Dispatcher) Latest() uint64 {
	return d.seq.Load()
}
