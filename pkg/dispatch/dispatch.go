// Copyright 2025 Arcade Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dispatch runs remote calls as asynchronous tasks and delivers each
// result as exactly one Outcome on a single result channel.
//
// Tasks submitted with SubmitScoped belong to the current generation. Advance
// cancels every scoped task of the previous generation; their outcomes are
// still delivered (so Pending stays accurate) but are marked Stale and skipped
// by Drain and Run.
package dispatch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-arcade/console/pkg/id"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/safe"
)

// Task is a unit of remote work. It must respect ctx.
type Task func(ctx context.Context) (any, error)

// Outcome is the single result produced by a Task.
type Outcome struct {
	ID         string
	Kind       string
	Generation uint64
	Scoped     bool
	Stale      bool
	Value      any
	Err        error
	Elapsed    time.Duration
}

// Value returns the typed value of an outcome.
func Value[T any](o Outcome) (T, bool) {
	v, ok := o.Value.(T)
	return v, ok
}

type Option func(*Dispatcher)

// WithTimeout bounds every task with the given timeout.
func WithTimeout(d time.Duration) Option {
	return func(dp *Dispatcher) {
		dp.timeout = d
	}
}

// WithObserver calls fn with every received outcome, stale ones included.
func WithObserver(fn func(Outcome)) Option {
	return func(dp *Dispatcher) {
		dp.observe = fn
	}
}

// WithBuffer sets the capacity of the outcome channel.
func WithBuffer(n int) Option {
	return func(dp *Dispatcher) {
		if n > 0 {
			dp.buffer = n
		}
	}
}

type Dispatcher struct {
	mu sync.Mutex

	base       context.Context
	baseCancel context.CancelFunc
	nav        context.Context
	navCancel  context.CancelFunc
	generation uint64
	pending    int

	timeout  time.Duration
	buffer   int
	outcomes chan Outcome
	observe  func(Outcome)
}

// New creates a Dispatcher whose tasks derive from ctx.
func New(ctx context.Context, opts ...Option) *Dispatcher {
	d := &Dispatcher{buffer: 64}
	for _, opt := range opts {
		opt(d)
	}
	d.base, d.baseCancel = context.WithCancel(ctx)
	d.nav, d.navCancel = context.WithCancel(d.base)
	d.outcomes = make(chan Outcome, d.buffer)
	return d
}

// Submit runs fn outside of any navigation generation.
func (d *Dispatcher) Submit(kind string, fn Task) string {
	return d.submit(kind, false, fn)
}

// SubmitScoped runs fn bound to the current generation.
func (d *Dispatcher) SubmitScoped(kind string, fn Task) string {
	return d.submit(kind, true, fn)
}

func (d *Dispatcher) submit(kind string, scoped bool, fn Task) string {
	d.mu.Lock()
	parent := d.base
	if scoped {
		parent = d.nav
	}
	gen := d.generation
	d.pending++
	d.mu.Unlock()

	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if d.timeout > 0 {
		ctx, cancel = context.WithTimeout(parent, d.timeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}

	taskID := id.GetUlid()
	safe.Go(func() {
		defer cancel()
		start := time.Now()
		value, err := run(ctx, fn)
		o := Outcome{
			ID:         taskID,
			Kind:       kind,
			Generation: gen,
			Scoped:     scoped,
			Value:      value,
			Err:        err,
			Elapsed:    time.Since(start),
		}
		select {
		case d.outcomes <- o:
		case <-d.base.Done():
		}
	})
	return taskID
}

func run(ctx context.Context, fn Task) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("task panicked: %v", r)
		}
	}()
	return fn(ctx)
}

// Advance starts a new generation and cancels the scoped tasks of the previous one.
func (d *Dispatcher) Advance() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.navCancel()
	d.nav, d.navCancel = context.WithCancel(d.base)
	d.generation++
	return d.generation
}

// Generation returns the current generation.
func (d *Dispatcher) Generation() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.generation
}

// Pending returns the number of submitted tasks whose outcome was not consumed yet.
func (d *Dispatcher) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Next blocks for the next outcome.
func (d *Dispatcher) Next(ctx context.Context) (Outcome, error) {
	select {
	case o := <-d.outcomes:
		d.mu.Lock()
		d.pending--
		o.Stale = o.Scoped && o.Generation != d.generation
		d.mu.Unlock()
		if d.observe != nil {
			d.observe(o)
		}
		return o, nil
	case <-ctx.Done():
		return Outcome{}, ctx.Err()
	case <-d.base.Done():
		return Outcome{}, d.base.Err()
	}
}

// Drain applies outcomes until no task is pending. apply may submit new tasks;
// they are drained too.
func (d *Dispatcher) Drain(ctx context.Context, apply func(Outcome)) error {
	for d.Pending() > 0 {
		o, err := d.Next(ctx)
		if err != nil {
			return err
		}
		if o.Stale {
			log.Debugw("dropping stale outcome", "kind", o.Kind, "generation", o.Generation)
			continue
		}
		apply(o)
	}
	return nil
}

// Run applies outcomes until ctx is done.
func (d *Dispatcher) Run(ctx context.Context, apply func(Outcome)) error {
	for {
		o, err := d.Next(ctx)
		if err != nil {
			return err
		}
		if o.Stale {
			log.Debugw("dropping stale outcome", "kind", o.Kind, "generation", o.Generation)
			continue
		}
		apply(o)
	}
}

// Close cancels every task.
func (d *Dispatcher) Close() {
	d.baseCancel()
}
