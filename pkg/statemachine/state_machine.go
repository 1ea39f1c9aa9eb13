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
package statemachine

import (
	"fmt"
	"slices"
	"sync"
)

// Event labels a transition. It is optional.
type Event string

// TransitionHook is triggered when a state transition occurs.
type TransitionHook[T comparable] func(from, to T, event Event) error

// StateHook is triggered when entering a state.
type StateHook[T comparable] func(state T) error

// StateMachine is a generic finite state machine with transition and enter
// hooks. Hooks run without the internal lock held, so they may read the
// machine.
type StateMachine[T comparable] struct {
	mu sync.RWMutex

	currentState T
	initialState T

	// from state -> valid next states
	validTransitions map[T][]T

	onTransition []TransitionHook[T]
	onEnter      map[T][]StateHook[T]
}

// New creates a new StateMachine instance.
func New[T comparable]() *StateMachine[T] {
	return &StateMachine[T]{
		validTransitions: make(map[T][]T),
		onEnter:          make(map[T][]StateHook[T]),
	}
}

// NewWithState creates a new StateMachine with an initial state.
func NewWithState[T comparable](initialState T) *StateMachine[T] {
	sm := New[T]()
	sm.currentState = initialState
	sm.initialState = initialState
	return sm
}

// Allow registers valid transitions from one state to the given targets.
func (sm *StateMachine[T]) Allow(from T, to ...T) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for _, target := range to {
		if !slices.Contains(sm.validTransitions[from], target) {
			sm.validTransitions[from] = append(sm.validTransitions[from], target)
		}
	}
	return sm
}

// Current returns the current state of the StateMachine.
func (sm *StateMachine[T]) Current() T {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.currentState
}

// Is checks if the current state matches the given state.
func (sm *StateMachine[T]) Is(state T) bool {
	return sm.Current() == state
}

// IsOneOf checks if the current state is one of the given states.
func (sm *StateMachine[T]) IsOneOf(states ...T) bool {
	return slices.Contains(states, sm.Current())
}

// Reset moves the StateMachine back to its initial state without running
// any hook.
func (sm *StateMachine[T]) Reset() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.currentState = sm.initialState
}

// OnTransition registers a hook that is called during any state transition.
func (sm *StateMachine[T]) OnTransition(h TransitionHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onTransition = append(sm.onTransition, h)
	return sm
}

// OnEnter registers a hook that is called when entering a specific state.
func (sm *StateMachine[T]) OnEnter(state T, h StateHook[T]) *StateMachine[T] {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.onEnter[state] = append(sm.onEnter[state], h)
	return sm
}

// TransitionTo moves from the current state to the target state. A failing
// transition hook leaves the state unchanged; enter hooks run after the
// state has changed.
func (sm *StateMachine[T]) TransitionTo(to T, event Event) error {
	sm.mu.RLock()
	from := sm.currentState
	allowed := slices.Contains(sm.validTransitions[from], to)
	transitionHooks := slices.Clone(sm.onTransition)
	enterHooks := slices.Clone(sm.onEnter[to])
	sm.mu.RUnlock()

	if !allowed {
		return fmt.Errorf("invalid transition: %v → %v", from, to)
	}
	for _, h := range transitionHooks {
		if err := h(from, to, event); err != nil {
			return fmt.Errorf("transition hook failed: %w", err)
		}
	}

	sm.mu.Lock()
	sm.currentState = to
	sm.mu.Unlock()

	for _, h := range enterHooks {
		if err := h(to); err != nil {
			return fmt.Errorf("enter hook failed for state %v: %w", to, err)
		}
	}
	return nil
}
