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
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type viewState string

const (
	stateIdle    viewState = "idle"
	stateLoading viewState = "loading"
	stateViewing viewState = "viewing"
	stateSaving  viewState = "saving"
	stateFailed  viewState = "failed"
)

func newViewMachine() *StateMachine[viewState] {
	sm := NewWithState(stateIdle)
	sm.Allow(stateIdle, stateLoading).
		Allow(stateLoading, stateViewing, stateFailed).
		Allow(stateViewing, stateSaving).
		Allow(stateSaving, stateViewing, stateFailed)
	return sm
}

func TestStateMachine_Basic(t *testing.T) {
	sm := newViewMachine()
	assert.Equal(t, stateIdle, sm.Current())

	require.NoError(t, sm.TransitionTo(stateLoading, "enter"))
	assert.Equal(t, stateLoading, sm.Current())

	err := sm.TransitionTo(stateSaving, "save")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid transition")
	assert.Equal(t, stateLoading, sm.Current())
}

func TestStateMachine_AllowIsIdempotent(t *testing.T) {
	sm := newViewMachine()
	sm.Allow(stateIdle, stateLoading, stateLoading)

	require.NoError(t, sm.TransitionTo(stateLoading, ""))
	assert.Error(t, sm.TransitionTo(stateIdle, ""))
}

func TestStateMachine_Hooks(t *testing.T) {
	sm := newViewMachine()
	var calls []string

	sm.OnTransition(func(from, to viewState, event Event) error {
		calls = append(calls, "transition:"+string(event))
		return nil
	})
	sm.OnEnter(stateLoading, func(s viewState) error {
		calls = append(calls, "enter:"+string(s))
		// hooks may read the machine
		assert.Equal(t, stateLoading, sm.Current())
		return nil
	})
	sm.OnEnter(stateFailed, func(s viewState) error {
		calls = append(calls, "enter:"+string(s))
		return nil
	})

	require.NoError(t, sm.TransitionTo(stateLoading, "enter"))
	require.NoError(t, sm.TransitionTo(stateViewing, "loaded"))
	assert.Equal(t, []string{"transition:enter", "enter:loading", "transition:loaded"}, calls)
}

func TestStateMachine_HookErrors(t *testing.T) {
	t.Run("transition hook keeps the state", func(t *testing.T) {
		sm := newViewMachine()
		sm.OnTransition(func(viewState, viewState, Event) error { return errors.New("busy") })

		err := sm.TransitionTo(stateLoading, "enter")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "transition hook failed")
		assert.Equal(t, stateIdle, sm.Current())
	})

	t.Run("enter hook runs after the change", func(t *testing.T) {
		sm := newViewMachine()
		sm.OnEnter(stateLoading, func(viewState) error { return errors.New("late") })

		err := sm.TransitionTo(stateLoading, "enter")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enter hook failed")
		assert.Equal(t, stateLoading, sm.Current())
	})
}

func TestStateMachine_Reset(t *testing.T) {
	sm := newViewMachine()
	entered := 0
	sm.OnEnter(stateIdle, func(viewState) error {
		entered++
		return nil
	})
	require.NoError(t, sm.TransitionTo(stateLoading, ""))

	sm.Reset()
	assert.Equal(t, stateIdle, sm.Current())
	assert.Zero(t, entered)
}

func TestStateMachine_IsOneOf(t *testing.T) {
	sm := newViewMachine()

	assert.True(t, sm.Is(stateIdle))
	assert.True(t, sm.IsOneOf(stateLoading, stateIdle))
	assert.False(t, sm.IsOneOf(stateSaving, stateFailed))
}

func TestStateMachine_Concurrency(t *testing.T) {
	sm := NewWithState(stateIdle)
	sm.Allow(stateIdle, stateLoading).Allow(stateLoading, stateIdle)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = sm.TransitionTo(stateLoading, "")
			_ = sm.TransitionTo(stateIdle, "")
			_ = sm.Current()
		}()
	}
	wg.Wait()

	assert.True(t, sm.IsOneOf(stateIdle, stateLoading))
}
