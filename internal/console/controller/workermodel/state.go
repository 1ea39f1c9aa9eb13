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

package workermodel

import (
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/statemachine"
)

// State is the view state of the editor.
type State int

const (
	Idle State = iota
	Loading
	Viewing
	EditingStructured
	EditingAsCode
	Saving
	Deleting
	Deleted
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Viewing:
		return "viewing"
	case EditingStructured:
		return "editing_structured"
	case EditingAsCode:
		return "editing_as_code"
	case Saving:
		return "saving"
	case Deleting:
		return "deleting"
	case Deleted:
		return "deleted"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

const (
	evEnter      statemachine.Event = "enter"
	evLoaded     statemachine.Event = "loaded"
	evLoadFailed statemachine.Event = "load_failed"
	evEdit       statemachine.Event = "edit"
	evAsCode     statemachine.Event = "as_code"
	evSave       statemachine.Event = "save"
	evSaved      statemachine.Event = "saved"
	evSaveFailed statemachine.Event = "save_failed"
	evDelete     statemachine.Event = "delete"
	evDeleted    statemachine.Event = "deleted"
	evDelFailed  statemachine.Event = "delete_failed"
)

// newStateMachine builds the editor transitions. Navigation resets the
// machine to Idle, so only Idle leads into Loading and the add mode.
func newStateMachine() *statemachine.StateMachine[State] {
	sm := statemachine.NewWithState(Idle)
	sm.Allow(Idle, Loading, EditingStructured).
		Allow(Loading, Viewing, Failed).
		Allow(Viewing, EditingStructured, EditingAsCode, Saving, Deleting).
		Allow(EditingStructured, EditingAsCode, Saving, Deleting).
		Allow(EditingAsCode, Saving, Deleting).
		Allow(Saving, Viewing, EditingStructured, EditingAsCode).
		Allow(Deleting, Deleted, Viewing)
	sm.OnTransition(func(from, to State, event statemachine.Event) error {
		log.Debugw("worker model view transition", "from", from, "to", to, "event", event)
		return nil
	})
	return sm
}
