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

// Package workermodel implements the worker model editor: loading, editing
// in structured or as-code form, saving and deleting one worker model.
package workermodel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/service"
	"github.com/go-arcade/console/pkg/dispatch"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/statemachine"
)

// AddName is the navigation name that opens an empty model.
const AddName = "add"

// DefaultSharedGroup is the reserved group only global admins may edit.
const DefaultSharedGroup = "shared.infra"

var ErrInvalidState = errors.New("operation not allowed in the current state")

const (
	kindGroups         = "groups"
	kindPatterns       = "patterns"
	kindTypes          = "types"
	kindCommunications = "communications"
	kindModel          = "model"
	kindGroupAdmin     = "group_admin"
	kindExport         = "export"
	kindSave           = "save"
	kindImport         = "import"
	kindDelete         = "delete"
	kindUsage          = "usage"
)

type Deps struct {
	WorkerModels service.IWorkerModelService
	Groups       service.IGroupService
	Session      service.ISessionProvider
	Notifier     service.INotifier
	Navigator    service.INavigator
	Metrics      *metrics.Console
}

type Option func(*Controller)

// WithSharedGroup overrides DefaultSharedGroup.
func WithSharedGroup(name string) Option {
	return func(c *Controller) {
		if name != "" {
			c.sharedGroup = name
		}
	}
}

// WithRequestTimeout bounds every backend request.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.timeout = d
	}
}

// View is a snapshot of everything the editor shows.
type View struct {
	State            State
	Model            *model.WorkerModel
	AsCode           string
	EnvNames         []string
	Path             []model.PathItem
	Patterns         []model.ModelPattern
	FilteredPatterns []model.ModelPattern
	PatternSelected  string
	Types            []string
	Communications   []string
	Groups           []model.Group
	Usages           []model.Pipeline
	UsageLoaded      bool
	CanEdit          bool
	NameError        bool
	Loading          bool
	DeleteLoading    bool
	LoadingAsCode    bool
	LoadingUsage     bool
	Err              error
}

type Controller struct {
	mu      sync.Mutex
	deps    Deps
	user    *model.User
	sm      *statemachine.StateMachine[State]
	tasks   *dispatch.Dispatcher
	view    View
	effects []func()

	sharedGroup string
	timeout     time.Duration
	// returnTo is the editing state restored after a save.
	returnTo State
}

// New creates the editor and starts loading the caller's groups and the
// pattern catalogue. Outcomes are applied by Settle or Run.
func New(ctx context.Context, deps Deps, opts ...Option) *Controller {
	c := &Controller{
		deps:        deps,
		sm:          newStateMachine(),
		sharedGroup: DefaultSharedGroup,
	}
	for _, opt := range opts {
		opt(c)
	}

	dispatchOpts := []dispatch.Option{
		dispatch.WithObserver(func(o dispatch.Outcome) {
			deps.Metrics.ObserveOutcome(o.Kind, o.Err, o.Stale)
		}),
	}
	if c.timeout > 0 {
		dispatchOpts = append(dispatchOpts, dispatch.WithTimeout(c.timeout))
	}
	c.tasks = dispatch.New(ctx, dispatchOpts...)

	// enter hooks run inside update, with c.mu held
	c.sm.OnEnter(Failed, func(State) error {
		log.Warnw("worker model could not be loaded", "error", c.view.Err)
		return nil
	})
	c.sm.OnEnter(Deleted, func(State) error {
		log.Infow("worker model deleted", "name", c.view.Model.Name, "id", c.view.Model.ID)
		return nil
	})

	if deps.Session != nil {
		user, err := deps.Session.GetUser()
		if err != nil {
			log.Warnw("worker model editor without user", "error", err)
		} else {
			c.user = user
		}
	}

	c.tasks.Submit(kindGroups, func(ctx context.Context) (any, error) {
		return deps.Groups.GetGroups(ctx, true)
	})
	c.tasks.Submit(kindPatterns, func(ctx context.Context) (any, error) {
		return deps.WorkerModels.GetWorkerModelPatterns(ctx)
	})
	c.view.Path = breadcrumb(nil)
	return c
}

// Settle applies outcomes until no request is pending.
func (c *Controller) Settle(ctx context.Context) error {
	return c.tasks.Drain(ctx, c.apply)
}

// Run applies outcomes until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	return c.tasks.Run(ctx, c.apply)
}

// Close cancels every pending request.
func (c *Controller) Close() {
	c.tasks.Close()
}

// Snapshot returns a copy of the current view.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	v.State = c.sm.Current()
	v.Model = c.view.Model.Clone()
	v.EnvNames = slices.Clone(c.view.EnvNames)
	v.Path = slices.Clone(c.view.Path)
	v.Patterns = slices.Clone(c.view.Patterns)
	v.FilteredPatterns = slices.Clone(c.view.FilteredPatterns)
	v.Types = slices.Clone(c.view.Types)
	v.Communications = slices.Clone(c.view.Communications)
	v.Groups = slices.Clone(c.view.Groups)
	v.Usages = slices.Clone(c.view.Usages)
	return v
}

// State returns the current view state.
func (c *Controller) State() State {
	return c.sm.Current()
}

// update runs fn under the lock, then the side effects it queued.
func (c *Controller) update(fn func() error) error {
	c.mu.Lock()
	err := fn()
	effects := c.effects
	c.effects = nil
	c.mu.Unlock()

	for _, effect := range effects {
		effect()
	}
	return err
}

func (c *Controller) notifySuccess(key string) {
	if c.deps.Notifier != nil {
		c.effects = append(c.effects, func() { c.deps.Notifier.Success(key) })
	}
}

func (c *Controller) navigate(path []string) {
	if c.deps.Navigator != nil {
		c.effects = append(c.effects, func() { c.deps.Navigator.Navigate(path...) })
	}
}

// surface records err as the view error and reports it.
func (c *Controller) surface(err error) {
	c.view.Err = err
	if c.deps.Notifier != nil {
		c.effects = append(c.effects, func() { c.deps.Notifier.Error(err) })
	}
}

func (c *Controller) transition(to State, event statemachine.Event) {
	if err := c.sm.TransitionTo(to, event); err != nil {
		log.Errorw("worker model view transition rejected", "to", to, "event", event, "error", err)
	}
}

func (c *Controller) requireState(states ...State) error {
	if !c.sm.IsOneOf(states...) {
		return fmt.Errorf("%w: %s", ErrInvalidState, c.sm.Current())
	}
	return nil
}

// reproject refreshes the state derived from the model.
func (c *Controller) reproject() {
	p := project(c.view.Model)
	c.view.EnvNames = p.envNames
	c.view.Path = p.path
}

// Enter navigates to the model named name, or to an empty model for AddName.
// Requests still running for the previous model are cancelled and their
// outcomes dropped.
func (c *Controller) Enter(name string) error {
	return c.update(func() error {
		c.tasks.Advance()
		c.sm.Reset()

		c.view.Model = nil
		c.view.AsCode = ""
		c.view.Usages = nil
		c.view.UsageLoaded = false
		c.view.LoadingUsage = false
		c.view.LoadingAsCode = false
		c.view.DeleteLoading = false
		c.view.PatternSelected = ""
		c.view.NameError = false
		c.view.CanEdit = false
		c.view.Err = nil

		ws := c.deps.WorkerModels
		c.tasks.SubmitScoped(kindTypes, func(ctx context.Context) (any, error) {
			return ws.GetWorkerModelTypes(ctx)
		})
		c.tasks.SubmitScoped(kindCommunications, func(ctx context.Context) (any, error) {
			return ws.GetWorkerModelCommunications(ctx)
		})

		if name == AddName {
			c.view.Model = &model.WorkerModel{}
			c.view.Loading = false
			c.view.CanEdit = c.user != nil
			c.view.FilteredPatterns = filterPatterns(c.view.Patterns, c.view.Model)
			c.reproject()
			c.transition(EditingStructured, evEnter)
			return nil
		}

		c.view.Loading = true
		c.reproject()
		c.transition(Loading, evEnter)
		c.tasks.SubmitScoped(kindModel, func(ctx context.Context) (any, error) {
			return ws.GetWorkerModelByName(ctx, name)
		})
		return nil
	})
}

// Edit applies fn to the model and leaves the view in structured editing.
func (c *Controller) Edit(fn func(m *model.WorkerModel)) error {
	return c.update(func() error {
		return c.edit(fn)
	})
}

func (c *Controller) edit(fn func(m *model.WorkerModel)) error {
	if err := c.requireState(Viewing, EditingStructured); err != nil {
		return err
	}
	fn(c.view.Model)
	c.reproject()
	if c.sm.Is(Viewing) {
		c.transition(EditingStructured, evEdit)
	}
	return nil
}

func (c *Controller) SetName(name string) error {
	return c.Edit(func(m *model.WorkerModel) { m.Name = name })
}

func (c *Controller) SetGroupID(id int64) error {
	return c.Edit(func(m *model.WorkerModel) { m.GroupID = id })
}

// SetType changes the model type and offers only the patterns of that type.
func (c *Controller) SetType(typ string) error {
	return c.update(func() error {
		if err := c.edit(func(m *model.WorkerModel) { m.Type = typ }); err != nil {
			return err
		}
		c.filterPatterns(typ)
		return nil
	})
}

// FilterPatterns clears the selected pattern and offers the patterns of typ.
func (c *Controller) FilterPatterns(typ string) {
	_ = c.update(func() error {
		c.filterPatterns(typ)
		return nil
	})
}

func (c *Controller) filterPatterns(typ string) {
	c.view.PatternSelected = ""
	c.view.FilteredPatterns = model.PatternsOfType(c.view.Patterns, typ)
}

// SelectPattern selects the named pattern among those offered for the
// model type and prefills the model with it. It is a no-op while the model
// has no type.
func (c *Controller) SelectPattern(name string) error {
	return c.update(func() error {
		if err := c.requireState(Viewing, EditingStructured); err != nil {
			return err
		}
		typ := c.view.Model.Type
		if typ == "" {
			return nil
		}
		p, ok := model.FindPattern(c.view.FilteredPatterns, name)
		if !ok || p.Type != typ {
			return fmt.Errorf("%w: %s for type %s", model.ErrUnknownPattern, name, typ)
		}
		if err := c.edit(func(m *model.WorkerModel) { m.ApplyPattern(p) }); err != nil {
			return err
		}
		c.view.PatternSelected = p.Name
		return nil
	})
}

// PreFillModel overwrites the command and environment fields with p's.
// Nothing changes while the model has no type or p is empty.
func (c *Controller) PreFillModel(p model.ModelPattern) error {
	return c.update(func() error {
		if err := c.requireState(Viewing, EditingStructured); err != nil {
			return err
		}
		if c.view.Model.Type == "" || p.Name == "" {
			return nil
		}
		return c.edit(func(m *model.WorkerModel) { m.ApplyPattern(p) })
	})
}

// AddEnv sets a docker environment variable. Empty names are ignored.
func (c *Controller) AddEnv(name, value string) error {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return c.Edit(func(m *model.WorkerModel) { m.SetEnv(name, value) })
}

func (c *Controller) DeleteEnv(name string) error {
	return c.Edit(func(m *model.WorkerModel) { m.DeleteEnv(name) })
}

// LoadAsCode switches the editor to the as-code document. The document is
// exported from the backend for saved models and rendered locally for new
// ones. Calling it again is a no-op.
func (c *Controller) LoadAsCode() error {
	return c.update(func() error {
		if c.sm.Is(EditingAsCode) {
			return nil
		}
		if err := c.requireState(Viewing, EditingStructured); err != nil {
			return err
		}
		c.transition(EditingAsCode, evAsCode)

		m := c.view.Model
		if !m.Persisted() {
			text, err := model.MarshalWorkerModel(m)
			if err != nil {
				c.surface(err)
				return err
			}
			c.view.AsCode = text
			return nil
		}

		id := m.ID
		c.view.LoadingAsCode = true
		c.tasks.SubmitScoped(kindExport, func(ctx context.Context) (any, error) {
			return c.deps.WorkerModels.ExportWorkerModel(ctx, id)
		})
		return nil
	})
}

// SetAsCode replaces the as-code document being edited.
func (c *Controller) SetAsCode(text string) error {
	return c.update(func() error {
		if err := c.requireState(EditingAsCode); err != nil {
			return err
		}
		c.view.AsCode = text
		return nil
	})
}

// Save validates the structured model and creates or updates it. The group
// id must match one of the loaded groups.
func (c *Controller) Save() error {
	return c.update(func() error {
		if err := c.requireState(Viewing, EditingStructured); err != nil {
			return err
		}
		m := c.view.Model
		if !model.ValidName(m.Name) {
			c.view.NameError = true
			return model.ErrInvalidName
		}
		c.view.NameError = false

		group, ok := model.FindGroup(c.view.Groups, m.GroupID)
		if !ok {
			err := fmt.Errorf("%w: id %d", model.ErrGroupNotFound, m.GroupID)
			c.surface(err)
			return err
		}

		payload := m.Clone()
		payload.Group = group
		if c.view.PatternSelected != "" {
			payload.PatternName = c.view.PatternSelected
		}
		payload.Normalize()

		c.view.Err = nil
		c.view.Loading = true
		c.returnTo = EditingStructured
		c.transition(Saving, evSave)
		ws := c.deps.WorkerModels
		c.tasks.SubmitScoped(kindSave, func(ctx context.Context) (any, error) {
			if payload.Persisted() {
				return ws.UpdateWorkerModel(ctx, payload)
			}
			return ws.CreateWorkerModel(ctx, payload)
		})
		return nil
	})
}

// SaveAsCode imports the as-code document, replacing any model of the same
// name. An empty document is a no-op.
func (c *Controller) SaveAsCode() error {
	return c.update(func() error {
		if err := c.requireState(EditingAsCode); err != nil {
			return err
		}
		text := c.view.AsCode
		if strings.TrimSpace(text) == "" {
			return nil
		}
		if err := model.ValidateDocument(text); err != nil {
			c.surface(err)
			return err
		}

		c.view.Err = nil
		c.view.Loading = true
		c.returnTo = EditingAsCode
		c.transition(Saving, evSave)
		c.tasks.SubmitScoped(kindImport, func(ctx context.Context) (any, error) {
			return c.deps.WorkerModels.ImportWorkerModel(ctx, text, true)
		})
		return nil
	})
}

// Delete removes the saved model.
func (c *Controller) Delete() error {
	return c.update(func() error {
		if err := c.requireState(Viewing, EditingStructured, EditingAsCode); err != nil {
			return err
		}
		if !c.view.Model.Persisted() {
			return model.ErrNotPersisted
		}
		target := c.view.Model.Clone()
		c.view.Err = nil
		c.view.DeleteLoading = true
		c.transition(Deleting, evDelete)
		c.tasks.SubmitScoped(kindDelete, func(ctx context.Context) (any, error) {
			return nil, c.deps.WorkerModels.DeleteWorkerModel(ctx, target)
		})
		return nil
	})
}

// LoadUsage fetches the pipelines using the model, once per navigation.
func (c *Controller) LoadUsage() error {
	return c.update(func() error {
		m := c.view.Model
		if c.view.UsageLoaded || c.view.LoadingUsage || !m.Persisted() {
			return nil
		}
		id := m.ID
		c.view.LoadingUsage = true
		c.tasks.SubmitScoped(kindUsage, func(ctx context.Context) (any, error) {
			return c.deps.WorkerModels.GetUsage(ctx, id)
		})
		return nil
	})
}

// resolveCanEdit decides editability for a freshly loaded model. Models of
// groups other than the shared one are checked asynchronously against the
// group admins.
func (c *Controller) resolveCanEdit() {
	c.view.CanEdit = false
	if c.user == nil {
		return
	}
	if c.user.Admin {
		c.view.CanEdit = true
		return
	}
	m := c.view.Model
	name := ""
	if m.Group != nil {
		name = m.Group.Name
	} else if g, ok := model.FindGroup(c.view.Groups, m.GroupID); ok {
		name = g.Name
	}
	if name == "" || name == c.sharedGroup {
		return
	}
	c.tasks.SubmitScoped(kindGroupAdmin, func(ctx context.Context) (any, error) {
		return c.deps.Groups.GetGroupByName(ctx, name)
	})
}

func (c *Controller) apply(o dispatch.Outcome) {
	_ = c.update(func() error {
		c.applyLocked(o)
		return nil
	})
}

func (c *Controller) applyLocked(o dispatch.Outcome) {
	switch o.Kind {
	case kindGroups:
		if o.Err != nil {
			c.surface(fmt.Errorf("load groups: %w", o.Err))
			return
		}
		c.view.Groups, _ = dispatch.Value[[]model.Group](o)

	case kindPatterns:
		if o.Err != nil {
			c.surface(fmt.Errorf("load patterns: %w", o.Err))
			return
		}
		c.view.Patterns, _ = dispatch.Value[[]model.ModelPattern](o)
		c.view.FilteredPatterns = filterPatterns(c.view.Patterns, c.view.Model)

	case kindTypes:
		if o.Err != nil {
			c.surface(fmt.Errorf("load types: %w", o.Err))
			return
		}
		c.view.Types, _ = dispatch.Value[[]string](o)

	case kindCommunications:
		if o.Err != nil {
			c.surface(fmt.Errorf("load communications: %w", o.Err))
			return
		}
		c.view.Communications, _ = dispatch.Value[[]string](o)

	case kindModel:
		c.view.Loading = false
		if o.Err != nil {
			c.surface(o.Err)
			c.transition(Failed, evLoadFailed)
			return
		}
		wm, _ := dispatch.Value[*model.WorkerModel](o)
		if wm == nil {
			c.surface(errors.New("empty worker model response"))
			c.transition(Failed, evLoadFailed)
			return
		}
		c.view.Model = wm
		c.reproject()
		c.view.FilteredPatterns = filterPatterns(c.view.Patterns, wm)
		c.resolveCanEdit()
		c.transition(Viewing, evLoaded)

	case kindGroupAdmin:
		if o.Err != nil {
			log.Warnw("group admin lookup failed", "error", o.Err)
			return
		}
		g, _ := dispatch.Value[*model.Group](o)
		c.view.CanEdit = c.user != nil && g.IsAdmin(c.user.Username)

	case kindExport:
		c.view.LoadingAsCode = false
		if o.Err != nil {
			c.surface(o.Err)
			return
		}
		c.view.AsCode, _ = dispatch.Value[string](o)

	case kindSave, kindImport:
		c.view.Loading = false
		c.view.PatternSelected = ""
		if o.Err != nil {
			c.surface(o.Err)
			c.transition(c.returnTo, evSaveFailed)
			return
		}
		wm, _ := dispatch.Value[*model.WorkerModel](o)
		if wm != nil {
			c.view.Model = wm
		}
		c.reproject()
		c.notifySuccess(service.MsgWorkerModelSaved)
		if o.Kind == kindImport {
			c.transition(EditingAsCode, evSaved)
			return
		}
		c.navigate(modelRoute(c.view.Model.Name))
		c.transition(Viewing, evSaved)

	case kindDelete:
		c.view.DeleteLoading = false
		if o.Err != nil {
			c.surface(o.Err)
			c.transition(Viewing, evDelFailed)
			return
		}
		c.notifySuccess(service.MsgWorkerModelDeleted)
		c.navigate(modelRoute(""))
		c.transition(Deleted, evDeleted)

	case kindUsage:
		c.view.LoadingUsage = false
		if o.Err != nil {
			c.surface(fmt.Errorf("load usage: %w", o.Err))
			return
		}
		c.view.Usages, _ = dispatch.Value[[]model.Pipeline](o)
		c.view.UsageLoaded = true

	default:
		log.Warnw("unknown worker model outcome", "kind", o.Kind)
	}
}
