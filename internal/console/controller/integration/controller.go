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

// Package integration implements the form adding an integration to a
// project.
package integration

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/service"
	"github.com/go-arcade/console/pkg/dispatch"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
)

const (
	kindModels = "integration_models"
	kindCreate = "add_integration"
)

var ErrCreateInFlight = errors.New("an integration is already being created")

type Deps struct {
	Integrations service.IIntegrationService
	Notifier     service.INotifier
	Metrics      *metrics.Console
}

// View is a snapshot of the form.
type View struct {
	ProjectKey    string
	Models        []model.IntegrationModel
	Integration   model.ProjectIntegration
	LoadingModels bool
	Loading       bool
	NameError     bool
	ModelError    bool
	Created       *model.ProjectIntegration
	Err           error
}

type Controller struct {
	mu      sync.Mutex
	deps    Deps
	tasks   *dispatch.Dispatcher
	view    View
	effects []func()
}

// New creates the form for projectKey and starts loading the integration
// models a project can use.
func New(ctx context.Context, projectKey string, deps Deps) *Controller {
	c := &Controller{
		deps: deps,
		tasks: dispatch.New(ctx, dispatch.WithObserver(func(o dispatch.Outcome) {
			deps.Metrics.ObserveOutcome(o.Kind, o.Err, o.Stale)
		})),
		view: View{ProjectKey: projectKey, LoadingModels: true},
	}
	c.tasks.Submit(kindModels, func(ctx context.Context) (any, error) {
		return deps.Integrations.GetIntegrationModels(ctx)
	})
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

func (c *Controller) Close() {
	c.tasks.Close()
}

func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := c.view
	v.Models = slices.Clone(c.view.Models)
	v.Integration.Config = c.view.Integration.Config.Clone()
	if m := c.view.Integration.Model; m != nil {
		cp := *m
		cp.DefaultConfig = m.DefaultConfig.Clone()
		v.Integration.Model = &cp
	}
	if c.view.Created != nil {
		created := *c.view.Created
		v.Created = &created
	}
	return v
}

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

func (c *Controller) surface(err error) {
	c.view.Err = err
	if c.deps.Notifier != nil {
		c.effects = append(c.effects, func() { c.deps.Notifier.Error(err) })
	}
}

// SelectModel attaches the named integration model and fills in its
// default configuration.
func (c *Controller) SelectModel(name string) error {
	return c.update(func() error {
		i := slices.IndexFunc(c.view.Models, func(m model.IntegrationModel) bool { return m.Name == name })
		if i < 0 {
			return fmt.Errorf("%w: %s", model.ErrNoIntegrationModel, name)
		}
		selected := c.view.Models[i]
		selected.DefaultConfig = maps.Clone(selected.DefaultConfig)
		c.view.Integration.Model = &selected
		c.view.Integration.IntegrationModelID = selected.ID
		c.view.ModelError = false
		return c.updateConfig()
	})
}

// UpdateConfig merges the default configuration of the selected model into
// the configuration being edited. Values already present are kept.
func (c *Controller) UpdateConfig() error {
	return c.update(c.updateConfig)
}

func (c *Controller) updateConfig() error {
	m := c.view.Integration.Model
	if m == nil {
		return model.ErrNoIntegrationModel
	}
	c.view.Integration.Config = model.MergeIntegrationConfig(m.DefaultConfig, c.view.Integration.Config)
	return nil
}

func (c *Controller) SetName(name string) {
	_ = c.update(func() error {
		c.view.Integration.Name = name
		c.view.NameError = false
		return nil
	})
}

// SetConfigValue sets the value of key, keeping the type and description of
// an existing entry.
func (c *Controller) SetConfigValue(key, value string) {
	_ = c.update(func() error {
		if c.view.Integration.Config == nil {
			c.view.Integration.Config = model.IntegrationConfig{}
		}
		entry, ok := c.view.Integration.Config[key]
		if !ok {
			entry.Type = model.IntegrationConfigTypeString
		}
		entry.Value = value
		entry.Source = model.ConfigSourceUser
		c.view.Integration.Config[key] = entry
		return nil
	})
}

// Create sends the integration. A model and a name are required.
func (c *Controller) Create() error {
	return c.update(func() error {
		if c.view.Loading {
			return ErrCreateInFlight
		}
		integ := c.view.Integration
		c.view.ModelError = integ.Model == nil
		c.view.NameError = strings.TrimSpace(integ.Name) == ""
		switch {
		case c.view.ModelError:
			return model.ErrNoIntegrationModel
		case c.view.NameError:
			return model.ErrIntegrationNameEmpty
		}

		payload := integ
		payload.Config = integ.Config.Clone()
		c.view.Err = nil
		c.view.Loading = true
		key := c.view.ProjectKey
		c.tasks.Submit(kindCreate, func(ctx context.Context) (any, error) {
			return c.deps.Integrations.AddProjectIntegration(ctx, key, payload)
		})
		return nil
	})
}

func (c *Controller) apply(o dispatch.Outcome) {
	_ = c.update(func() error {
		switch o.Kind {
		case kindModels:
			c.view.LoadingModels = false
			if o.Err != nil {
				c.surface(fmt.Errorf("load integration models: %w", o.Err))
				return nil
			}
			all, _ := dispatch.Value[[]model.IntegrationModel](o)
			c.view.Models = slices.DeleteFunc(all, func(m model.IntegrationModel) bool { return m.Public })

		case kindCreate:
			c.view.Loading = false
			if o.Err != nil {
				c.surface(o.Err)
				return nil
			}
			c.view.Created, _ = dispatch.Value[*model.ProjectIntegration](o)
			c.view.Integration = model.ProjectIntegration{}
			if c.deps.Notifier != nil {
				c.effects = append(c.effects, func() { c.deps.Notifier.Success(service.MsgProjectUpdated) })
			}

		default:
			log.Warnw("unknown integration outcome", "kind", o.Kind)
		}
		return nil
	})
}
