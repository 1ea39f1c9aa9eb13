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

package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/service"
	"github.com/go-resty/resty/v2"
)

// Operation names label metrics and errors.
const (
	OpGetWorkerModelPatterns       = "get_worker_model_patterns"
	OpGetWorkerModelTypes          = "get_worker_model_types"
	OpGetWorkerModelCommunications = "get_worker_model_communications"
	OpGetWorkerModel               = "get_worker_model"
	OpCreateWorkerModel            = "create_worker_model"
	OpUpdateWorkerModel            = "update_worker_model"
	OpDeleteWorkerModel            = "delete_worker_model"
	OpExportWorkerModel            = "export_worker_model"
	OpImportWorkerModel            = "import_worker_model"
	OpGetWorkerModelUsage          = "get_worker_model_usage"
	OpGetIntegrationModels         = "get_integration_models"
	OpAddProjectIntegration        = "add_project_integration"
	OpGetGroups                    = "get_groups"
	OpGetGroup                     = "get_group"
)

var (
	_ service.IWorkerModelService = (*Client)(nil)
	_ service.IIntegrationService = (*Client)(nil)
	_ service.IGroupService       = (*Client)(nil)
)

func withID(id int64) func(*resty.Request) {
	return func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatInt(id, 10))
	}
}

func (c *Client) GetWorkerModelPatterns(ctx context.Context) ([]model.ModelPattern, error) {
	return fetch[[]model.ModelPattern](ctx, c, call{op: OpGetWorkerModelPatterns, method: http.MethodGet, path: "/worker/model/pattern"})
}

func (c *Client) GetWorkerModelTypes(ctx context.Context) ([]string, error) {
	return fetch[[]string](ctx, c, call{op: OpGetWorkerModelTypes, method: http.MethodGet, path: "/worker/model/type"})
}

func (c *Client) GetWorkerModelCommunications(ctx context.Context) ([]string, error) {
	return fetch[[]string](ctx, c, call{op: OpGetWorkerModelCommunications, method: http.MethodGet, path: "/worker/model/communication"})
}

// GetWorkerModelByName returns the model named name or an error wrapping
// ErrNotFound.
func (c *Client) GetWorkerModelByName(ctx context.Context, name string) (*model.WorkerModel, error) {
	return fetch[*model.WorkerModel](ctx, c, call{
		op:     OpGetWorkerModel,
		method: http.MethodGet,
		path:   "/worker/model",
		build: func(r *resty.Request) {
			r.SetQueryParam("name", name)
		},
	})
}

func (c *Client) CreateWorkerModel(ctx context.Context, wm *model.WorkerModel) (*model.WorkerModel, error) {
	return fetch[*model.WorkerModel](ctx, c, call{
		op:     OpCreateWorkerModel,
		method: http.MethodPost,
		path:   "/worker/model",
		build: func(r *resty.Request) {
			r.SetBody(wm)
		},
	})
}

func (c *Client) UpdateWorkerModel(ctx context.Context, wm *model.WorkerModel) (*model.WorkerModel, error) {
	if !wm.Persisted() {
		return nil, model.ErrNotPersisted
	}
	return fetch[*model.WorkerModel](ctx, c, call{
		op:     OpUpdateWorkerModel,
		method: http.MethodPut,
		path:   "/worker/model/{id}",
		build: func(r *resty.Request) {
			withID(wm.ID)(r)
			r.SetBody(wm)
		},
	})
}

func (c *Client) DeleteWorkerModel(ctx context.Context, wm *model.WorkerModel) error {
	if !wm.Persisted() {
		return model.ErrNotPersisted
	}
	_, err := c.send(ctx, call{op: OpDeleteWorkerModel, method: http.MethodDelete, path: "/worker/model/{id}", build: withID(wm.ID)})
	return err
}

// ExportWorkerModel returns the as-code YAML document of a model.
func (c *Client) ExportWorkerModel(ctx context.Context, id int64) (string, error) {
	body, err := c.send(ctx, call{
		op:     OpExportWorkerModel,
		method: http.MethodGet,
		path:   "/worker/model/{id}/export",
		build: func(r *resty.Request) {
			withID(id)(r)
			r.SetHeader("Accept", "application/x-yaml")
		},
	})
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// ImportWorkerModel sends an as-code document. With force an existing
// model of the same name is replaced.
func (c *Client) ImportWorkerModel(ctx context.Context, document string, force bool) (*model.WorkerModel, error) {
	return fetch[*model.WorkerModel](ctx, c, call{
		op:     OpImportWorkerModel,
		method: http.MethodPost,
		path:   "/worker/model/import",
		build: func(r *resty.Request) {
			r.SetQueryParam("force", strconv.FormatBool(force))
			r.SetHeader("Content-Type", "application/x-yaml")
			r.SetBody(document)
		},
	})
}

func (c *Client) GetUsage(ctx context.Context, id int64) ([]model.Pipeline, error) {
	return fetch[[]model.Pipeline](ctx, c, call{op: OpGetWorkerModelUsage, method: http.MethodGet, path: "/worker/model/{id}/usage", build: withID(id)})
}

func (c *Client) GetIntegrationModels(ctx context.Context) ([]model.IntegrationModel, error) {
	return fetch[[]model.IntegrationModel](ctx, c, call{op: OpGetIntegrationModels, method: http.MethodGet, path: "/integration/models"})
}

func (c *Client) AddProjectIntegration(ctx context.Context, projectKey string, integration model.ProjectIntegration) (*model.ProjectIntegration, error) {
	return fetch[*model.ProjectIntegration](ctx, c, call{
		op:     OpAddProjectIntegration,
		method: http.MethodPost,
		path:   "/project/{key}/integrations",
		build: func(r *resty.Request) {
			r.SetPathParam("key", projectKey)
			r.SetBody(integration)
		},
	})
}

func (c *Client) GetGroups(ctx context.Context, onlyMine bool) ([]model.Group, error) {
	return fetch[[]model.Group](ctx, c, call{
		op:     OpGetGroups,
		method: http.MethodGet,
		path:   "/group",
		build: func(r *resty.Request) {
			r.SetQueryParam("onlyMine", strconv.FormatBool(onlyMine))
		},
	})
}

func (c *Client) GetGroupByName(ctx context.Context, name string) (*model.Group, error) {
	return fetch[*model.Group](ctx, c, call{
		op:     OpGetGroup,
		method: http.MethodGet,
		path:   "/group/{name}",
		build: func(r *resty.Request) {
			r.SetPathParam("name", name)
		},
	})
}
