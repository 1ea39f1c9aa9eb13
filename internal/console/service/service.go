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

// Package service declares the backend collaborators the console
// controllers consume.
package service

import (
	"context"

	"github.com/go-arcade/console/internal/console/model"
)

type IIntegrationService interface {
	GetIntegrationModels(ctx context.Context) ([]model.IntegrationModel, error)
	AddProjectIntegration(ctx context.Context, projectKey string, integration model.ProjectIntegration) (*model.ProjectIntegration, error)
}

type IWorkerModelService interface {
	GetWorkerModelPatterns(ctx context.Context) ([]model.ModelPattern, error)
	GetWorkerModelTypes(ctx context.Context) ([]string, error)
	GetWorkerModelCommunications(ctx context.Context) ([]string, error)
	GetWorkerModelByName(ctx context.Context, name string) (*model.WorkerModel, error)
	CreateWorkerModel(ctx context.Context, wm *model.WorkerModel) (*model.WorkerModel, error)
	UpdateWorkerModel(ctx context.Context, wm *model.WorkerModel) (*model.WorkerModel, error)
	DeleteWorkerModel(ctx context.Context, wm *model.WorkerModel) error
	ExportWorkerModel(ctx context.Context, id int64) (string, error)
	ImportWorkerModel(ctx context.Context, document string, force bool) (*model.WorkerModel, error)
	GetUsage(ctx context.Context, id int64) ([]model.Pipeline, error)
}

type IGroupService interface {
	GetGroups(ctx context.Context, onlyMine bool) ([]model.Group, error)
	GetGroupByName(ctx context.Context, name string) (*model.Group, error)
}

// ISessionProvider returns the user the console acts for.
type ISessionProvider interface {
	GetUser() (*model.User, error)
}

// INotifier shows user facing messages. Keys are translation keys.
type INotifier interface {
	Success(key string)
	Error(err error)
}

// INavigator moves the surrounding shell to another page.
type INavigator interface {
	Navigate(path ...string)
}

// Success message keys.
const (
	MsgProjectUpdated     = "project_updated"
	MsgWorkerModelSaved   = "worker_model_saved"
	MsgWorkerModelDeleted = "worker_model_deleted"
)
