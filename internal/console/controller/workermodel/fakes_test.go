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
	"context"
	"slices"
	"sync"

	"github.com/go-arcade/console/internal/console/model"
)

type fakeWorkerModels struct {
	mu sync.Mutex

	patterns   []model.ModelPattern
	models     map[string]*model.WorkerModel
	getErr     error
	saveErr    error
	deleteErr  error
	exportText string
	usage      []model.Pipeline
	// gates holds GetWorkerModelByName until the channel is closed.
	gates map[string]chan struct{}

	gets      []string
	created   []*model.WorkerModel
	updated   []*model.WorkerModel
	deleted   []int64
	exports   int
	imports   []string
	forced    []bool
	usageHits int
	nextID    int64
}

func newFakeWorkerModels() *fakeWorkerModels {
	return &fakeWorkerModels{
		models: map[string]*model.WorkerModel{},
		gates:  map[string]chan struct{}{},
		nextID: 100,
		patterns: []model.ModelPattern{
			{ID: 1, Name: "basic-docker", Type: model.WorkerModelTypeDocker, Model: model.ModelCmds{Shell: "sh -c", Cmd: "Y", Envs: map[string]string{"WORKER": "1"}}},
			{ID: 2, Name: "basic-openstack", Type: model.WorkerModelTypeOpenstack, Model: model.ModelCmds{PreCmd: "pre", Cmd: "vm-cmd", PostCmd: "sudo halt"}},
			{ID: 3, Name: "large-openstack", Type: model.WorkerModelTypeOpenstack, Model: model.ModelCmds{Cmd: "big"}},
		},
	}
}

func (f *fakeWorkerModels) GetWorkerModelPatterns(context.Context) ([]model.ModelPattern, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Clone(f.patterns), nil
}

func (f *fakeWorkerModels) GetWorkerModelTypes(context.Context) ([]string, error) {
	return slices.Clone(model.WorkerModelTypes), nil
}

func (f *fakeWorkerModels) GetWorkerModelCommunications(context.Context) ([]string, error) {
	return []string{"http", "grpc"}, nil
}

func (f *fakeWorkerModels) GetWorkerModelByName(ctx context.Context, name string) (*model.WorkerModel, error) {
	f.mu.Lock()
	f.gets = append(f.gets, name)
	gate := f.gates[name]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	m, ok := f.models[name]
	if !ok {
		return nil, model.ErrNotPersisted
	}
	return m.Clone(), nil
}

func (f *fakeWorkerModels) CreateWorkerModel(_ context.Context, wm *model.WorkerModel) (*model.WorkerModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, wm.Clone())
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	saved := wm.Clone()
	f.nextID++
	saved.ID = f.nextID
	f.models[saved.Name] = saved
	return saved.Clone(), nil
}

func (f *fakeWorkerModels) UpdateWorkerModel(_ context.Context, wm *model.WorkerModel) (*model.WorkerModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updated = append(f.updated, wm.Clone())
	if f.saveErr != nil {
		return nil, f.saveErr
	}
	f.models[wm.Name] = wm.Clone()
	return wm.Clone(), nil
}

func (f *fakeWorkerModels) DeleteWorkerModel(_ context.Context, wm *model.WorkerModel) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, wm.ID)
	return f.deleteErr
}

func (f *fakeWorkerModels) ExportWorkerModel(context.Context, int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.exports++
	return f.exportText, nil
}

func (f *fakeWorkerModels) ImportWorkerModel(_ context.Context, document string, force bool) (*model.WorkerModel, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.imports = append(f.imports, document)
	f.forced = append(f.forced, force)
	wm, err := model.ParseWorkerModel(document)
	if err != nil {
		return nil, err
	}
	if existing, ok := f.models[wm.Name]; ok {
		wm.ID = existing.ID
	} else {
		f.nextID++
		wm.ID = f.nextID
	}
	f.models[wm.Name] = wm
	return wm.Clone(), nil
}

func (f *fakeWorkerModels) GetUsage(context.Context, int64) ([]model.Pipeline, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usageHits++
	return slices.Clone(f.usage), nil
}

type fakeGroups struct {
	mu       sync.Mutex
	groups   []model.Group
	lookups  []string
	onlyMine []bool
}

func (f *fakeGroups) GetGroups(_ context.Context, onlyMine bool) ([]model.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onlyMine = append(f.onlyMine, onlyMine)
	return slices.Clone(f.groups), nil
}

func (f *fakeGroups) GetGroupByName(_ context.Context, name string) (*model.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups = append(f.lookups, name)
	for _, g := range f.groups {
		if g.Name == name {
			return g.Clone(), nil
		}
	}
	return nil, model.ErrGroupNotFound
}

type fakeSession struct {
	user *model.User
}

func (s fakeSession) GetUser() (*model.User, error) {
	if s.user == nil {
		return nil, model.ErrNotPersisted
	}
	u := *s.user
	return &u, nil
}

// recorder collects notifications and navigations.
type recorder struct {
	mu        sync.Mutex
	successes []string
	errs      []error
	paths     [][]string
}

func (r *recorder) Success(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.successes = append(r.successes, key)
}

func (r *recorder) Error(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) Navigate(path ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, slices.Clone(path))
}
