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

// Package mockapi is an in-memory stand-in for the backend API, used for
// local development of the console and for tests.
package mockapi

import (
	"cmp"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/go-arcade/console/internal/console/model"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrConflict  = errors.New("already exists")
	ErrForbidden = errors.New("forbidden")
)

// Store holds the mock backend state.
type Store struct {
	mu sync.RWMutex

	sharedGroup  string
	nextID       int64
	users        map[string]model.User
	groups       map[int64]*model.Group
	patterns     []model.ModelPattern
	workerModels map[int64]*model.WorkerModel
	usages       map[int64][]model.Pipeline
	integrations []model.IntegrationModel
	projects     map[string][]model.ProjectIntegration
	now          func() time.Time
}

func NewStore(sharedGroup string) *Store {
	return &Store{
		sharedGroup:  sharedGroup,
		nextID:       1000,
		users:        map[string]model.User{},
		groups:       map[int64]*model.Group{},
		workerModels: map[int64]*model.WorkerModel{},
		usages:       map[int64][]model.Pipeline{},
		projects:     map[string][]model.ProjectIntegration{},
		now:          time.Now,
	}
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Store) AddUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.Username] = u
}

// User returns a known user.
func (s *Store) User(username string) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[username]
	return u, ok
}

func (s *Store) Users() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.SortedFunc(maps.Values(s.users), func(a, b model.User) int {
		return cmp.Compare(a.Username, b.Username)
	})
}

func (s *Store) AddGroup(g model.Group) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[g.ID] = g.Clone()
}

func (s *Store) AddPattern(p model.ModelPattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patterns = append(s.patterns, p)
}

func (s *Store) AddIntegrationModel(m model.IntegrationModel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.integrations = append(s.integrations, m)
}

// AddUsage records a pipeline using the worker model id.
func (s *Store) AddUsage(id int64, p model.Pipeline) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usages[id] = append(s.usages[id], p)
}

func (s *Store) Patterns() []model.ModelPattern {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.patterns)
}

func (s *Store) IntegrationModels() []model.IntegrationModel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.integrations)
}

// Groups returns every group, or only those u belongs to when onlyMine is
// set. Global admins belong to every group.
func (s *Store) Groups(u model.User, onlyMine bool) []model.Group {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Group, 0, len(s.groups))
	for _, g := range s.groups {
		if onlyMine && !u.Admin && !isMember(g, u.Username) {
			continue
		}
		out = append(out, *g.Clone())
	}
	slices.SortFunc(out, func(a, b model.Group) int { return cmp.Compare(a.ID, b.ID) })
	return out
}

func isMember(g *model.Group, username string) bool {
	return g.IsAdmin(username) || slices.ContainsFunc(g.Members, func(m model.User) bool { return m.Username == username })
}

func (s *Store) GroupByName(name string) (*model.Group, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.groupByName(name)
	if !ok {
		return nil, fmt.Errorf("group %s: %w", name, ErrNotFound)
	}
	return g.Clone(), nil
}

func (s *Store) groupByName(name string) (*model.Group, bool) {
	for _, g := range s.groups {
		if g.Name == name {
			return g, true
		}
	}
	return nil, false
}

// canWrite reports whether u may change models of g. The shared group is
// reserved to global admins.
func (s *Store) canWrite(u model.User, g *model.Group) bool {
	if u.Admin {
		return true
	}
	if g.Name == s.sharedGroup {
		return false
	}
	return g.IsAdmin(u.Username)
}

func (s *Store) WorkerModelByName(name string) (*model.WorkerModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wm, ok := s.byName(name)
	if !ok {
		return nil, fmt.Errorf("worker model %s: %w", name, ErrNotFound)
	}
	return wm.Clone(), nil
}

func (s *Store) byName(name string) (*model.WorkerModel, bool) {
	for _, wm := range s.workerModels {
		if wm.Name == name {
			return wm, true
		}
	}
	return nil, false
}

func (s *Store) WorkerModel(id int64) (*model.WorkerModel, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	wm, ok := s.workerModels[id]
	if !ok {
		return nil, fmt.Errorf("worker model %d: %w", id, ErrNotFound)
	}
	return wm.Clone(), nil
}

// resolveGroup returns the stored group of wm, by id or by name.
func (s *Store) resolveGroup(wm *model.WorkerModel) (*model.Group, error) {
	if g, ok := s.groups[wm.GroupID]; ok {
		return g, nil
	}
	if wm.Group != nil {
		if g, ok := s.groupByName(wm.Group.Name); ok {
			return g, nil
		}
	}
	return nil, fmt.Errorf("group of worker model %s: %w", wm.Name, ErrNotFound)
}

// prepare validates wm and attaches its stored group.
func (s *Store) prepare(u model.User, wm *model.WorkerModel) error {
	if !model.ValidName(wm.Name) {
		return model.ErrInvalidName
	}
	if !slices.Contains(model.WorkerModelTypes, wm.Type) {
		return fmt.Errorf("unknown worker model type %q", wm.Type)
	}
	g, err := s.resolveGroup(wm)
	if err != nil {
		return err
	}
	if !s.canWrite(u, g) {
		return fmt.Errorf("group %s: %w", g.Name, ErrForbidden)
	}
	wm.GroupID = g.ID
	wm.Group = &model.Group{ID: g.ID, Name: g.Name}
	wm.Normalize()
	wm.UserLastModified = s.now()
	return nil
}

func (s *Store) CreateWorkerModel(u model.User, wm *model.WorkerModel) (*model.WorkerModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wm = wm.Clone()
	if err := s.prepare(u, wm); err != nil {
		return nil, err
	}
	if _, exists := s.byName(wm.Name); exists {
		return nil, fmt.Errorf("worker model %s: %w", wm.Name, ErrConflict)
	}
	wm.ID = s.id()
	wm.NeedRegistration = true
	s.workerModels[wm.ID] = wm
	return wm.Clone(), nil
}

func (s *Store) UpdateWorkerModel(u model.User, id int64, wm *model.WorkerModel) (*model.WorkerModel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.workerModels[id]
	if !ok {
		return nil, fmt.Errorf("worker model %d: %w", id, ErrNotFound)
	}
	if !s.canWrite(u, s.groups[old.GroupID]) {
		return nil, fmt.Errorf("worker model %s: %w", old.Name, ErrForbidden)
	}
	wm = wm.Clone()
	if err := s.prepare(u, wm); err != nil {
		return nil, err
	}
	if other, exists := s.byName(wm.Name); exists && other.ID != id {
		return nil, fmt.Errorf("worker model %s: %w", wm.Name, ErrConflict)
	}
	wm.ID = id
	wm.NeedRegistration = true
	wm.LastRegistration = old.LastRegistration
	wm.RegisteredOS = old.RegisteredOS
	wm.RegisteredArch = old.RegisteredArch
	s.workerModels[id] = wm
	return wm.Clone(), nil
}

// DeleteWorkerModel removes a model that no pipeline uses.
func (s *Store) DeleteWorkerModel(u model.User, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	wm, ok := s.workerModels[id]
	if !ok {
		return fmt.Errorf("worker model %d: %w", id, ErrNotFound)
	}
	if !s.canWrite(u, s.groups[wm.GroupID]) {
		return fmt.Errorf("worker model %s: %w", wm.Name, ErrForbidden)
	}
	if n := len(s.usages[id]); n > 0 {
		return fmt.Errorf("worker model %s is used by %d pipelines: %w", wm.Name, n, ErrConflict)
	}
	delete(s.workerModels, id)
	return nil
}

func (s *Store) Usage(id int64) ([]model.Pipeline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.workerModels[id]; !ok {
		return nil, fmt.Errorf("worker model %d: %w", id, ErrNotFound)
	}
	return slices.Clone(s.usages[id]), nil
}

func (s *Store) Export(id int64) (string, error) {
	wm, err := s.WorkerModel(id)
	if err != nil {
		return "", err
	}
	return model.MarshalWorkerModel(wm)
}

// Import creates a model from an as-code document. An existing model of the
// same name is replaced only with force.
func (s *Store) Import(u model.User, document string, force bool) (*model.WorkerModel, error) {
	wm, err := model.ParseWorkerModel(document)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	existing, exists := s.byName(wm.Name)
	var id int64
	if exists {
		id = existing.ID
	}
	s.mu.RUnlock()

	if !exists {
		return s.CreateWorkerModel(u, wm)
	}
	if !force {
		return nil, fmt.Errorf("worker model %s: %w", wm.Name, ErrConflict)
	}
	return s.UpdateWorkerModel(u, id, wm)
}

func (s *Store) AddProjectIntegration(projectKey string, pi model.ProjectIntegration) (*model.ProjectIntegration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := slices.IndexFunc(s.integrations, func(m model.IntegrationModel) bool { return m.ID == pi.IntegrationModelID })
	if i < 0 {
		return nil, fmt.Errorf("integration model %d: %w", pi.IntegrationModelID, ErrNotFound)
	}
	if pi.Name == "" {
		return nil, model.ErrIntegrationNameEmpty
	}
	if slices.ContainsFunc(s.projects[projectKey], func(p model.ProjectIntegration) bool { return p.Name == pi.Name }) {
		return nil, fmt.Errorf("integration %s: %w", pi.Name, ErrConflict)
	}
	m := s.integrations[i]
	pi.ID = s.id()
	pi.Model = &m
	pi.Config = pi.Config.Clone()
	s.projects[projectKey] = append(s.projects[projectKey], pi)
	return &pi, nil
}

func (s *Store) ProjectIntegrations(projectKey string) []model.ProjectIntegration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.projects[projectKey])
}
