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

package model

import (
	"maps"
	"regexp"
	"slices"
	"time"
)

// Worker model types. Every type but docker provisions a virtual machine.
const (
	WorkerModelTypeDocker    = "docker"
	WorkerModelTypeOpenstack = "openstack"
	WorkerModelTypeVSphere   = "vsphere"
	WorkerModelTypeHost      = "host"
)

var WorkerModelTypes = []string{
	WorkerModelTypeDocker,
	WorkerModelTypeOpenstack,
	WorkerModelTypeVSphere,
	WorkerModelTypeHost,
}

// NewWorkerModelID is the id of a model that has not been persisted yet.
const NewWorkerModelID int64 = 0

var namePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)

// ValidName reports whether name is a non empty run of letters, digits,
// dots, underscores and dashes.
func ValidName(name string) bool {
	return namePattern.MatchString(name)
}

// ModelDocker is the container flavour of a worker model.
type ModelDocker struct {
	Image    string            `json:"image"`
	Shell    string            `json:"shell,omitempty"`
	Cmd      string            `json:"cmd,omitempty"`
	Envs     map[string]string `json:"envs,omitempty"`
	Memory   int64             `json:"memory,omitempty"`
	Private  bool              `json:"private,omitempty"`
	Registry string            `json:"registry,omitempty"`
	Username string            `json:"username,omitempty"`
	Password string            `json:"password,omitempty"`
}

// ModelVirtualMachine is the virtual machine flavour of a worker model.
type ModelVirtualMachine struct {
	Image    string `json:"image"`
	Flavor   string `json:"flavor,omitempty"`
	PreCmd   string `json:"pre_cmd,omitempty"`
	Cmd      string `json:"cmd,omitempty"`
	PostCmd  string `json:"post_cmd,omitempty"`
	UserData string `json:"user_data,omitempty"`
}

type WorkerModel struct {
	ID                  int64               `json:"id"`
	Name                string              `json:"name"`
	Description         string              `json:"description,omitempty"`
	Type                string              `json:"type"`
	GroupID             int64               `json:"group_id"`
	Group               *Group              `json:"group,omitempty"`
	ModelDocker         ModelDocker         `json:"model_docker"`
	ModelVirtualMachine ModelVirtualMachine `json:"model_virtual_machine"`
	Restricted          bool                `json:"restricted"`
	Disabled            bool                `json:"disabled"`
	IsDeprecated        bool                `json:"is_deprecated"`
	RegisteredOS        string              `json:"registered_os,omitempty"`
	RegisteredArch      string              `json:"registered_arch,omitempty"`
	NeedRegistration    bool                `json:"need_registration"`
	LastRegistration    time.Time           `json:"last_registration,omitzero"`
	UserLastModified    time.Time           `json:"user_last_modified,omitzero"`
	PatternName         string              `json:"pattern_name,omitempty"`
}

// Persisted reports whether the model has a server side identity.
func (m *WorkerModel) Persisted() bool {
	return m != nil && m.ID > NewWorkerModelID
}

// IsVirtualMachine reports whether the model provisions a virtual machine.
func (m *WorkerModel) IsVirtualMachine() bool {
	return m.Type != "" && m.Type != WorkerModelTypeDocker
}

// Normalize clears the sub configuration that does not match the type.
func (m *WorkerModel) Normalize() {
	switch {
	case m.Type == WorkerModelTypeDocker:
		m.ModelVirtualMachine = ModelVirtualMachine{}
	case m.IsVirtualMachine():
		m.ModelDocker = ModelDocker{}
	}
}

// EnvNames returns the docker environment variable names in sorted order.
func (m *WorkerModel) EnvNames() []string {
	if m == nil || len(m.ModelDocker.Envs) == 0 {
		return []string{}
	}
	return slices.Sorted(maps.Keys(m.ModelDocker.Envs))
}

// SetEnv adds or replaces a docker environment variable.
func (m *WorkerModel) SetEnv(name, value string) {
	if m.ModelDocker.Envs == nil {
		m.ModelDocker.Envs = make(map[string]string)
	}
	m.ModelDocker.Envs[name] = value
}

// DeleteEnv removes a docker environment variable.
func (m *WorkerModel) DeleteEnv(name string) {
	delete(m.ModelDocker.Envs, name)
}

// ApplyPattern overwrites the command and environment fields of the
// model's flavour with the pattern's, whatever was there before. A model
// without a type is left untouched.
func (m *WorkerModel) ApplyPattern(p ModelPattern) {
	switch {
	case m.Type == "":
		return
	case m.Type == WorkerModelTypeDocker:
		m.ModelDocker.Cmd = p.Model.Cmd
		m.ModelDocker.Shell = p.Model.Shell
		m.ModelDocker.Envs = maps.Clone(p.Model.Envs)
	default:
		m.ModelVirtualMachine.PreCmd = p.Model.PreCmd
		m.ModelVirtualMachine.Cmd = p.Model.Cmd
		m.ModelVirtualMachine.PostCmd = p.Model.PostCmd
	}
}

// Clone returns a deep copy of the model.
func (m *WorkerModel) Clone() *WorkerModel {
	if m == nil {
		return nil
	}
	c := *m
	c.ModelDocker.Envs = maps.Clone(m.ModelDocker.Envs)
	if m.Group != nil {
		c.Group = m.Group.Clone()
	}
	return &c
}

// ModelCmds are the defaults carried by a pattern.
type ModelCmds struct {
	Shell   string            `json:"shell,omitempty"`
	Cmd     string            `json:"cmd,omitempty"`
	Envs    map[string]string `json:"envs,omitempty"`
	PreCmd  string            `json:"pre_cmd,omitempty"`
	PostCmd string            `json:"post_cmd,omitempty"`
}

// ModelPattern is a reusable set of command defaults for one model type.
type ModelPattern struct {
	ID    int64     `json:"id"`
	Name  string    `json:"name"`
	Type  string    `json:"type"`
	Model ModelCmds `json:"model"`
}

// PatternsOfType returns the patterns whose type equals typ, in order.
func PatternsOfType(patterns []ModelPattern, typ string) []ModelPattern {
	out := make([]ModelPattern, 0, len(patterns))
	for _, p := range patterns {
		if p.Type == typ {
			out = append(out, p)
		}
	}
	return out
}

// FindPattern returns the pattern named name.
func FindPattern(patterns []ModelPattern, name string) (ModelPattern, bool) {
	i := slices.IndexFunc(patterns, func(p ModelPattern) bool { return p.Name == name })
	if i < 0 {
		return ModelPattern{}, false
	}
	return patterns[i], true
}
