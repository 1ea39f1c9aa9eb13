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
	"errors"
	"fmt"
	"maps"
	"strings"

	"sigs.k8s.io/yaml"
)

// WorkerModelDocument is the as-code form of a worker model. Server side
// identity and registration state are not part of it.
type WorkerModelDocument struct {
	Name        string             `json:"name"`
	Group       string             `json:"group"`
	Description string             `json:"description,omitempty"`
	Type        string             `json:"type"`
	Restricted  bool               `json:"restricted,omitempty"`
	Disabled    bool               `json:"disabled,omitempty"`
	Deprecated  bool               `json:"is_deprecated,omitempty"`
	PatternName string             `json:"pattern_name,omitempty"`
	Spec        WorkerModelDocSpec `json:"spec"`
}

type WorkerModelDocSpec struct {
	Image    string            `json:"image"`
	Flavor   string            `json:"flavor,omitempty"`
	Shell    string            `json:"shell,omitempty"`
	PreCmd   string            `json:"pre_cmd,omitempty"`
	Cmd      string            `json:"cmd,omitempty"`
	PostCmd  string            `json:"post_cmd,omitempty"`
	UserData string            `json:"user_data,omitempty"`
	Envs     map[string]string `json:"envs,omitempty"`
	Memory   int64             `json:"memory,omitempty"`
	Private  bool              `json:"private,omitempty"`
	Registry string            `json:"registry,omitempty"`
	Username string            `json:"username,omitempty"`
	Password string            `json:"password,omitempty"`
}

// NewWorkerModelDocument builds the as-code form of m.
func NewWorkerModelDocument(m *WorkerModel) WorkerModelDocument {
	doc := WorkerModelDocument{
		Name:        m.Name,
		Description: m.Description,
		Type:        m.Type,
		Restricted:  m.Restricted,
		Disabled:    m.Disabled,
		Deprecated:  m.IsDeprecated,
		PatternName: m.PatternName,
	}
	if m.Group != nil {
		doc.Group = m.Group.Name
	}
	if m.Type == WorkerModelTypeDocker {
		d := m.ModelDocker
		doc.Spec = WorkerModelDocSpec{
			Image:    d.Image,
			Shell:    d.Shell,
			Cmd:      d.Cmd,
			Envs:     maps.Clone(d.Envs),
			Memory:   d.Memory,
			Private:  d.Private,
			Registry: d.Registry,
			Username: d.Username,
			Password: d.Password,
		}
		return doc
	}
	vm := m.ModelVirtualMachine
	doc.Spec = WorkerModelDocSpec{
		Image:    vm.Image,
		Flavor:   vm.Flavor,
		PreCmd:   vm.PreCmd,
		Cmd:      vm.Cmd,
		PostCmd:  vm.PostCmd,
		UserData: vm.UserData,
	}
	return doc
}

// WorkerModel converts the document back to a model. The group is only
// known by name.
func (d WorkerModelDocument) WorkerModel() *WorkerModel {
	m := &WorkerModel{
		Name:         d.Name,
		Description:  d.Description,
		Type:         d.Type,
		Restricted:   d.Restricted,
		Disabled:     d.Disabled,
		IsDeprecated: d.Deprecated,
		PatternName:  d.PatternName,
	}
	if d.Group != "" {
		m.Group = &Group{Name: d.Group}
	}
	s := d.Spec
	if d.Type == WorkerModelTypeDocker {
		m.ModelDocker = ModelDocker{
			Image:    s.Image,
			Shell:    s.Shell,
			Cmd:      s.Cmd,
			Envs:     maps.Clone(s.Envs),
			Memory:   s.Memory,
			Private:  s.Private,
			Registry: s.Registry,
			Username: s.Username,
			Password: s.Password,
		}
	} else {
		m.ModelVirtualMachine = ModelVirtualMachine{
			Image:    s.Image,
			Flavor:   s.Flavor,
			PreCmd:   s.PreCmd,
			Cmd:      s.Cmd,
			PostCmd:  s.PostCmd,
			UserData: s.UserData,
		}
	}
	return m
}

// MarshalWorkerModel renders m as an as-code YAML document.
func MarshalWorkerModel(m *WorkerModel) (string, error) {
	out, err := yaml.Marshal(NewWorkerModelDocument(m))
	if err != nil {
		return "", fmt.Errorf("marshal worker model %s: %w", m.Name, err)
	}
	return string(out), nil
}

// ValidateDocument checks that text is a non empty YAML mapping.
func ValidateDocument(text string) error {
	if strings.TrimSpace(text) == "" {
		return ErrEmptyDocument
	}
	var probe map[string]any
	if err := yaml.Unmarshal([]byte(text), &probe); err != nil {
		return errors.Join(ErrInvalidDocument, err)
	}
	if probe == nil {
		return ErrInvalidDocument
	}
	return nil
}

// ParseWorkerModel decodes an as-code document. Unknown fields are rejected.
func ParseWorkerModel(text string) (*WorkerModel, error) {
	if err := ValidateDocument(text); err != nil {
		return nil, err
	}
	var doc WorkerModelDocument
	if err := yaml.UnmarshalStrict([]byte(text), &doc); err != nil {
		return nil, errors.Join(ErrInvalidDocument, err)
	}
	if !ValidName(doc.Name) {
		return nil, ErrInvalidName
	}
	return doc.WorkerModel(), nil
}
