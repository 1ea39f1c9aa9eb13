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

	"github.com/go-arcade/console/pkg/configmerge"
)

// Config value types understood by the integration form.
const (
	IntegrationConfigTypeString   = "string"
	IntegrationConfigTypeBoolean  = "boolean"
	IntegrationConfigTypePassword = "password"
	IntegrationConfigTypeText     = "text"
	IntegrationConfigTypeEmail    = "email"
)

// ConfigSource tells whether an entry was filled from the model defaults
// or set by the user. It is not sent to the backend.
type ConfigSource int

const (
	ConfigSourceUnknown ConfigSource = iota
	ConfigSourceDefault
	ConfigSourceUser
)

func (s ConfigSource) String() string {
	switch s {
	case ConfigSourceDefault:
		return "default"
	case ConfigSourceUser:
		return "user"
	default:
		return ""
	}
}

type IntegrationConfigValue struct {
	Value       string       `json:"value"`
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	Source      ConfigSource `json:"-"`
}

// IntegrationConfig maps a configuration key to its entry.
type IntegrationConfig map[string]IntegrationConfigValue

// Clone returns a copy of the configuration.
func (c IntegrationConfig) Clone() IntegrationConfig {
	return maps.Clone(c)
}

// MergeIntegrationConfig fills the keys of target missing from defaults and
// marks them as defaults. User entries and stale keys are left untouched.
func MergeIntegrationConfig(defaults, target IntegrationConfig) IntegrationConfig {
	return configmerge.MergeFunc(defaults, target, func(_ string, v IntegrationConfigValue) IntegrationConfigValue {
		v.Source = ConfigSourceDefault
		return v
	})
}

type IntegrationModel struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Author        string            `json:"author,omitempty"`
	Identifier    string            `json:"identifier,omitempty"`
	Icon          string            `json:"icon,omitempty"`
	DefaultConfig IntegrationConfig `json:"default_config"`
	Public        bool              `json:"public"`
	Storage       bool              `json:"storage"`
	Deployment    bool              `json:"deployment"`
	Compute       bool              `json:"compute"`
	Hook          bool              `json:"hook"`
	Event         bool              `json:"event"`
}

// ProjectIntegration is a configured integration attached to a project.
type ProjectIntegration struct {
	ID                 int64             `json:"id,omitempty"`
	ProjectID          int64             `json:"project_id,omitempty"`
	Name               string            `json:"name"`
	IntegrationModelID int64             `json:"integration_model_id"`
	Model              *IntegrationModel `json:"model,omitempty"`
	Config             IntegrationConfig `json:"config"`
}
