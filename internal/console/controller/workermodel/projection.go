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
	"github.com/go-arcade/console/internal/console/model"
)

// Breadcrumb translation keys and route.
const (
	PathSettings  = "common_settings"
	PathModelList = "worker_model_list_title"
)

var listRoute = []string{"/", "settings", "worker-model"}

// projection is the state derived from the model alone.
type projection struct {
	envNames []string
	path     []model.PathItem
}

// project derives the view state that depends only on m. It is run after
// every change of the model.
func project(m *model.WorkerModel) projection {
	return projection{
		envNames: m.EnvNames(),
		path:     breadcrumb(m),
	}
}

func breadcrumb(m *model.WorkerModel) []model.PathItem {
	path := []model.PathItem{
		{Translate: PathSettings},
		{Translate: PathModelList, RouterLink: modelRoute("")},
	}
	if m.Persisted() {
		path = append(path, model.PathItem{Text: m.Name, RouterLink: modelRoute(m.Name)})
	}
	return path
}

// modelRoute is the route of the named model, or of the list when name is
// empty.
func modelRoute(name string) []string {
	route := append([]string(nil), listRoute...)
	if name != "" {
		route = append(route, name)
	}
	return route
}

// filterPatterns returns the patterns offered for m: those of its type, or
// all of them while the type is unknown.
func filterPatterns(patterns []model.ModelPattern, m *model.WorkerModel) []model.ModelPattern {
	if m == nil || m.Type == "" {
		return append([]model.ModelPattern{}, patterns...)
	}
	return model.PatternsOfType(patterns, m.Type)
}
