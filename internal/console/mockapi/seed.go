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

package mockapi

import (
	"github.com/go-arcade/console/internal/console/model"
)

// Seed fills s with a small demo data set: an admin, a group admin, the
// shared group, a few patterns, models and integration models.
func Seed(s *Store) {
	root := model.User{ID: 1, Username: "root", Fullname: "Root", Admin: true}
	alice := model.User{ID: 2, Username: "alice", Fullname: "Alice"}
	bob := model.User{ID: 3, Username: "bob", Fullname: "Bob"}
	for _, u := range []model.User{root, alice, bob} {
		s.AddUser(u)
	}

	shared := model.Group{ID: 1, Name: s.sharedGroup, Admins: []model.User{root}}
	team := model.Group{ID: 3, Name: "team", Admins: []model.User{alice}, Members: []model.User{bob}}
	ops := model.Group{ID: 5, Name: "ops", Admins: []model.User{bob}}
	for _, g := range []model.Group{shared, team, ops} {
		s.AddGroup(g)
	}

	s.AddPattern(model.ModelPattern{ID: 1, Name: "basic-docker", Type: model.WorkerModelTypeDocker, Model: model.ModelCmds{
		Shell: "sh -c",
		Cmd:   "curl {{.API}}/download/worker/linux/$(uname -m) -o worker && chmod +x worker && exec ./worker",
		Envs:  map[string]string{"ARCADE_GRAPHITE_HOST": "{{.GraphiteHost}}"},
	}})
	s.AddPattern(model.ModelPattern{ID: 2, Name: "basic-openstack", Type: model.WorkerModelTypeOpenstack, Model: model.ModelCmds{
		PreCmd:  "apt-get -y update && apt-get -y install curl",
		Cmd:     "./worker",
		PostCmd: "sudo shutdown -h now",
	}})
	s.AddPattern(model.ModelPattern{ID: 3, Name: "basic-vsphere", Type: model.WorkerModelTypeVSphere, Model: model.ModelCmds{
		Cmd:     "./worker",
		PostCmd: "sudo shutdown -h now",
	}})

	s.mu.Lock()
	for _, wm := range []*model.WorkerModel{
		{
			Name:        "debian-12",
			Description: "shared debian image",
			Type:        model.WorkerModelTypeDocker,
			GroupID:     shared.ID,
			ModelDocker: model.ModelDocker{Image: "debian:12", Shell: "sh -c", Cmd: "./worker", Memory: 1024},
		},
		{
			Name:        "builder",
			Description: "team build image",
			Type:        model.WorkerModelTypeDocker,
			GroupID:     team.ID,
			PatternName: "basic-docker",
			ModelDocker: model.ModelDocker{
				Image: "golang:1.25",
				Shell: "sh -c",
				Cmd:   "./worker",
				Envs:  map[string]string{"GOFLAGS": "-mod=mod", "CGO_ENABLED": "0"},
			},
		},
		{
			Name:    "ops-vm",
			Type:    model.WorkerModelTypeOpenstack,
			GroupID: ops.ID,
			ModelVirtualMachine: model.ModelVirtualMachine{
				Image:  "Ubuntu 24.04",
				Flavor: "b2-7",
				Cmd:    "./worker",
			},
		},
	} {
		g := s.groups[wm.GroupID]
		wm.ID = s.id()
		wm.Group = &model.Group{ID: g.ID, Name: g.Name}
		s.workerModels[wm.ID] = wm
	}
	s.mu.Unlock()

	if builder, err := s.WorkerModelByName("builder"); err == nil {
		s.AddUsage(builder.ID, model.Pipeline{ID: 1, Name: "build", ProjectKey: "ARCADE"})
		s.AddUsage(builder.ID, model.Pipeline{ID: 2, Name: "release", ProjectKey: "ARCADE"})
	}

	s.AddIntegrationModel(model.IntegrationModel{
		ID:     1,
		Name:   "jira",
		Author: "arcade",
		DefaultConfig: model.IntegrationConfig{
			"url":      {Type: model.IntegrationConfigTypeString, Description: "Jira URL"},
			"username": {Type: model.IntegrationConfigTypeString},
			"token":    {Type: model.IntegrationConfigTypePassword},
		},
	})
	s.AddIntegrationModel(model.IntegrationModel{
		ID:     2,
		Name:   "kafka",
		Author: "arcade",
		Public: true,
		Event:  true,
		DefaultConfig: model.IntegrationConfig{
			"broker_url": {Type: model.IntegrationConfigTypeString},
		},
	})
	s.AddIntegrationModel(model.IntegrationModel{
		ID:      3,
		Name:    "artifactory",
		Author:  "arcade",
		Storage: true,
		DefaultConfig: model.IntegrationConfig{
			"url":         {Type: model.IntegrationConfigTypeString},
			"token":       {Type: model.IntegrationConfigTypePassword},
			"release.env": {Value: "prod", Type: model.IntegrationConfigTypeString},
		},
	})
}
