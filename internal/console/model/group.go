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

import "slices"

type User struct {
	ID       int64  `json:"id,omitempty"`
	Username string `json:"username"`
	Fullname string `json:"fullname,omitempty"`
	Email    string `json:"email,omitempty"`
	Admin    bool   `json:"admin"`
}

type Group struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Admins  []User `json:"admins,omitempty"`
	Members []User `json:"members,omitempty"`
}

// IsAdmin reports whether username administrates the group.
func (g *Group) IsAdmin(username string) bool {
	if g == nil || username == "" {
		return false
	}
	return slices.ContainsFunc(g.Admins, func(u User) bool { return u.Username == username })
}

func (g *Group) Clone() *Group {
	c := *g
	c.Admins = slices.Clone(g.Admins)
	c.Members = slices.Clone(g.Members)
	return &c
}

// FindGroup returns the group of groups with the given id.
func FindGroup(groups []Group, id int64) (*Group, bool) {
	i := slices.IndexFunc(groups, func(g Group) bool { return g.ID == id })
	if i < 0 {
		return nil, false
	}
	return groups[i].Clone(), true
}

// Pipeline is a pipeline using a worker model.
type Pipeline struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	ProjectKey string `json:"project_key"`
}

// PathItem is one breadcrumb entry. Translate is a message key, Text a
// literal label; RouterLink is empty for the current page.
type PathItem struct {
	Translate  string   `json:"translate,omitempty"`
	Text       string   `json:"text,omitempty"`
	RouterLink []string `json:"router_link,omitempty"`
}
