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

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pattern struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Cmd  string `json:"cmd,omitempty"`
}

var patterns = []pattern{
	{Name: "ubuntu", Type: "docker", Cmd: "worker"},
	{Name: "ubuntu-vm", Type: "openstack"},
	{Name: "alpine", Type: "docker"},
}

func TestApply(t *testing.T) {
	got, err := Apply(patterns, `type == "docker"`)
	require.NoError(t, err)
	assert.Equal(t, []pattern{patterns[0], patterns[2]}, got)

	got, err = Apply(patterns, `name startsWith "ubuntu" && type != "docker"`)
	require.NoError(t, err)
	assert.Equal(t, []pattern{patterns[1]}, got)
}

func TestApply_Empty(t *testing.T) {
	got, err := Apply(patterns, "  ")
	require.NoError(t, err)
	assert.Equal(t, patterns, got)
}

func TestApply_UndefinedField(t *testing.T) {
	// omitted fields evaluate to nil
	got, err := Apply(patterns, `cmd == nil`)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCompile_Error(t *testing.T) {
	_, err := Compile(`type ==`)
	assert.Error(t, err)

	_, err = Compile(`1 + 2`)
	assert.Error(t, err, "non boolean expressions are rejected")
}

func TestFilter_Match(t *testing.T) {
	f, err := Compile(`len(name) > 5`)
	require.NoError(t, err)
	assert.Equal(t, `len(name) > 5`, f.String())

	ok, err := f.Match(map[string]any{"name": "ubuntu"})
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = f.Match("not an object")
	assert.Error(t, err)
}
