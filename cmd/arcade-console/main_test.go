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

package main

import (
	"bytes"
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/internal/console/mockapi"
	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startMockAPI(t *testing.T) (*mockapi.Store, string, string) {
	t.Helper()
	secret := []byte("cli-secret")
	store := mockapi.NewStore("shared.infra")
	mockapi.Seed(store)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- mockapi.NewRouter(store, secret, nil).Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	token, err := session.GenToken(model.User{Username: "alice"}, secret, time.Hour)
	require.NoError(t, err)
	return store, "http://" + ln.Addr().String(), token
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.ExecuteContext(context.Background()))
	return out.String()
}

func executeErr(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetOut(io.Discard)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(context.Background())
}

func TestCLI_WorkerModelCommands(t *testing.T) {
	store, url, token := startMockAPI(t)
	base := []string{"--api", url, "--token", token}

	out := execute(t, append(base, "-o", "json", "worker-model", "show", "builder", "--usage")...)
	var shown struct {
		Model   model.WorkerModel `json:"model"`
		CanEdit bool              `json:"can_edit"`
		Usage   []model.Pipeline  `json:"usage"`
	}
	require.NoError(t, sonic.UnmarshalString(out, &shown))
	assert.Equal(t, "builder", shown.Model.Name)
	assert.True(t, shown.CanEdit)
	assert.Len(t, shown.Usage, 2)

	out = execute(t, append(base, "worker-model", "export", "builder")...)
	assert.Contains(t, out, "name: builder")
	assert.Contains(t, out, "group: team")

	out = execute(t, append(base, "-o", "json", "worker-model", "patterns", "--type", "openstack")...)
	var patterns []model.ModelPattern
	require.NoError(t, sonic.UnmarshalString(out, &patterns))
	require.Len(t, patterns, 1)
	assert.Equal(t, "basic-openstack", patterns[0].Name)

	out = execute(t, append(base, "-o", "yaml", "worker-model", "create", "fresh",
		"--group", "team", "--pattern", "basic-docker", "--image", "alpine", "--env", "FOO=bar")...)
	assert.Contains(t, out, "name: fresh")
	created, err := store.WorkerModelByName("fresh")
	require.NoError(t, err)
	assert.Equal(t, "alpine", created.ModelDocker.Image)
	assert.Equal(t, "bar", created.ModelDocker.Envs["FOO"])
	assert.Equal(t, "basic-docker", created.PatternName)

	execute(t, append(base, "worker-model", "delete", "fresh")...)
	_, err = store.WorkerModelByName("fresh")
	assert.ErrorIs(t, err, mockapi.ErrNotFound)
}

func TestCLI_IntegrationAdd(t *testing.T) {
	store, url, token := startMockAPI(t)
	base := []string{"--api", url, "--token", token}

	out := execute(t, append(base, "-o", "json", "integration", "models", "ARCADE", "--filter", "storage == true")...)
	var models []model.IntegrationModel
	require.NoError(t, sonic.UnmarshalString(out, &models))
	require.Len(t, models, 1)
	assert.Equal(t, "artifactory", models[0].Name)

	execute(t, append(base, "integration", "add", "ARCADE", "--model", "jira", "--name", "my-jira", "--set", "url=https://jira.example.com")...)
	saved := store.ProjectIntegrations("ARCADE")
	require.Len(t, saved, 1)
	assert.Equal(t, "https://jira.example.com", saved[0].Config["url"].Value)
}

func TestCLI_CreateRejectsPatternOfOtherType(t *testing.T) {
	store, url, token := startMockAPI(t)
	base := []string{"--api", url, "--token", token}

	err := executeErr(t, append(base, "worker-model", "create", "mismatch",
		"--group", "team", "--type", "docker", "--pattern", "basic-openstack")...)
	assert.ErrorIs(t, err, model.ErrUnknownPattern)
	_, err = store.WorkerModelByName("mismatch")
	assert.ErrorIs(t, err, mockapi.ErrNotFound)
}
