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

package mockapi_test

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/go-arcade/console/internal/console/client"
	"github.com/go-arcade/console/internal/console/conf"
	"github.com/go-arcade/console/internal/console/controller/integration"
	"github.com/go-arcade/console/internal/console/controller/workermodel"
	"github.com/go-arcade/console/internal/console/mockapi"
	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/notify"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("e2e-secret")

type env struct {
	store *mockapi.Store
	addr  string
}

func startAPI(t *testing.T) *env {
	t.Helper()
	store := mockapi.NewStore(workermodel.DefaultSharedGroup)
	mockapi.Seed(store)
	rt := mockapi.NewRouter(store, secret, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- rt.Serve(ctx, ln) }()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return &env{store: store, addr: "http://" + ln.Addr().String()}
}

func (e *env) client(t *testing.T, u model.User) (*client.Client, *metrics.Console) {
	t.Helper()
	tok, err := session.GenToken(u, secret, time.Hour)
	require.NoError(t, err)
	m := metrics.NewConsole(prometheus.NewRegistry())
	return client.New(conf.APIConfig{BaseURL: e.addr, Token: tok, Timeout: 5 * time.Second}, m), m
}

func (e *env) editor(t *testing.T, u model.User) (*workermodel.Controller, *notify.Terminal) {
	t.Helper()
	c, m := e.client(t, u)
	term := notify.NewTerminal(io.Discard)
	ctrl := workermodel.New(context.Background(), workermodel.Deps{
		WorkerModels: c,
		Groups:       c,
		Session:      session.Static{User: u},
		Notifier:     term,
		Navigator:    term,
		Metrics:      m,
	}, workermodel.WithRequestTimeout(5*time.Second))
	t.Cleanup(ctrl.Close)
	return ctrl, term
}

func settle(t *testing.T, s interface{ Settle(context.Context) error }) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, s.Settle(ctx))
}

var alice = model.User{ID: 2, Username: "alice", Fullname: "Alice"}

func TestEditor_CreateEditAsCodeAndDelete(t *testing.T) {
	e := startAPI(t)
	ctrl, term := e.editor(t, alice)

	require.NoError(t, ctrl.Enter(workermodel.AddName))
	settle(t, ctrl)
	v := ctrl.Snapshot()
	require.Equal(t, workermodel.EditingStructured, v.State)
	require.Len(t, v.Groups, 1)
	assert.True(t, v.CanEdit)

	require.NoError(t, ctrl.SetName("fresh"))
	require.NoError(t, ctrl.SetGroupID(3))
	require.NoError(t, ctrl.SetType(model.WorkerModelTypeDocker))
	require.NoError(t, ctrl.SelectPattern("basic-docker"))
	require.NoError(t, ctrl.Edit(func(m *model.WorkerModel) { m.ModelDocker.Image = "alpine" }))
	require.NoError(t, ctrl.Save())
	settle(t, ctrl)

	v = ctrl.Snapshot()
	require.NoError(t, v.Err)
	assert.Equal(t, workermodel.Viewing, v.State)
	assert.Positive(t, v.Model.ID)
	assert.Equal(t, "basic-docker", v.Model.PatternName)
	assert.Equal(t, []string{"/", "settings", "worker-model", "fresh"}, term.Location())

	stored, err := e.store.WorkerModelByName("fresh")
	require.NoError(t, err)
	assert.Equal(t, "alpine", stored.ModelDocker.Image)
	assert.Equal(t, int64(3), stored.GroupID)

	require.NoError(t, ctrl.Enter("fresh"))
	settle(t, ctrl)
	v = ctrl.Snapshot()
	require.Equal(t, workermodel.Viewing, v.State)
	assert.True(t, v.CanEdit)

	require.NoError(t, ctrl.LoadAsCode())
	settle(t, ctrl)
	v = ctrl.Snapshot()
	require.Contains(t, v.AsCode, "name: fresh")

	require.NoError(t, ctrl.SetAsCode("description: from code\n"+v.AsCode))
	require.NoError(t, ctrl.SaveAsCode())
	settle(t, ctrl)
	v = ctrl.Snapshot()
	require.NoError(t, v.Err)
	assert.Equal(t, workermodel.EditingAsCode, v.State)
	assert.Equal(t, "from code", v.Model.Description)

	stored, err = e.store.WorkerModelByName("fresh")
	require.NoError(t, err)
	assert.Equal(t, "from code", stored.Description)

	require.NoError(t, ctrl.Delete())
	settle(t, ctrl)
	assert.Equal(t, workermodel.Deleted, ctrl.State())
	assert.Equal(t, []string{"/", "settings", "worker-model"}, term.Location())
	_, err = e.store.WorkerModelByName("fresh")
	assert.ErrorIs(t, err, mockapi.ErrNotFound)
}

func TestEditor_DeleteUsedModel(t *testing.T) {
	e := startAPI(t)
	ctrl, _ := e.editor(t, alice)

	require.NoError(t, ctrl.Enter("builder"))
	settle(t, ctrl)
	require.NoError(t, ctrl.LoadUsage())
	settle(t, ctrl)
	v := ctrl.Snapshot()
	assert.True(t, v.UsageLoaded)
	assert.Len(t, v.Usages, 2)
	assert.ElementsMatch(t, []string{"CGO_ENABLED", "GOFLAGS"}, v.EnvNames)

	require.NoError(t, ctrl.Delete())
	settle(t, ctrl)
	v = ctrl.Snapshot()
	assert.Equal(t, workermodel.Viewing, v.State)
	assert.ErrorIs(t, v.Err, client.ErrConflict)
}

func TestEditor_MissingModelFails(t *testing.T) {
	e := startAPI(t)
	ctrl, _ := e.editor(t, alice)

	require.NoError(t, ctrl.Enter("does-not-exist"))
	settle(t, ctrl)
	v := ctrl.Snapshot()
	assert.Equal(t, workermodel.Failed, v.State)
	assert.ErrorIs(t, v.Err, client.ErrNotFound)
}

func TestEditor_SharedGroupEditability(t *testing.T) {
	e := startAPI(t)

	ctrl, _ := e.editor(t, alice)
	require.NoError(t, ctrl.Enter("debian-12"))
	settle(t, ctrl)
	assert.False(t, ctrl.Snapshot().CanEdit)

	root := model.User{ID: 1, Username: "root", Admin: true}
	ctrl, _ = e.editor(t, root)
	require.NoError(t, ctrl.Enter("debian-12"))
	settle(t, ctrl)
	assert.True(t, ctrl.Snapshot().CanEdit)
}

func TestEditor_ForbiddenSaveKeepsEditing(t *testing.T) {
	e := startAPI(t)
	bob := model.User{ID: 3, Username: "bob"}
	ctrl, _ := e.editor(t, bob)

	require.NoError(t, ctrl.Enter("builder"))
	settle(t, ctrl)
	assert.False(t, ctrl.Snapshot().CanEdit)

	require.NoError(t, ctrl.Edit(func(m *model.WorkerModel) { m.Description = "mine now" }))
	require.NoError(t, ctrl.Save())
	settle(t, ctrl)

	v := ctrl.Snapshot()
	assert.Equal(t, workermodel.EditingStructured, v.State)
	assert.ErrorIs(t, v.Err, client.ErrForbidden)
}

func TestIntegrationForm_Create(t *testing.T) {
	e := startAPI(t)
	c, m := e.client(t, alice)
	var out strings.Builder
	form := integration.New(context.Background(), "ARCADE", integration.Deps{
		Integrations: c,
		Notifier:     notify.NewTerminal(&out),
		Metrics:      m,
	})
	t.Cleanup(form.Close)
	settle(t, form)

	v := form.Snapshot()
	require.Len(t, v.Models, 2)

	require.NoError(t, form.SelectModel("artifactory"))
	form.SetName("artifacts")
	form.SetConfigValue("url", "https://artifacts.example.com")
	require.NoError(t, form.Create())
	settle(t, form)

	v = form.Snapshot()
	require.NoError(t, v.Err)
	require.NotNil(t, v.Created)
	assert.Equal(t, "artifacts", v.Created.Name)
	assert.Contains(t, out.String(), notify.Text("project_updated"))

	saved := e.store.ProjectIntegrations("ARCADE")
	require.Len(t, saved, 1)
	assert.Equal(t, "https://artifacts.example.com", saved[0].Config["url"].Value)
	assert.Equal(t, "prod", saved[0].Config["release.env"].Value)

	require.NoError(t, form.SelectModel("artifactory"))
	form.SetName("artifacts")
	require.NoError(t, form.Create())
	settle(t, form)
	assert.True(t, errors.Is(form.Snapshot().Err, client.ErrConflict))
}
