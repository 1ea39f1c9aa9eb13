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

package integration

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIntegrations struct {
	mu        sync.Mutex
	models    []model.IntegrationModel
	modelsErr error
	addErr    error
	added     []model.ProjectIntegration
	keys      []string
}

func (f *fakeIntegrations) GetIntegrationModels(context.Context) ([]model.IntegrationModel, error) {
	if f.modelsErr != nil {
		return nil, f.modelsErr
	}
	return append([]model.IntegrationModel(nil), f.models...), nil
}

func (f *fakeIntegrations) AddProjectIntegration(_ context.Context, key string, pi model.ProjectIntegration) (*model.ProjectIntegration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.added = append(f.added, pi)
	if f.addErr != nil {
		return nil, f.addErr
	}
	pi.ID = int64(len(f.added))
	return &pi, nil
}

type recorder struct {
	successes []string
	errs      []error
}

func (r *recorder) Success(key string) { r.successes = append(r.successes, key) }
func (r *recorder) Error(err error)    { r.errs = append(r.errs, err) }

func jiraModel() model.IntegrationModel {
	return model.IntegrationModel{
		ID:   2,
		Name: "jira",
		DefaultConfig: model.IntegrationConfig{
			"url":   {Value: "https://jira.example.com", Type: model.IntegrationConfigTypeString},
			"token": {Type: model.IntegrationConfigTypePassword},
		},
	}
}

func newForm(t *testing.T, f *fakeIntegrations) (*Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	c := New(context.Background(), "PRJ", Deps{Integrations: f, Notifier: rec})
	t.Cleanup(c.Close)
	settle(t, c)
	return c, rec
}

func settle(t *testing.T, c *Controller) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, c.Settle(ctx))
}

func TestNew_KeepsOnlyPrivateModels(t *testing.T) {
	f := &fakeIntegrations{models: []model.IntegrationModel{
		jiraModel(),
		{ID: 3, Name: "public-kafka", Public: true},
		{ID: 4, Name: "ssh-key"},
	}}
	c, _ := newForm(t, f)

	v := c.Snapshot()
	assert.False(t, v.LoadingModels)
	assert.Equal(t, "PRJ", v.ProjectKey)
	require.Len(t, v.Models, 2)
	assert.Equal(t, "jira", v.Models[0].Name)
	assert.Equal(t, "ssh-key", v.Models[1].Name)
}

func TestNew_ModelsFailureIsSurfaced(t *testing.T) {
	c, rec := newForm(t, &fakeIntegrations{modelsErr: errors.New("down")})

	v := c.Snapshot()
	assert.False(t, v.LoadingModels)
	assert.Empty(t, v.Models)
	assert.ErrorContains(t, v.Err, "down")
	assert.Len(t, rec.errs, 1)
}

func TestSelectModel_MergesDefaultsKeepingUserValues(t *testing.T) {
	c, _ := newForm(t, &fakeIntegrations{models: []model.IntegrationModel{jiraModel()}})

	c.SetConfigValue("url", "https://mine")
	require.NoError(t, c.SelectModel("jira"))

	v := c.Snapshot()
	assert.Equal(t, int64(2), v.Integration.IntegrationModelID)
	require.Len(t, v.Integration.Config, 2)
	assert.Equal(t, "https://mine", v.Integration.Config["url"].Value)
	assert.Equal(t, model.ConfigSourceUser, v.Integration.Config["url"].Source)
	assert.Equal(t, model.IntegrationConfigTypePassword, v.Integration.Config["token"].Type)
	assert.Equal(t, model.ConfigSourceDefault, v.Integration.Config["token"].Source)

	require.NoError(t, c.UpdateConfig())
	assert.Equal(t, v.Integration.Config, c.Snapshot().Integration.Config)

	assert.ErrorIs(t, c.SelectModel("unknown"), model.ErrNoIntegrationModel)
}

func TestSetConfigValue_KeepsEntryType(t *testing.T) {
	c, _ := newForm(t, &fakeIntegrations{models: []model.IntegrationModel{jiraModel()}})
	require.NoError(t, c.SelectModel("jira"))

	c.SetConfigValue("token", "s3cr3t")
	entry := c.Snapshot().Integration.Config["token"]
	assert.Equal(t, "s3cr3t", entry.Value)
	assert.Equal(t, model.IntegrationConfigTypePassword, entry.Type)
	assert.Equal(t, model.ConfigSourceUser, entry.Source)
}

func TestUpdateConfig_RequiresModel(t *testing.T) {
	c, _ := newForm(t, &fakeIntegrations{})
	assert.ErrorIs(t, c.UpdateConfig(), model.ErrNoIntegrationModel)
}

func TestCreate_Validation(t *testing.T) {
	f := &fakeIntegrations{models: []model.IntegrationModel{jiraModel()}}
	c, _ := newForm(t, f)

	assert.ErrorIs(t, c.Create(), model.ErrNoIntegrationModel)
	assert.True(t, c.Snapshot().ModelError)

	require.NoError(t, c.SelectModel("jira"))
	c.SetName("  ")
	assert.ErrorIs(t, c.Create(), model.ErrIntegrationNameEmpty)
	v := c.Snapshot()
	assert.False(t, v.ModelError)
	assert.True(t, v.NameError)
	assert.Empty(t, f.added)
}

func TestCreate_SuccessResetsForm(t *testing.T) {
	f := &fakeIntegrations{models: []model.IntegrationModel{jiraModel()}}
	c, rec := newForm(t, f)

	require.NoError(t, c.SelectModel("jira"))
	c.SetName("my-jira")
	require.NoError(t, c.Create())
	assert.True(t, c.Snapshot().Loading)
	assert.ErrorIs(t, c.Create(), ErrCreateInFlight)
	settle(t, c)

	require.Len(t, f.added, 1)
	assert.Equal(t, []string{"PRJ"}, f.keys)
	assert.Equal(t, "my-jira", f.added[0].Name)
	assert.Equal(t, int64(2), f.added[0].IntegrationModelID)
	assert.Equal(t, "https://jira.example.com", f.added[0].Config["url"].Value)

	v := c.Snapshot()
	assert.False(t, v.Loading)
	assert.Empty(t, v.Integration.Name)
	assert.Nil(t, v.Integration.Model)
	assert.Empty(t, v.Integration.Config)
	require.NotNil(t, v.Created)
	assert.Equal(t, int64(1), v.Created.ID)
	assert.Equal(t, []string{service.MsgProjectUpdated}, rec.successes)
}

func TestCreate_FailureKeepsForm(t *testing.T) {
	f := &fakeIntegrations{models: []model.IntegrationModel{jiraModel()}, addErr: errors.New("duplicate")}
	c, rec := newForm(t, f)

	require.NoError(t, c.SelectModel("jira"))
	c.SetName("my-jira")
	require.NoError(t, c.Create())
	settle(t, c)

	v := c.Snapshot()
	assert.False(t, v.Loading)
	assert.Equal(t, "my-jira", v.Integration.Name)
	assert.EqualError(t, v.Err, "duplicate")
	assert.Empty(t, rec.successes)
	assert.Len(t, rec.errs, 1)
}
