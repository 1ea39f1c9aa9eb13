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

package client

import (
	"context"
	"errors"
	"time"

	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/service"
	"github.com/go-arcade/console/pkg/cache"
	"github.com/go-arcade/console/pkg/metrics"
)

const (
	keyPatterns          = "console:worker_model:patterns"
	keyTypes             = "console:worker_model:types"
	keyCommunications    = "console:worker_model:communications"
	keyIntegrationModels = "console:integration:models"
)

// Catalog serves the reference lists through a cache and everything else
// straight from the Client.
type Catalog struct {
	*Client

	patterns          *cache.CachedQuery[[]model.ModelPattern]
	types             *cache.CachedQuery[[]string]
	communications    *cache.CachedQuery[[]string]
	integrationModels *cache.CachedQuery[[]model.IntegrationModel]
	metrics           *metrics.Console
}

var (
	_ service.IWorkerModelService = (*Catalog)(nil)
	_ service.IIntegrationService = (*Catalog)(nil)
	_ service.IGroupService       = (*Catalog)(nil)
)

type missKey struct{}

// loaded wraps a query so that running it marks the lookup as a miss.
func loaded[T any](fn func(context.Context) (T, error)) cache.QueryFunc[T] {
	return func(ctx context.Context) (T, error) {
		if missed, ok := ctx.Value(missKey{}).(*bool); ok {
			*missed = true
		}
		return fn(ctx)
	}
}

// NewCatalog wraps c. A nil ic disables caching.
func NewCatalog(c *Client, ic cache.ICache, ttl time.Duration, m *metrics.Console) *Catalog {
	return &Catalog{
		Client: c,
		patterns: cache.NewCachedQuery(ic, cache.StaticKey(keyPatterns), loaded(c.GetWorkerModelPatterns),
			cache.WithTTL[[]model.ModelPattern](ttl), cache.WithLogPrefix[[]model.ModelPattern]("[Catalog]")),
		types: cache.NewCachedQuery(ic, cache.StaticKey(keyTypes), loaded(c.GetWorkerModelTypes),
			cache.WithTTL[[]string](ttl), cache.WithLogPrefix[[]string]("[Catalog]")),
		communications: cache.NewCachedQuery(ic, cache.StaticKey(keyCommunications), loaded(c.GetWorkerModelCommunications),
			cache.WithTTL[[]string](ttl), cache.WithLogPrefix[[]string]("[Catalog]")),
		integrationModels: cache.NewCachedQuery(ic, cache.StaticKey(keyIntegrationModels), loaded(c.GetIntegrationModels),
			cache.WithTTL[[]model.IntegrationModel](ttl), cache.WithLogPrefix[[]model.IntegrationModel]("[Catalog]")),
		metrics: m,
	}
}

func lookup[T any](ctx context.Context, m *metrics.Console, q *cache.CachedQuery[T]) (T, error) {
	missed := false
	v, err := q.Get(context.WithValue(ctx, missKey{}, &missed))
	if err == nil {
		m.ObserveCache(!missed)
	}
	return v, err
}

func (c *Catalog) GetWorkerModelPatterns(ctx context.Context) ([]model.ModelPattern, error) {
	return lookup(ctx, c.metrics, c.patterns)
}

func (c *Catalog) GetWorkerModelTypes(ctx context.Context) ([]string, error) {
	return lookup(ctx, c.metrics, c.types)
}

func (c *Catalog) GetWorkerModelCommunications(ctx context.Context) ([]string, error) {
	return lookup(ctx, c.metrics, c.communications)
}

func (c *Catalog) GetIntegrationModels(ctx context.Context) ([]model.IntegrationModel, error) {
	return lookup(ctx, c.metrics, c.integrationModels)
}

// Refresh drops every cached list.
func (c *Catalog) Refresh(ctx context.Context) error {
	return errors.Join(
		c.patterns.Invalidate(ctx),
		c.types.Invalidate(ctx),
		c.communications.Invalidate(ctx),
		c.integrationModels.Invalidate(ctx),
	)
}
