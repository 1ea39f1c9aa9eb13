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
	"github.com/go-arcade/console/internal/console/service"
	"github.com/go-arcade/console/pkg/cache"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/google/wire"
)

// ProviderSet provides the cached catalogue bound to the service interfaces.
var ProviderSet = wire.NewSet(
	New,
	ProvideCatalog,
	wire.Bind(new(service.IWorkerModelService), new(*Catalog)),
	wire.Bind(new(service.IIntegrationService), new(*Catalog)),
	wire.Bind(new(service.IGroupService), new(*Catalog)),
)

// ProvideCatalog caches the reference lists for the configured TTL.
func ProvideCatalog(c *Client, ic cache.ICache, conf cache.Conf, m *metrics.Console) *Catalog {
	conf.SetDefaults()
	return NewCatalog(c, ic, conf.TTL, m)
}
