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

package conf

import (
	"github.com/go-arcade/console/pkg/cache"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/trace"
	"github.com/google/wire"
)

// ProviderSet splits the application configuration into the per package
// configurations.
var ProviderSet = wire.NewSet(
	ProvideLogConf,
	ProvideAPIConfig,
	ProvideCacheConf,
	ProvideTraceConf,
	ProvideMetricsConfig,
	ProvideConsoleConfig,
)

func ProvideLogConf(c *AppConfig) *log.Conf {
	return &c.Log
}

func ProvideAPIConfig(c *AppConfig) APIConfig {
	return c.API
}

func ProvideCacheConf(c *AppConfig) cache.Conf {
	return c.Cache
}

func ProvideTraceConf(c *AppConfig) trace.Conf {
	return c.Trace
}

func ProvideMetricsConfig(c *AppConfig) metrics.MetricsConfig {
	return c.Metrics
}

func ProvideConsoleConfig(c *AppConfig) ConsoleConfig {
	return c.Console
}
