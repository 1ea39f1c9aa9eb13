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
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-arcade/console/pkg/cache"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/pprof"
	"github.com/go-arcade/console/pkg/trace"
	"github.com/spf13/viper"
)

const envPrefix = "ARCADE"

type AppConfig struct {
	Log     log.Conf
	API     APIConfig
	Cache   cache.Conf
	Trace   trace.Conf
	Metrics metrics.MetricsConfig
	Pprof   pprof.Conf
	Console ConsoleConfig
}

// APIConfig locates and authenticates against the backend API.
type APIConfig struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
	Insecure   bool
}

type ConsoleConfig struct {
	// SharedGroup is the reserved group whose models only admins may edit.
	SharedGroup string
	// MockListen is the listen address of the mock-api command.
	MockListen string
	// MockSecret signs the tokens accepted by the mock API.
	MockSecret string
	// SettleTimeout bounds how long a command waits for pending requests.
	SettleTimeout time.Duration
}

var (
	mu  sync.RWMutex
	cfg *AppConfig
)

func setDefaults(v *viper.Viper) {
	def := log.SetDefaults()
	v.SetDefault("log.output", "stderr")
	v.SetDefault("log.path", def.Path)
	v.SetDefault("log.filename", def.Filename)
	v.SetDefault("log.level", def.Level)
	v.SetDefault("log.keephours", def.KeepHours)
	v.SetDefault("log.rotatesize", def.RotateSize)
	v.SetDefault("log.rotatenum", def.RotateNum)

	v.SetDefault("api.baseurl", "http://localhost:8081")
	v.SetDefault("api.token", "")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("api.retrycount", 2)
	v.SetDefault("api.retrywait", 200*time.Millisecond)
	v.SetDefault("api.insecure", false)

	v.SetDefault("cache.mode", cache.ModeLocal)
	v.SetDefault("cache.ttl", 5*time.Minute)
	v.SetDefault("cache.redis.address", "localhost:6379")

	v.SetDefault("trace.enabled", false)

	v.SetDefault("metrics.host", "127.0.0.1")
	v.SetDefault("metrics.port", 9464)
	v.SetDefault("metrics.enable", false)

	v.SetDefault("pprof.enable", false)

	v.SetDefault("console.sharedgroup", "shared.infra")
	v.SetDefault("console.mocklisten", "127.0.0.1:8081")
	v.SetDefault("console.mocksecret", "arcade-dev-secret")
	v.SetDefault("console.settletimeout", time.Minute)
}

// LoadConfigFile reads the TOML configuration. An empty path looks for
// config.toml in ./conf.d and falls back to the defaults when there is none.
// Every key can be overridden by ARCADE_<SECTION>_<KEY>.
func LoadConfigFile(path string) (*AppConfig, *viper.Viper, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath("./conf.d")
		v.SetConfigName("config")
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, nil, fmt.Errorf("failed to read configuration file: %w", err)
		}
	}

	c, err := decode(v)
	if err != nil {
		return nil, nil, err
	}
	set(c)
	return c, v, nil
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var c AppConfig
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration file: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return nil, err
	}
	c.Cache.SetDefaults()
	c.Trace.SetDefaults()
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	return &c, nil
}

// Watch reloads the configuration when the file changes. Only the log
// level is applied live; onChange receives the new configuration.
func Watch(v *viper.Viper, onChange func(*AppConfig)) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Infow("configuration changed, reloading", "file", e.Name, "op", e.Op.String())
		reload(v, onChange)
	})
	v.WatchConfig()
}

func reload(v *viper.Viper, onChange func(*AppConfig)) {
	c, err := decode(v)
	if err != nil {
		log.Errorw("failed to reload configuration", "error", err)
		return
	}
	log.SetLevel(c.Log.Level)
	set(c)
	if onChange != nil {
		onChange(c)
	}
}

func set(c *AppConfig) {
	mu.Lock()
	defer mu.Unlock()
	cfg = c
}

// Get returns the last loaded configuration, or nil before the first load.
func Get() *AppConfig {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
