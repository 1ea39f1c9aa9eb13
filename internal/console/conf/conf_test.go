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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-arcade/console/pkg/cache"
	"github.com/go-arcade/console/pkg/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

const sample = `
[log]
output = "stdout"
level = "DEBUG"

[api]
baseURL = "https://cds.example.com/api/"
token = "from-file"
timeout = "10s"
retryCount = 3

[cache]
mode = "tiered"
ttl = "1m"

[cache.redis]
address = "redis:6379"
db = 2

[trace]
enabled = true
protocol = "grpc"
serviceName = "console-test"

[console]
sharedGroup = "shared.infra"
mockListen = "127.0.0.1:9999"
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	c, v, err := LoadConfigFile(writeConfig(t, sample))
	require.NoError(t, err)
	require.NotNil(t, v)

	assert.Equal(t, "DEBUG", c.Log.Level)
	assert.Equal(t, "https://cds.example.com/api", c.API.BaseURL)
	assert.Equal(t, "from-file", c.API.Token)
	assert.Equal(t, 10*time.Second, c.API.Timeout)
	assert.Equal(t, 3, c.API.RetryCount)
	assert.Equal(t, cache.ModeTiered, c.Cache.Mode)
	assert.Equal(t, time.Minute, c.Cache.TTL)
	assert.Equal(t, "redis:6379", c.Cache.Redis.Address)
	assert.Equal(t, 2, c.Cache.Redis.DB)
	assert.True(t, c.Trace.Enabled)
	assert.Equal(t, "console-test", c.Trace.ServiceName)
	assert.Equal(t, "localhost:4317", c.Trace.Endpoint)
	assert.Equal(t, "127.0.0.1:9999", c.Console.MockListen)
	assert.Equal(t, time.Minute, c.Console.SettleTimeout)
	assert.Same(t, c, Get())
}

func TestLoadConfigFile_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, _, err := LoadConfigFile("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8081", c.API.BaseURL)
	assert.Equal(t, 30*time.Second, c.API.Timeout)
	assert.Equal(t, cache.ModeLocal, c.Cache.Mode)
	assert.Equal(t, "shared.infra", c.Console.SharedGroup)
	assert.Equal(t, "INFO", c.Log.Level)
}

func TestLoadConfigFile_Env(t *testing.T) {
	t.Setenv("ARCADE_API_TOKEN", "from-env")
	t.Setenv("ARCADE_CONSOLE_SHAREDGROUP", "shared")

	c, _, err := LoadConfigFile(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "from-env", c.API.Token)
	assert.Equal(t, "shared", c.Console.SharedGroup)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, _, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadConfigFile_InvalidLog(t *testing.T) {
	_, _, err := LoadConfigFile(writeConfig(t, "[log]\noutput = \"file\"\npath = \"\"\n"))
	assert.Error(t, err)
}

func TestReload(t *testing.T) {
	path := writeConfig(t, sample)
	_, v, err := LoadConfigFile(path)
	require.NoError(t, err)
	defer log.SetLevel("INFO")

	require.NoError(t, os.WriteFile(path, []byte("[log]\nlevel = \"WARN\"\n"), 0o600))
	require.NoError(t, v.ReadInConfig())

	var got *AppConfig
	reload(v, func(c *AppConfig) { got = c })

	require.NotNil(t, got)
	assert.Equal(t, "WARN", got.Log.Level)
	assert.Equal(t, zapcore.WarnLevel, log.GetLevel())
	assert.Same(t, got, Get())
}
