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

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss indicates that the key was not found in cache
var ErrCacheMiss = redis.Nil

const (
	ModeNone   = "none"
	ModeLocal  = "local"
	ModeRedis  = "redis"
	ModeTiered = "tiered"
)

// ICache is the key/value surface shared by the local, redis and tiered caches.
// It keeps the go-redis command types so the redis client satisfies it directly.
type ICache interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Conf selects and sizes the cache backing the catalogue lookups.
type Conf struct {
	Mode          string
	TTL           time.Duration
	LocalMaxBytes int
	LocalTTLRatio float64
	Redis         Redis
}

// SetDefaults fills the zero fields of the configuration.
func (c *Conf) SetDefaults() {
	if c.Mode == "" {
		c.Mode = ModeLocal
	}
	if c.TTL <= 0 {
		c.TTL = 5 * time.Minute
	}
	if c.LocalMaxBytes <= 0 {
		c.LocalMaxBytes = defaultLocalMaxBytes
	}
	if c.LocalTTLRatio <= 0 || c.LocalTTLRatio > 1 {
		c.LocalTTLRatio = 0.5
	}
}

// New builds the cache selected by conf.Mode. The returned cleanup closes
// any remote connection. A nil ICache is returned for ModeNone.
func New(conf Conf) (ICache, func(), error) {
	conf.SetDefaults()
	noop := func() {}

	switch conf.Mode {
	case ModeNone:
		return nil, noop, nil
	case ModeLocal:
		return NewFastCache(FastCacheConfig{MaxBytes: conf.LocalMaxBytes}), noop, nil
	case ModeRedis, ModeTiered:
		client, err := NewRedis(conf.Redis)
		if err != nil {
			return nil, noop, err
		}
		cleanup := func() { _ = client.Close() }
		remote := NewRedisCache(client)
		if conf.Mode == ModeRedis {
			return remote, cleanup, nil
		}
		local := NewFastCache(FastCacheConfig{MaxBytes: conf.LocalMaxBytes})
		return NewTieredCache(local, remote, conf.LocalTTLRatio), cleanup, nil
	default:
		return nil, noop, fmt.Errorf("unknown cache mode %q", conf.Mode)
	}
}

func toBytes(value any) ([]byte, error) {
	switch v := value.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return sonic.Marshal(v)
	}
}
