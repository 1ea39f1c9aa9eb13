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
	"encoding/binary"
	"time"

	"github.com/VictoriaMetrics/fastcache"
	"github.com/redis/go-redis/v9"
)

// defaultLocalMaxBytes is the default cache size (32MB)
const defaultLocalMaxBytes = 32 * 1024 * 1024

// FastCacheConfig holds fastcache configuration
type FastCacheConfig struct {
	MaxBytes int
}

// FastCache is an in-process cache on VictoriaMetrics fastcache. Each entry
// carries its deadline in an 8 byte prefix so expiry needs no timers.
type FastCache struct {
	cache *fastcache.Cache
	now   func() time.Time
}

// NewFastCache creates a new FastCache instance
func NewFastCache(conf FastCacheConfig) *FastCache {
	maxBytes := conf.MaxBytes
	if maxBytes <= 0 {
		maxBytes = defaultLocalMaxBytes
	}
	return &FastCache{
		cache: fastcache.New(maxBytes),
		now:   time.Now,
	}
}

// Get returns the value for the given key, or ErrCacheMiss.
func (fc *FastCache) Get(ctx context.Context, key string) *redis.StringCmd {
	cmd := redis.NewStringCmd(ctx, "get", key)

	raw := fc.cache.GetBig(nil, []byte(key))
	if len(raw) < 8 {
		cmd.SetErr(ErrCacheMiss)
		return cmd
	}
	deadline := int64(binary.BigEndian.Uint64(raw[:8]))
	if deadline > 0 && fc.now().UnixNano() > deadline {
		fc.cache.Del([]byte(key))
		cmd.SetErr(ErrCacheMiss)
		return cmd
	}
	cmd.SetVal(string(raw[8:]))
	return cmd
}

// Set stores value under key. A non-positive expiration never expires.
func (fc *FastCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx, "set", key)

	data, err := toBytes(value)
	if err != nil {
		cmd.SetErr(err)
		return cmd
	}

	var deadline int64
	if expiration > 0 {
		deadline = fc.now().Add(expiration).UnixNano()
	}
	buf := make([]byte, 8+len(data))
	binary.BigEndian.PutUint64(buf[:8], uint64(deadline))
	copy(buf[8:], data)

	fc.cache.SetBig([]byte(key), buf)
	cmd.SetVal("OK")
	return cmd
}

// Del deletes the given keys and reports how many were present.
func (fc *FastCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "del")
	var count int64
	for _, key := range keys {
		if len(fc.cache.GetBig(nil, []byte(key))) > 0 {
			count++
		}
		fc.cache.Del([]byte(key))
	}
	cmd.SetVal(count)
	return cmd
}

// Clear removes all items from the cache
func (fc *FastCache) Clear() {
	fc.cache.Reset()
}

// Stats returns cache statistics
func (fc *FastCache) Stats() fastcache.Stats {
	var stats fastcache.Stats
	fc.cache.UpdateStats(&stats)
	return stats
}
