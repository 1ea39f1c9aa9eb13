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
	"errors"
	"time"

	"github.com/go-arcade/console/pkg/log"
	"github.com/redis/go-redis/v9"
)

// TieredCache reads through a local FastCache in front of a remote cache.
// Writes go to both tiers, the local copy living for a fraction of the TTL.
type TieredCache struct {
	local    *FastCache
	remote   ICache
	ttlRatio float64
	localTTL time.Duration
}

// NewTieredCache creates a two level cache. ttlRatio is clamped to (0, 1].
func NewTieredCache(local *FastCache, remote ICache, ttlRatio float64) *TieredCache {
	if ttlRatio <= 0 || ttlRatio > 1 {
		ttlRatio = 1
	}
	return &TieredCache{
		local:    local,
		remote:   remote,
		ttlRatio: ttlRatio,
		localTTL: time.Minute,
	}
}

// Get tries local first, then remote; a remote hit is copied to local.
func (tc *TieredCache) Get(ctx context.Context, key string) *redis.StringCmd {
	if cmd := tc.local.Get(ctx, key); cmd.Err() == nil {
		log.Debugw("tiered cache hit (local)", "key", key)
		return cmd
	}

	cmd := tc.remote.Get(ctx, key)
	if err := cmd.Err(); err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			log.Warnw("tiered cache remote get failed", "key", key, "error", err)
		}
		return cmd
	}

	log.Debugw("tiered cache hit (remote)", "key", key)
	tc.local.Set(ctx, key, cmd.Val(), tc.localTTL)
	return cmd
}

// Set updates both tiers. The remote result is returned.
func (tc *TieredCache) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	local := expiration
	if expiration > 0 {
		local = time.Duration(float64(expiration) * tc.ttlRatio)
	}
	tc.local.Set(ctx, key, value, local)
	return tc.remote.Set(ctx, key, value, expiration)
}

// Del removes keys from both tiers and reports the remote count.
func (tc *TieredCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	tc.local.Del(ctx, keys...)
	return tc.remote.Del(ctx, keys...)
}
