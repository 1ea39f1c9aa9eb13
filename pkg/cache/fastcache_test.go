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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFastCache_SetGet(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})

	require.NoError(t, fc.Set(ctx, "k", "v", 0).Err())
	val, err := fc.Get(ctx, "k").Result()
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	_, err = fc.Get(ctx, "missing").Result()
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestFastCache_Struct(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})

	type pattern struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	require.NoError(t, fc.Set(ctx, "p", pattern{Name: "ubuntu", Type: "docker"}, time.Minute).Err())

	val, err := fc.Get(ctx, "p").Result()
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"ubuntu","type":"docker"}`, val)
}

func TestFastCache_Expiration(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})
	now := time.Now()
	fc.now = func() time.Time { return now }

	require.NoError(t, fc.Set(ctx, "k", "v", time.Second).Err())
	assert.NoError(t, fc.Get(ctx, "k").Err())

	now = now.Add(2 * time.Second)
	assert.ErrorIs(t, fc.Get(ctx, "k").Err(), ErrCacheMiss)
}

func TestFastCache_Del(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})

	fc.Set(ctx, "a", "1", 0)
	fc.Set(ctx, "b", "2", 0)

	n, err := fc.Del(ctx, "a", "b", "c").Result()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
	assert.ErrorIs(t, fc.Get(ctx, "a").Err(), ErrCacheMiss)
}

func TestFastCache_Clear(t *testing.T) {
	ctx := context.Background()
	fc := NewFastCache(FastCacheConfig{})
	fc.Set(ctx, "a", "1", 0)

	fc.Clear()
	assert.ErrorIs(t, fc.Get(ctx, "a").Err(), ErrCacheMiss)
}

func TestNew(t *testing.T) {
	c, cleanup, err := New(Conf{Mode: ModeLocal})
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, &FastCache{}, c)

	c, _, err = New(Conf{Mode: ModeNone})
	require.NoError(t, err)
	assert.Nil(t, c)

	_, _, err = New(Conf{Mode: "memcached"})
	assert.Error(t, err)
}

func TestConf_SetDefaults(t *testing.T) {
	var c Conf
	c.SetDefaults()

	assert.Equal(t, ModeLocal, c.Mode)
	assert.Equal(t, 5*time.Minute, c.TTL)
	assert.Equal(t, defaultLocalMaxBytes, c.LocalMaxBytes)
	assert.Equal(t, 0.5, c.LocalTTLRatio)
}
