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

package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errTransient = errors.New("transient")

func fast() []Option {
	return []Option{WithBackoff(Fixed(time.Millisecond)), WithJitter(NoJitter)}
}

func TestDo_Success(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDo_RetrySuccess(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	}, fast()...)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDo_MaxAttempts(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	}, append(fast(), WithMaxAttempts(4))...)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 4, calls)
}

func TestDo_Permanent(t *testing.T) {
	calls := 0
	notFound := errors.New("not found")
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return Permanent(notFound)
	}, fast()...)
	assert.Equal(t, notFound, err)
	assert.Equal(t, 1, calls)
	assert.Nil(t, Permanent(nil))
}

func TestDo_CustomRetryIf(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return errTransient
	}, append(fast(), WithRetryIf(func(error) bool { return false }))...)
	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
}

func TestDo_OnRetry(t *testing.T) {
	var attempts []int
	_ = Do(context.Background(), func(ctx context.Context) error {
		return errTransient
	}, append(fast(), WithOnRetry(func(attempt int, wait time.Duration, err error) {
		attempts = append(attempts, attempt)
		assert.Equal(t, time.Millisecond, wait)
		assert.ErrorIs(t, err, errTransient)
	}))...)
	assert.Equal(t, []int{1, 2}, attempts)
}

func TestDo_ContextCancellationDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	start := time.Now()

	err := Do(ctx, func(ctx context.Context) error {
		calls++
		cancel()
		return errTransient
	}, WithBackoff(Fixed(time.Hour)), WithJitter(NoJitter))

	assert.ErrorIs(t, err, errTransient)
	assert.Equal(t, 1, calls)
	assert.Less(t, time.Since(start), time.Second)
}

func TestDo_PreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := Do(ctx, func(ctx context.Context) error {
		calls++
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestDo_NoRetryOnContextError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), func(ctx context.Context) error {
		calls++
		return context.DeadlineExceeded
	}, fast()...)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, 1, calls)
}

func TestDoValue(t *testing.T) {
	calls := 0
	v, err := DoValue(context.Background(), func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", errTransient
		}
		return "ok", nil
	}, fast()...)
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
}

func TestIsRetryableError(t *testing.T) {
	assert.False(t, IsRetryableError(nil))
	assert.False(t, IsRetryableError(context.Canceled))
	assert.False(t, IsRetryableError(context.DeadlineExceeded))
	assert.True(t, IsRetryableError(errTransient))
}

func TestBackoff(t *testing.T) {
	assert.Equal(t, time.Second, Fixed(time.Second).Next(5))

	exp := Exponential(100*time.Millisecond, time.Second)
	assert.Equal(t, 100*time.Millisecond, exp.Next(0))
	assert.Equal(t, 400*time.Millisecond, exp.Next(2))
	assert.Equal(t, time.Second, exp.Next(10))
	assert.Equal(t, time.Second, exp.Next(100))
}

func TestJitter(t *testing.T) {
	assert.Equal(t, time.Second, NoJitter(time.Second))
	for i := 0; i < 100; i++ {
		d := EqualJitter(time.Second)
		assert.GreaterOrEqual(t, d, 500*time.Millisecond)
		assert.Less(t, d, time.Second)
	}
	assert.Equal(t, time.Duration(0), EqualJitter(0))
}
