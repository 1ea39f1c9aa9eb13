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
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/internal/console/conf"
	"github.com/go-arcade/console/pkg/id"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/retry"
	"github.com/go-arcade/console/pkg/trace"
	"github.com/go-arcade/console/pkg/version"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const requestIDHeader = "X-Request-Id"

// Client calls the backend API. It implements the worker model,
// integration and group services.
type Client struct {
	http     *resty.Client
	retryOpt []retry.Option
	metrics  *metrics.Console
}

// envelope is the success body of every JSON endpoint.
type envelope[T any] struct {
	Code   int    `json:"code"`
	Detail T      `json:"detail"`
	Msg    string `json:"msg"`
}

// errorBody is the failure body of every endpoint.
type errorBody struct {
	Code   int    `json:"code"`
	ErrMsg string `json:"errMsg"`
	Path   string `json:"path"`
}

// New creates a client for cfg.BaseURL. m may be nil.
func New(cfg conf.APIConfig, m *metrics.Console) *Client {
	h := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", version.GetVersion().UserAgent()).
		SetJSONMarshaler(sonic.Marshal).
		SetJSONUnmarshaler(sonic.Unmarshal)
	if cfg.Token != "" {
		h.SetAuthToken(cfg.Token)
	}
	if cfg.Insecure {
		h.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true}) //nolint:gosec
	}
	h.OnBeforeRequest(func(_ *resty.Client, r *resty.Request) error {
		if r.Header.Get(requestIDHeader) == "" {
			r.SetHeader(requestIDHeader, id.GetUUID())
		}
		otel.GetTextMapPropagator().Inject(r.Context(), propagation.HeaderCarrier(r.Header))
		return nil
	})

	attempts := cfg.RetryCount + 1
	if attempts < 1 {
		attempts = 1
	}
	wait := cfg.RetryWait
	if wait <= 0 {
		wait = 200 * time.Millisecond
	}

	return &Client{
		http:    h,
		metrics: m,
		retryOpt: []retry.Option{
			retry.WithMaxAttempts(attempts),
			retry.WithBackoff(retry.Exponential(wait, 10*wait)),
			retry.WithRetryIf(isRetryable),
		},
	}
}

func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Temporary()
	}
	return retry.IsRetryableError(err)
}

// call describes one request.
type call struct {
	op     string
	method string
	path   string
	build  func(*resty.Request)
}

// send runs the request in a client span, retrying idempotent methods, and
// returns the body of a successful answer.
func (c *Client) send(ctx context.Context, cl call) ([]byte, error) {
	exec := func(ctx context.Context) ([]byte, error) {
		var body []byte
		_, err := trace.ClientRequest(ctx, cl.method, cl.path, func(ctx context.Context) (int, error) {
			start := time.Now()
			req := c.http.R().SetContext(ctx)
			if cl.build != nil {
				cl.build(req)
			}
			resp, err := req.Execute(cl.method, cl.path)
			if err != nil {
				c.metrics.ObserveRequest(cl.op, 0, time.Since(start))
				return 0, fmt.Errorf("%s: %w", cl.op, err)
			}
			status := resp.StatusCode()
			c.metrics.ObserveRequest(cl.op, status, time.Since(start))
			if status >= http.StatusBadRequest {
				return status, decodeError(cl.op, status, resp.Body())
			}
			body = resp.Body()
			return status, nil
		})
		return body, err
	}

	if cl.method != http.MethodGet {
		return exec(ctx)
	}
	return retry.DoValue(ctx, exec, append(c.retryOpt, retry.WithOnRetry(func(attempt int, wait time.Duration, err error) {
		log.WithContext(ctx).Warnw("retrying api request", "operation", cl.op, "attempt", attempt, "wait", wait, "error", err)
	}))...)
}

func decodeError(op string, status int, body []byte) *APIError {
	apiErr := &APIError{Operation: op, Status: status}
	var eb errorBody
	if len(body) > 0 && sonic.Unmarshal(body, &eb) == nil {
		apiErr.Code = eb.Code
		apiErr.Message = eb.ErrMsg
		apiErr.Path = eb.Path
	}
	return apiErr
}

// fetch performs cl and decodes the detail of the envelope into T.
func fetch[T any](ctx context.Context, c *Client, cl call) (T, error) {
	var zero T
	body, err := c.send(ctx, cl)
	if err != nil {
		return zero, err
	}
	var env envelope[T]
	if len(body) == 0 {
		return zero, nil
	}
	if err := sonic.Unmarshal(body, &env); err != nil {
		return zero, fmt.Errorf("%s: decode response: %w", cl.op, err)
	}
	return env.Detail, nil
}
