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

package mockapi

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/go-arcade/console/pkg/http"
	"github.com/go-arcade/console/pkg/http/middleware"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/safe"
	"github.com/go-arcade/console/pkg/shutdown"
	"github.com/go-arcade/console/pkg/version"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const userKey = "user"

// Communications are the worker communication protocols the backend offers.
var Communications = []string{"http", "grpc"}

type Router struct {
	Store    *Store
	Secret   []byte
	Metrics  *metrics.Server
	Shutdown *shutdown.Manager
}

// NewRouter serves store. Tokens must be signed with secret. m may be nil.
func NewRouter(store *Store, secret []byte, m *metrics.Server) *Router {
	return &Router{
		Store:    store,
		Secret:   secret,
		Metrics:  m,
		Shutdown: shutdown.NewManager(),
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Arcade Mock API",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		ErrorHandler:          http.ErrorHandler,
	})

	app.Use(
		middleware.ExceptionMiddleware,
		middleware.ShutdownMiddleware(rt.Shutdown),
		cors.New(),
		middleware.RequestMiddleware(),
		middleware.TraceMiddleware(),
		middleware.AccessLogMiddleware(),
		middleware.UnifiedResponseMiddleware(),
	)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Get("/version", func(c *fiber.Ctx) error {
		c.Locals(http.DETAIL, version.GetVersion())
		return nil
	})
	if rt.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(rt.Metrics.Handler()))
	}

	auth := rt.authenticate
	rt.workerModelRouter(app, auth)
	rt.groupRouter(app, auth)
	rt.integrationRouter(app, auth)

	app.Use(func(c *fiber.Ctx) error {
		return http.ErrNotFound("request path not found")
	})
	return app
}

// authenticate reads the bearer token and stores its user.
func (rt *Router) authenticate(c *fiber.Ctx) error {
	token, ok := strings.CutPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
	if !ok || token == "" {
		return http.NewError(fiber.StatusUnauthorized, http.Unauthorized)
	}
	claims, err := session.ParseToken(token, rt.Secret)
	if err != nil {
		return http.NewError(fiber.StatusUnauthorized, http.InvalidToken, err.Error())
	}
	user, known := rt.Store.User(claims.Username)
	if !known {
		user = *claims.User()
	}
	c.Locals(userKey, user)
	return c.Next()
}

func currentUser(c *fiber.Ctx) model.User {
	u, _ := c.Locals(userKey).(model.User)
	return u
}

// toHTTPError maps store errors to failure envelopes.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.ErrNotFound(err.Error())
	case errors.Is(err, ErrConflict):
		return http.ErrConflict(err.Error())
	case errors.Is(err, ErrForbidden):
		return http.ErrForbidden(err.Error())
	default:
		return http.ErrBadRequest(err.Error())
	}
}

func paramID(c *fiber.Ctx) (int64, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, http.ErrBadRequest("invalid worker model id")
	}
	return int64(id), nil
}

// Serve runs the API on ln until ctx is done, then rejects new requests
// and waits for the in-flight ones.
func (rt *Router) Serve(ctx context.Context, ln net.Listener) error {
	app := rt.Router()
	errCh := make(chan error, 1)
	safe.Go(func() {
		errCh <- app.Listener(ln)
	})
	log.Infow("mock api listening", "address", ln.Addr().String())

	select {
	case <-ctx.Done():
		rt.Shutdown.Shutdown()
		return app.ShutdownWithTimeout(5 * time.Second)
	case err := <-errCh:
		return err
	}
}
