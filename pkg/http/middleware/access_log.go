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

package middleware

import (
	"time"

	"github.com/go-arcade/console/pkg/log"
	"github.com/gofiber/fiber/v2"
)

// AccessLogMiddleware logs one line per request, skipping excluded paths.
func AccessLogMiddleware(excluded ...string) fiber.Handler {
	skip := map[string]bool{"/health": true, "/metrics": true}
	for _, p := range excluded {
		skip[p] = true
	}

	return func(c *fiber.Ctx) error {
		if skip[c.Path()] {
			return c.Next()
		}

		start := time.Now()
		err := c.Next()

		log.WithContext(c.UserContext()).Infow("HTTP request",
			"method", c.Method(),
			"path", c.Path(),
			"query", string(c.Request().URI().QueryString()),
			"status", c.Response().StatusCode(),
			"ip", c.IP(),
			"request_id", c.Locals("request_id"),
			"latency", time.Since(start).String(),
		)
		return err
	}
}
