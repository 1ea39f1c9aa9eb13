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
	"github.com/go-arcade/console/pkg/http"
	"github.com/go-arcade/console/pkg/shutdown"
	"github.com/gofiber/fiber/v2"
)

// ShutdownMiddleware rejects new requests once m has started draining.
func ShutdownMiddleware(m *shutdown.Manager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if m.IsShuttingDown() {
			c.Set(fiber.HeaderConnection, "close")
			return http.NewError(fiber.StatusServiceUnavailable, http.ShuttingDown)
		}
		return c.Next()
	}
}
