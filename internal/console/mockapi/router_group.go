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
	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/pkg/http"
	"github.com/gofiber/fiber/v2"
)

func (rt *Router) groupRouter(r fiber.Router, auth fiber.Handler) {
	g := r.Group("/group", auth)
	{
		g.Get("/", rt.getGroups)           // GET /group?onlyMine=
		g.Get("/:name", rt.getGroupByName) // GET /group/:name
	}
}

func (rt *Router) getGroups(c *fiber.Ctx) error {
	c.Locals(http.DETAIL, rt.Store.Groups(currentUser(c), c.QueryBool("onlyMine", false)))
	return nil
}

func (rt *Router) getGroupByName(c *fiber.Ctx) error {
	g, err := rt.Store.GroupByName(c.Params("name"))
	if err != nil {
		return toHTTPError(err)
	}
	c.Locals(http.DETAIL, g)
	return nil
}

func (rt *Router) integrationRouter(r fiber.Router, auth fiber.Handler) {
	r.Get("/integration/models", auth, rt.getIntegrationModels)          // GET /integration/models
	r.Post("/project/:key/integrations", auth, rt.addProjectIntegration) // POST /project/:key/integrations
}

func (rt *Router) getIntegrationModels(c *fiber.Ctx) error {
	c.Locals(http.DETAIL, rt.Store.IntegrationModels())
	return nil
}

func (rt *Router) addProjectIntegration(c *fiber.Ctx) error {
	var req model.ProjectIntegration
	if err := c.BodyParser(&req); err != nil {
		return http.NewError(fiber.StatusBadRequest, http.RequestParameterParsingFailed)
	}
	pi, err := rt.Store.AddProjectIntegration(c.Params("key"), req)
	if err != nil {
		return toHTTPError(err)
	}
	c.Locals(http.DETAIL, pi)
	c.Locals(http.OPERATION, "add project integration")
	return nil
}
