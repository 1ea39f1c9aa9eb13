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

func (rt *Router) workerModelRouter(r fiber.Router, auth fiber.Handler) {
	wm := r.Group("/worker/model", auth)
	{
		wm.Get("/pattern", rt.getPatterns)             // GET /worker/model/pattern
		wm.Get("/type", rt.getTypes)                   // GET /worker/model/type
		wm.Get("/communication", rt.getCommunications) // GET /worker/model/communication
		wm.Post("/import", rt.importWorkerModel)       // POST /worker/model/import?force=
		wm.Get("/", rt.getWorkerModel)                 // GET /worker/model?name=
		wm.Post("/", rt.createWorkerModel)             // POST /worker/model
		wm.Put("/:id", rt.updateWorkerModel)           // PUT /worker/model/:id
		wm.Delete("/:id", rt.deleteWorkerModel)        // DELETE /worker/model/:id
		wm.Get("/:id/export", rt.exportWorkerModel)    // GET /worker/model/:id/export
		wm.Get("/:id/usage", rt.getUsage)              // GET /worker/model/:id/usage
	}
}

func (rt *Router) getPatterns(c *fiber.Ctx) error {
	c.Locals(http.DETAIL, rt.Store.Patterns())
	return nil
}

func (rt *Router) getTypes(c *fiber.Ctx) error {
	c.Locals(http.DETAIL, model.WorkerModelTypes)
	return nil
}

func (rt *Router) getCommunications(c *fiber.Ctx) error {
	c.Locals(http.DETAIL, Communications)
	return nil
}

func (rt *Router) getWorkerModel(c *fiber.Ctx) error {
	name := c.Query("name")
	if name == "" {
		return http.ErrBadRequest("name is required")
	}
	wm, err := rt.Store.WorkerModelByName(name)
	if err != nil {
		return toHTTPError(err)
	}
	c.Locals(http.DETAIL, wm)
	return nil
}

func (rt *Router) createWorkerModel(c *fiber.Ctx) error {
	var req model.WorkerModel
	if err := c.BodyParser(&req); err != nil {
		return http.NewError(fiber.StatusBadRequest, http.RequestParameterParsingFailed)
	}
	wm, err := rt.Store.CreateWorkerModel(currentUser(c), &req)
	if err != nil {
		return toHTTPError(err)
	}
	c.Locals(http.DETAIL, wm)
	c.Locals(http.OPERATION, "create worker model")
	return nil
}

func (rt *Router) updateWorkerModel(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var req model.WorkerModel
	if err := c.BodyParser(&req); err != nil {
		return http.NewError(fiber.StatusBadRequest, http.RequestParameterParsingFailed)
	}
	wm, err := rt.Store.UpdateWorkerModel(currentUser(c), id, &req)
	if err != nil {
		return toHTTPError(err)
	}
	c.Locals(http.DETAIL, wm)
	c.Locals(http.OPERATION, "update worker model")
	return nil
}

func (rt *Router) deleteWorkerModel(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	if err := rt.Store.DeleteWorkerModel(currentUser(c), id); err != nil {
		return toHTTPError(err)
	}
	c.Locals(http.OPERATION, "delete worker model")
	return nil
}

func (rt *Router) exportWorkerModel(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	text, err := rt.Store.Export(id)
	if err != nil {
		return toHTTPError(err)
	}
	c.Set(fiber.HeaderContentType, "application/x-yaml")
	return c.SendString(text)
}

func (rt *Router) importWorkerModel(c *fiber.Ctx) error {
	wm, err := rt.Store.Import(currentUser(c), string(c.Body()), c.QueryBool("force", false))
	if err != nil {
		return toHTTPError(err)
	}
	c.Locals(http.DETAIL, wm)
	c.Locals(http.OPERATION, "import worker model")
	return nil
}

func (rt *Router) getUsage(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	usage, err := rt.Store.Usage(id)
	if err != nil {
		return toHTTPError(err)
	}
	c.Locals(http.DETAIL, usage)
	return nil
}
