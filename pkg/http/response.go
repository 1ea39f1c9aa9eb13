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

package http

import (
	"github.com/gofiber/fiber/v2"
)

// Locals keys read by the unified response middleware.
const (
	DETAIL    = "detail"
	OPERATION = "operation"
)

// Response is the success envelope.
type Response struct {
	Code   int    `json:"code"`
	Detail any    `json:"detail,omitempty"`
	Msg    string `json:"msg"`
}

// ResponseErr is the failure envelope.
type ResponseErr struct {
	ErrCode int    `json:"code"`
	ErrMsg  string `json:"errMsg"`
	Path    string `json:"path,omitempty"`
}

var Success = &Response{Code: 200, Msg: "Request Success"}

var (
	Failed                        = failed(500, "Request failed")
	RequestParameterParsingFailed = failed(5001, "Request parameter parsing failed")
	InternalError                 = failed(5000, "Internal error, please contact the administrator")
	ShuttingDown                  = failed(5003, "Server is shutting down")

	Unauthorized = failed(4401, "Unauthorized")
	InvalidToken = failed(4405, "Invalid token")

	BadRequest       = failed(4000, "Bad request")
	NotFound         = failed(4004, "Not found")
	Conflict         = failed(4009, "Already exists")
	Forbidden        = failed(4030, "Forbidden")
	PermissionDenied = failed(4031, "Permission denied")
)

func failed(code int, msg string) *Response {
	return &Response{Code: code, Msg: msg}
}

// WithRepJSON writes detail inside a success envelope.
func WithRepJSON(c *fiber.Ctx, detail any) error {
	return c.JSON(Response{
		Code:   Success.Code,
		Detail: detail,
		Msg:    Success.Msg,
	})
}

// WithRepNotDetail writes a success envelope without detail.
func WithRepNotDetail(c *fiber.Ctx) error {
	return c.JSON(Response{
		Code: Success.Code,
		Msg:  Success.Msg,
	})
}

// WithRepErr writes a failure envelope with the given HTTP status.
func WithRepErr(c *fiber.Ctx, status, code int, errMsg string) error {
	return c.Status(status).JSON(ResponseErr{
		ErrCode: code,
		ErrMsg:  errMsg,
		Path:    c.Path(),
	})
}
