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
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error is returned by handlers to produce a failure envelope.
type Error struct {
	Status int
	Code   int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d %d: %s", e.Status, e.Code, e.Msg)
}

// NewError builds an Error from one of the predefined codes. An optional
// message replaces the default one.
func NewError(status int, resp *Response, msg ...string) *Error {
	e := &Error{Status: status, Code: resp.Code, Msg: resp.Msg}
	if len(msg) > 0 && msg[0] != "" {
		e.Msg = msg[0]
	}
	return e
}

func ErrBadRequest(msg string) *Error { return NewError(fiber.StatusBadRequest, BadRequest, msg) }
func ErrNotFound(msg string) *Error   { return NewError(fiber.StatusNotFound, NotFound, msg) }
func ErrConflict(msg string) *Error   { return NewError(fiber.StatusConflict, Conflict, msg) }
func ErrForbidden(msg string) *Error  { return NewError(fiber.StatusForbidden, Forbidden, msg) }

// ErrorHandler renders handler errors as failure envelopes. It is meant for
// fiber.Config.ErrorHandler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var he *Error
	if errors.As(err, &he) {
		return WithRepErr(c, he.Status, he.Code, he.Msg)
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		switch fe.Code {
		case fiber.StatusNotFound:
			return WithRepErr(c, fe.Code, NotFound.Code, fe.Message)
		case fiber.StatusUnauthorized:
			return WithRepErr(c, fe.Code, Unauthorized.Code, fe.Message)
		case fiber.StatusForbidden:
			return WithRepErr(c, fe.Code, Forbidden.Code, fe.Message)
		}
		if fe.Code < fiber.StatusInternalServerError {
			return WithRepErr(c, fe.Code, BadRequest.Code, fe.Message)
		}
	}
	return WithRepErr(c, fiber.StatusInternalServerError, InternalError.Code, InternalError.Msg)
}
