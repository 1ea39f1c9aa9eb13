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

package model

import "errors"

var (
	ErrInvalidName          = errors.New("invalid worker model name, allowed characters are a-z A-Z 0-9 . _ -")
	ErrGroupNotFound        = errors.New("group not found among the loaded groups")
	ErrNotPersisted         = errors.New("worker model is not saved yet")
	ErrEmptyDocument        = errors.New("as-code document is empty")
	ErrInvalidDocument      = errors.New("as-code document is not valid yaml")
	ErrNoIntegrationModel   = errors.New("no integration model selected")
	ErrIntegrationNameEmpty = errors.New("integration name is required")
	ErrUnknownPattern       = errors.New("unknown worker model pattern")
)
