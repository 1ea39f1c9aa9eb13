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

// Package query filters lists with boolean expressions over their JSON fields.
package query

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// Filter is a compiled boolean expression such as
// `type == "docker" && name startsWith "ubuntu"`.
type Filter struct {
	source  string
	program *vm.Program
}

// Compile parses expression. An empty expression matches everything.
func Compile(expression string) (*Filter, error) {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		return &Filter{}, nil
	}
	program, err := expr.Compile(expression,
		expr.Env(map[string]any{}),
		expr.AllowUndefinedVariables(),
		// "type" is a common field name
		expr.DisableBuiltin("type"),
		expr.AsBool(),
	)
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", expression, err)
	}
	return &Filter{source: expression, program: program}, nil
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.source
}

// Match evaluates the filter against the JSON form of item.
func (f *Filter) Match(item any) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	env, err := toEnv(item)
	if err != nil {
		return false, err
	}
	out, err := expr.Run(f.program, env)
	if err != nil {
		return false, fmt.Errorf("evaluate filter %q: %w", f.source, err)
	}
	matched, _ := out.(bool)
	return matched, nil
}

// Apply returns the items matching expression, in order.
func Apply[T any](items []T, expression string) ([]T, error) {
	f, err := Compile(expression)
	if err != nil {
		return nil, err
	}
	if f.program == nil {
		return items, nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		ok, err := f.Match(item)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, item)
		}
	}
	return out, nil
}

func toEnv(item any) (map[string]any, error) {
	if m, ok := item.(map[string]any); ok {
		return m, nil
	}
	data, err := sonic.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("encode filter input: %w", err)
	}
	env := map[string]any{}
	if err := sonic.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("filter input must be an object: %w", err)
	}
	return env, nil
}
