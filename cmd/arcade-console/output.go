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

package main

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"sigs.k8s.io/yaml"
)

const (
	formatYAML = "yaml"
	formatJSON = "json"
)

// render writes v to w in the selected output format.
func render(w io.Writer, v any) error {
	var (
		out []byte
		err error
	)
	switch output {
	case formatJSON:
		out, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err == nil {
			out = append(out, '\n')
		}
	case formatYAML:
		out, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unknown output format %q", output)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}
