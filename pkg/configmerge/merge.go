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

// Package configmerge fills gaps in a key/value map from a set of defaults.
package configmerge

// Merge inserts every entry of defaults whose key is missing from target.
// Existing target entries are never overwritten and keys absent from
// defaults are kept. target is modified in place; when it is nil a new map
// is allocated, so callers should always use the returned map.
func Merge[K comparable, V any](defaults, target map[K]V) map[K]V {
	return MergeFunc(defaults, target, nil)
}

// MergeFunc is Merge with a hook applied to each inserted default entry.
func MergeFunc[K comparable, V any](defaults, target map[K]V, fn func(K, V) V) map[K]V {
	if target == nil {
		target = make(map[K]V, len(defaults))
	}
	for k, v := range defaults {
		if _, ok := target[k]; ok {
			continue
		}
		if fn != nil {
			v = fn(k, v)
		}
		target[k] = v
	}
	return target
}
