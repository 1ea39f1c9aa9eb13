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

// Package notify shows controller notifications on a terminal.
package notify

import (
	"fmt"
	"io"
	"path"
	"slices"
	"sync"

	"github.com/go-arcade/console/internal/console/service"
	"github.com/go-arcade/console/pkg/log"
)

var messages = map[string]string{
	service.MsgProjectUpdated:     "Project updated",
	service.MsgWorkerModelSaved:   "Worker model saved",
	service.MsgWorkerModelDeleted: "Worker model deleted",
}

// Text returns the message for a translation key, or the key itself.
func Text(key string) string {
	if msg, ok := messages[key]; ok {
		return msg
	}
	return key
}

// Terminal writes notifications to out and remembers the last navigation.
type Terminal struct {
	mu       sync.Mutex
	out      io.Writer
	location []string
}

var (
	_ service.INotifier  = (*Terminal)(nil)
	_ service.INavigator = (*Terminal)(nil)
)

func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{out: out}
}

func (t *Terminal) Success(key string) {
	log.Debugw("notification", "level", "success", "key", key)
	t.write(Text(key))
}

func (t *Terminal) Error(err error) {
	if err == nil {
		return
	}
	log.Warnw("notification", "level", "error", "error", err)
	t.write("error: " + err.Error())
}

func (t *Terminal) write(line string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.out, line)
}

func (t *Terminal) Navigate(p ...string) {
	t.mu.Lock()
	t.location = slices.Clone(p)
	t.mu.Unlock()
	log.Infow("navigate", "path", path.Join(p...))
}

// Location returns the path of the last navigation.
func (t *Terminal) Location() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return slices.Clone(t.location)
}
