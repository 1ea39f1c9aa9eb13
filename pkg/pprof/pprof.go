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

package pprof

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"sync"

	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/safe"
)

type Conf struct {
	Enable bool
	Host   string
	Port   int
	Path   string
}

func (c *Conf) SetDefaults() {
	if c.Host == "" {
		c.Host = "127.0.0.1"
	}
	if c.Port == 0 {
		c.Port = 6060
	}
	if c.Path == "" {
		c.Path = "/debug/pprof"
	}
}

// Server exposes the runtime profiles over HTTP.
type Server struct {
	conf   Conf
	mu     sync.Mutex
	server *http.Server
}

func NewServer(conf Conf) *Server {
	conf.SetDefaults()
	return &Server{conf: conf}
}

// Handler serves the profile index and the named profiles under the
// configured path.
func (s *Server) Handler() http.Handler {
	prefix := s.conf.Path
	mux := http.NewServeMux()
	mux.HandleFunc(prefix+"/", pprof.Index)
	mux.HandleFunc(prefix+"/cmdline", pprof.Cmdline)
	mux.HandleFunc(prefix+"/profile", pprof.Profile)
	mux.HandleFunc(prefix+"/symbol", pprof.Symbol)
	mux.HandleFunc(prefix+"/trace", pprof.Trace)
	for _, name := range []string{"allocs", "block", "goroutine", "heap", "mutex", "threadcreate"} {
		mux.Handle(prefix+"/"+name, pprof.Handler(name))
	}
	return mux
}

// Start listens in the background when profiling is enabled.
func (s *Server) Start() error {
	if !s.conf.Enable {
		log.Debug("pprof server is disabled")
		return nil
	}

	addr := fmt.Sprintf("%s:%d", s.conf.Host, s.conf.Port)
	srv := &http.Server{Addr: addr, Handler: s.Handler()}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	safe.Go(func() {
		log.Infow("pprof server started", "address", addr, "path", s.conf.Path)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorw("pprof server failed", "error", err)
		}
	})
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}
