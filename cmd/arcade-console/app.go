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
	"context"
	"io"
	"time"

	"github.com/go-arcade/console/internal/console/client"
	"github.com/go-arcade/console/internal/console/conf"
	"github.com/go-arcade/console/internal/console/controller/integration"
	"github.com/go-arcade/console/internal/console/controller/workermodel"
	"github.com/go-arcade/console/internal/console/notify"
	"github.com/go-arcade/console/internal/console/service"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/metrics"
)

// consoleApp holds the services shared by the commands.
type consoleApp struct {
	conf     *conf.AppConfig
	console  conf.ConsoleConfig
	catalog  *client.Catalog
	server   *metrics.Server
	metrics  *metrics.Console
	notifier *notify.Terminal
}

func newConsoleApp(c *conf.AppConfig, cc conf.ConsoleConfig, catalog *client.Catalog, server *metrics.Server, m *metrics.Console) *consoleApp {
	return &consoleApp{
		conf:    c,
		console: cc,
		catalog: catalog,
		server:  server,
		metrics: m,
	}
}

// open builds the console for the loaded configuration. The returned
// cleanup stops the metrics endpoint and releases the cache.
func open(out io.Writer) (*consoleApp, func(), error) {
	app, cleanup, err := initConsole(appConf)
	if err != nil {
		return nil, nil, err
	}
	app.notifier = notify.NewTerminal(out)
	if err := app.server.Start(); err != nil {
		log.Warnw("metrics server not started", "error", err)
	}
	return app, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = app.server.Stop(ctx)
		cleanup()
	}, nil
}

func (a *consoleApp) session() service.ISessionProvider {
	return session.NewTokenSession(a.conf.API.Token)
}

func (a *consoleApp) editor(ctx context.Context) *workermodel.Controller {
	return workermodel.New(ctx, workermodel.Deps{
		WorkerModels: a.catalog,
		Groups:       a.catalog,
		Session:      a.session(),
		Notifier:     a.notifier,
		Navigator:    a.notifier,
		Metrics:      a.metrics,
	},
		workermodel.WithSharedGroup(a.console.SharedGroup),
		workermodel.WithRequestTimeout(a.conf.API.Timeout),
	)
}

func (a *consoleApp) integrationForm(ctx context.Context, projectKey string) *integration.Controller {
	return integration.New(ctx, projectKey, integration.Deps{
		Integrations: a.catalog,
		Notifier:     a.notifier,
		Metrics:      a.metrics,
	})
}

// settle waits for the pending requests of s within the configured timeout.
func (a *consoleApp) settle(ctx context.Context, s interface{ Settle(context.Context) error }) error {
	if a.console.SettleTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.console.SettleTimeout)
		defer cancel()
	}
	return s.Settle(ctx)
}
