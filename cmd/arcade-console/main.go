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
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-arcade/console/internal/console/conf"
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/trace"
	"github.com/go-arcade/console/pkg/version"
	"github.com/spf13/cobra"
)

var (
	configFile string
	apiURL     string
	apiToken   string
	output     string

	appConf      *conf.AppConfig
	traceCleanup = func() {}
)

var rootCmd = &cobra.Command{
	Use:           "arcade-console",
	Short:         "arcade console manages worker models and project integrations",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, v, err := conf.LoadConfigFile(configFile)
		if err != nil {
			return err
		}
		if apiURL != "" {
			c.API.BaseURL = apiURL
		}
		if apiToken != "" {
			c.API.Token = apiToken
		}
		if err := log.Init(&c.Log); err != nil {
			return err
		}
		conf.Watch(v, nil)

		_, cleanup, err := trace.InitTracerProvider(cmd.Context(), c.Trace)
		if err != nil {
			log.Warnw("tracing disabled", "error", err)
		} else {
			traceCleanup = cleanup
		}
		appConf = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		traceCleanup()
		_ = log.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configFile, "config", "c", "", "config file path, e.g. -c conf.d/config.toml")
	flags.StringVar(&apiURL, "api", "", "backend API base url, overrides api.baseurl")
	flags.StringVar(&apiToken, "token", "", "bearer token, overrides api.token")
	flags.StringVarP(&output, "output", "o", formatYAML, "output format: yaml or json")

	rootCmd.AddCommand(
		workerModelCmd,
		integrationCmd,
		groupCmd,
		mockAPICmd,
		version.VersionCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
