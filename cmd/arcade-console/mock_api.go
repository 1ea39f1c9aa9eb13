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
	"net"
	"time"

	"github.com/go-arcade/console/internal/console/mockapi"
	"github.com/go-arcade/console/internal/console/session"
	"github.com/go-arcade/console/pkg/metrics"
	"github.com/go-arcade/console/pkg/pprof"
	"github.com/spf13/cobra"
)

var (
	mockListen   string
	mockTokenTTL time.Duration
)

var mockAPICmd = &cobra.Command{
	Use:   "mock-api",
	Short: "Serve an in-memory backend API with demo data",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cc := appConf.Console
		if mockListen == "" {
			mockListen = cc.MockListen
		}
		secret := []byte(cc.MockSecret)

		store := mockapi.NewStore(cc.SharedGroup)
		mockapi.Seed(store)

		out := cmd.OutOrStdout()
		for _, u := range store.Users() {
			token, err := session.GenToken(u, secret, mockTokenTTL)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s\t%s\n", u.Username, token)
		}

		ln, err := net.Listen("tcp", mockListen)
		if err != nil {
			return err
		}
		profiler := pprof.NewServer(appConf.Pprof)
		if err := profiler.Start(); err != nil {
			return err
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = profiler.Stop(ctx)
		}()

		rt := mockapi.NewRouter(store, secret, metrics.NewServer(appConf.Metrics))
		return rt.Serve(cmd.Context(), ln)
	},
}

func init() {
	mockAPICmd.Flags().StringVar(&mockListen, "listen", "", "listen address, overrides console.mocklisten")
	mockAPICmd.Flags().DurationVar(&mockTokenTTL, "token-ttl", 24*time.Hour, "lifetime of the printed user tokens")
}
