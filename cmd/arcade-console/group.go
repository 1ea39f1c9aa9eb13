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
	"github.com/go-arcade/console/pkg/log"
	"github.com/go-arcade/console/pkg/query"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "List groups",
}

var (
	groupAll    bool
	groupFilter string
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the groups of the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			groups, err := app.catalog.GetGroups(cmd.Context(), !groupAll)
			if err != nil {
				return err
			}
			groups, err = query.Apply(groups, groupFilter)
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), groups)
		},
	}
	listCmd.Flags().BoolVar(&groupAll, "all", false, "list every group, not only those of the current user")
	listCmd.Flags().StringVar(&groupFilter, "filter", "", `filter expression, e.g. 'name != "shared.infra"'`)

	showCmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a group and its admins",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			g, err := app.catalog.GetGroupByName(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return render(cmd.OutOrStdout(), g)
		},
	}

	refreshCmd := &cobra.Command{
		Use:   "refresh-cache",
		Short: "Drop the cached patterns, types and integration models",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := open(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer cleanup()

			if err := app.catalog.Refresh(cmd.Context()); err != nil {
				return err
			}
			log.Infow("catalogue cache dropped")
			return nil
		},
	}

	groupCmd.AddCommand(listCmd, showCmd)
	rootCmd.AddCommand(refreshCmd)
}
