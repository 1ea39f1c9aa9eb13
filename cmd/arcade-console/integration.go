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
	"strings"

	"github.com/go-arcade/console/pkg/query"
	"github.com/spf13/cobra"
)

var integrationCmd = &cobra.Command{
	Use:   "integration",
	Short: "Add integrations to a project",
}

var (
	integFilter string
	integModel  string
	integName   string
	integSet    []string
)

func init() {
	modelsCmd := &cobra.Command{
		Use:   "models PROJECT",
		Short: "List the integration models a project can add",
		Args:  cobra.ExactArgs(1),
		RunE:  runIntegrationModels,
	}
	modelsCmd.Flags().StringVar(&integFilter, "filter", "", `filter expression, e.g. 'storage == true'`)

	addCmd := &cobra.Command{
		Use:   "add PROJECT",
		Short: "Add an integration to a project",
		Args:  cobra.ExactArgs(1),
		RunE:  runAddIntegration,
	}
	addCmd.Flags().StringVar(&integModel, "model", "", "integration model name")
	addCmd.Flags().StringVar(&integName, "name", "", "integration name")
	addCmd.Flags().StringSliceVar(&integSet, "set", nil, "configuration value as KEY=VALUE")
	_ = addCmd.MarkFlagRequired("model")
	_ = addCmd.MarkFlagRequired("name")

	integrationCmd.AddCommand(modelsCmd, addCmd)
}

func runIntegrationModels(cmd *cobra.Command, args []string) error {
	app, cleanup, err := open(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	form := app.integrationForm(ctx, args[0])
	defer form.Close()
	if err := app.settle(ctx, form); err != nil {
		return err
	}
	v := form.Snapshot()
	if v.Err != nil {
		return v.Err
	}
	models, err := query.Apply(v.Models, integFilter)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), models)
}

func runAddIntegration(cmd *cobra.Command, args []string) error {
	app, cleanup, err := open(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	form := app.integrationForm(ctx, args[0])
	defer form.Close()
	if err := app.settle(ctx, form); err != nil {
		return err
	}
	if err := form.SelectModel(integModel); err != nil {
		return err
	}
	form.SetName(integName)
	for _, kv := range integSet {
		k, val, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --set %q, expected KEY=VALUE", kv)
		}
		form.SetConfigValue(k, val)
	}
	if err := form.Create(); err != nil {
		return err
	}
	if err := app.settle(ctx, form); err != nil {
		return err
	}
	v := form.Snapshot()
	if v.Err != nil {
		return v.Err
	}
	return render(cmd.OutOrStdout(), v.Created)
}
