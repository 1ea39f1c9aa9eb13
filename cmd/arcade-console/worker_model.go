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
	"io"
	"os"
	"strings"

	"github.com/go-arcade/console/internal/console/controller/workermodel"
	"github.com/go-arcade/console/internal/console/model"
	"github.com/go-arcade/console/pkg/query"
	"github.com/spf13/cobra"
)

var workerModelCmd = &cobra.Command{
	Use:     "worker-model",
	Aliases: []string{"wm"},
	Short:   "Show, edit and delete worker models",
}

var (
	wmUsage       bool
	wmFilter      string
	wmType        string
	wmPatternType string
	wmFile        string
	wmGroup       string
	wmPattern     string
	wmDescription string
	wmImage       string
	wmFlavor      string
	wmShell       string
	wmCmd         string
	wmEnvs        []string
	wmUnsetEnvs   []string
)

func init() {
	showCmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Show a worker model",
		Args:  cobra.ExactArgs(1),
		RunE:  runShowWorkerModel,
	}
	showCmd.Flags().BoolVar(&wmUsage, "usage", false, "also list the pipelines using the model")

	createCmd := &cobra.Command{
		Use:   "create NAME",
		Short: "Create a worker model, optionally from a pattern",
		Args:  cobra.ExactArgs(1),
		RunE:  runCreateWorkerModel,
	}
	createCmd.Flags().StringVar(&wmGroup, "group", "", "owning group name")
	createCmd.Flags().StringVar(&wmType, "type", model.WorkerModelTypeDocker, "model type")
	createCmd.Flags().StringVar(&wmPattern, "pattern", "", "pattern used to prefill the commands")
	_ = createCmd.MarkFlagRequired("group")
	addEditFlags(createCmd)

	editCmd := &cobra.Command{
		Use:   "edit NAME",
		Short: "Edit the fields of a worker model",
		Args:  cobra.ExactArgs(1),
		RunE:  runEditWorkerModel,
	}
	addEditFlags(editCmd)
	editCmd.Flags().StringSliceVar(&wmUnsetEnvs, "unset-env", nil, "docker environment variable to remove")

	exportCmd := &cobra.Command{
		Use:   "export NAME",
		Short: "Print the as-code document of a worker model",
		Args:  cobra.ExactArgs(1),
		RunE:  runExportWorkerModel,
	}

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Create or replace a worker model from an as-code document",
		Args:  cobra.NoArgs,
		RunE:  runImportWorkerModel,
	}
	importCmd.Flags().StringVarP(&wmFile, "file", "f", "-", "document to import, - for stdin")

	deleteCmd := &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a worker model",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteWorkerModel,
	}

	usageCmd := &cobra.Command{
		Use:   "usage NAME",
		Short: "List the pipelines using a worker model",
		Args:  cobra.ExactArgs(1),
		RunE:  runWorkerModelUsage,
	}

	patternsCmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the worker model patterns",
		Args:  cobra.NoArgs,
		RunE:  runListPatterns,
	}
	patternsCmd.Flags().StringVar(&wmPatternType, "type", "", "only patterns of this type")
	patternsCmd.Flags().StringVar(&wmFilter, "filter", "", `filter expression, e.g. 'name startsWith "basic"'`)

	workerModelCmd.AddCommand(showCmd, createCmd, editCmd, exportCmd, importCmd, deleteCmd, usageCmd, patternsCmd)
}

func addEditFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&wmDescription, "description", "", "model description")
	f.StringVar(&wmImage, "image", "", "docker image or virtual machine image")
	f.StringVar(&wmFlavor, "flavor", "", "virtual machine flavor")
	f.StringVar(&wmShell, "shell", "", "docker shell")
	f.StringVar(&wmCmd, "cmd", "", "worker command")
	f.StringSliceVar(&wmEnvs, "env", nil, "docker environment variable as KEY=VALUE")
}

// withEditor opens the console, creates an editor on name and waits for it
// to load before calling fn.
func withEditor(cmd *cobra.Command, name string, fn func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error) error {
	app, cleanup, err := open(cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	ed := app.editor(ctx)
	defer ed.Close()
	if err := ed.Enter(name); err != nil {
		return err
	}
	if err := app.settle(ctx, ed); err != nil {
		return err
	}
	if v := ed.Snapshot(); v.Err != nil {
		return v.Err
	}
	return fn(ctx, app, ed)
}

// finish waits for the request started by the last editor call and returns
// the error it surfaced.
func finish(ctx context.Context, app *consoleApp, ed *workermodel.Controller) (workermodel.View, error) {
	if err := app.settle(ctx, ed); err != nil {
		return workermodel.View{}, err
	}
	v := ed.Snapshot()
	return v, v.Err
}

func runShowWorkerModel(cmd *cobra.Command, args []string) error {
	return withEditor(cmd, args[0], func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error {
		if wmUsage {
			if err := ed.LoadUsage(); err != nil {
				return err
			}
		}
		v, err := finish(ctx, app, ed)
		if err != nil {
			return err
		}
		out := map[string]any{"model": v.Model, "can_edit": v.CanEdit}
		if v.UsageLoaded {
			out["usage"] = v.Usages
		}
		return render(cmd.OutOrStdout(), out)
	})
}

func runCreateWorkerModel(cmd *cobra.Command, args []string) error {
	return withEditor(cmd, workermodel.AddName, func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error {
		v := ed.Snapshot()
		i := indexGroup(v.Groups, wmGroup)
		if i < 0 {
			return fmt.Errorf("%w: %s", model.ErrGroupNotFound, wmGroup)
		}
		if err := ed.SetName(args[0]); err != nil {
			return err
		}
		if err := ed.SetGroupID(v.Groups[i].ID); err != nil {
			return err
		}
		if err := ed.SetType(wmType); err != nil {
			return err
		}
		if wmPattern != "" {
			if err := ed.SelectPattern(wmPattern); err != nil {
				return err
			}
		}
		if err := applyEditFlags(ed); err != nil {
			return err
		}
		return save(ctx, cmd, app, ed)
	})
}

func runEditWorkerModel(cmd *cobra.Command, args []string) error {
	return withEditor(cmd, args[0], func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error {
		if err := applyEditFlags(ed); err != nil {
			return err
		}
		for _, name := range wmUnsetEnvs {
			if err := ed.DeleteEnv(name); err != nil {
				return err
			}
		}
		return save(ctx, cmd, app, ed)
	})
}

func save(ctx context.Context, cmd *cobra.Command, app *consoleApp, ed *workermodel.Controller) error {
	if err := ed.Save(); err != nil {
		return err
	}
	v, err := finish(ctx, app, ed)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), v.Model)
}

func applyEditFlags(ed *workermodel.Controller) error {
	err := ed.Edit(func(m *model.WorkerModel) {
		if wmDescription != "" {
			m.Description = wmDescription
		}
		if m.Type == model.WorkerModelTypeDocker {
			if wmImage != "" {
				m.ModelDocker.Image = wmImage
			}
			if wmShell != "" {
				m.ModelDocker.Shell = wmShell
			}
			if wmCmd != "" {
				m.ModelDocker.Cmd = wmCmd
			}
			return
		}
		if wmImage != "" {
			m.ModelVirtualMachine.Image = wmImage
		}
		if wmFlavor != "" {
			m.ModelVirtualMachine.Flavor = wmFlavor
		}
		if wmCmd != "" {
			m.ModelVirtualMachine.Cmd = wmCmd
		}
	})
	if err != nil {
		return err
	}
	for _, kv := range wmEnvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return fmt.Errorf("invalid --env %q, expected KEY=VALUE", kv)
		}
		if err := ed.AddEnv(k, v); err != nil {
			return err
		}
	}
	return nil
}

func indexGroup(groups []model.Group, name string) int {
	for i, g := range groups {
		if g.Name == name {
			return i
		}
	}
	return -1
}

func runExportWorkerModel(cmd *cobra.Command, args []string) error {
	return withEditor(cmd, args[0], func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error {
		if err := ed.LoadAsCode(); err != nil {
			return err
		}
		v, err := finish(ctx, app, ed)
		if err != nil {
			return err
		}
		_, err = io.WriteString(cmd.OutOrStdout(), v.AsCode)
		return err
	})
}

func runImportWorkerModel(cmd *cobra.Command, args []string) error {
	var (
		doc []byte
		err error
	)
	if wmFile == "-" {
		doc, err = io.ReadAll(cmd.InOrStdin())
	} else {
		doc, err = os.ReadFile(wmFile)
	}
	if err != nil {
		return err
	}

	return withEditor(cmd, workermodel.AddName, func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error {
		if err := ed.LoadAsCode(); err != nil {
			return err
		}
		if err := ed.SetAsCode(string(doc)); err != nil {
			return err
		}
		if err := ed.SaveAsCode(); err != nil {
			return err
		}
		v, err := finish(ctx, app, ed)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), v.Model)
	})
}

func runDeleteWorkerModel(cmd *cobra.Command, args []string) error {
	return withEditor(cmd, args[0], func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error {
		if err := ed.Delete(); err != nil {
			return err
		}
		_, err := finish(ctx, app, ed)
		return err
	})
}

func runWorkerModelUsage(cmd *cobra.Command, args []string) error {
	return withEditor(cmd, args[0], func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error {
		if err := ed.LoadUsage(); err != nil {
			return err
		}
		v, err := finish(ctx, app, ed)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), v.Usages)
	})
}

func runListPatterns(cmd *cobra.Command, args []string) error {
	return withEditor(cmd, workermodel.AddName, func(ctx context.Context, app *consoleApp, ed *workermodel.Controller) error {
		ed.FilterPatterns(wmPatternType)
		v := ed.Snapshot()
		patterns := v.FilteredPatterns
		if wmPatternType == "" {
			patterns = v.Patterns
		}
		patterns, err := query.Apply(patterns, wmFilter)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), patterns)
	})
}
