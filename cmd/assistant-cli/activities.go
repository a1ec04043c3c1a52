package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"bitsa-assistant/internal/workers"
	"bitsa-assistant/pkg/registry"
)

func newActivitiesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "activities",
		Aliases: []string{"registry"},
		Short:   "Inspect and export the Zeebe activity registry",
	}
	cmd.AddCommand(newActivitiesListCmd(a), newActivitiesValidateCmd(a), newActivitiesExportCmd(a))
	return cmd
}

func (a *app) activityRegistry() (*registry.ActivityRegistry, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	v := cfg.App.Version
	if v == "" {
		v = version
	}
	return workers.Registry(cfg, v)
}

func newActivitiesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List the task types served by the worker manager",
		RunE: func(cmd *cobra.Command, args []string) error {
			type row struct {
				TaskType string   `json:"taskType" yaml:"taskType"`
				Name     string   `json:"name" yaml:"name"`
				Category string   `json:"category" yaml:"category"`
				Fetch    []string `json:"fetchVariables" yaml:"fetchVariables"`
			}
			var rows []row
			for _, d := range workers.Definitions() {
				rows = append(rows, row{TaskType: d.TaskType, Name: d.DisplayName, Category: d.Category, Fetch: d.FetchVariables})
			}
			return a.print(cmd.OutOrStdout(), rows)
		},
	}
}

func newActivitiesValidateCmd(a *app) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an exported registry file, or the built-in one",
		RunE: func(cmd *cobra.Command, args []string) error {
			var reg *registry.ActivityRegistry
			var err error
			if file != "" {
				reg, err = registry.LoadRegistry(file)
			} else {
				reg, err = a.activityRegistry()
			}
			if err != nil {
				return err
			}

			if errs := registry.Validate(reg); len(errs) > 0 {
				for _, e := range errs {
					fmt.Fprintln(cmd.ErrOrStderr(), "  -", e)
				}
				return fmt.Errorf("registry has %d problem(s): %w", len(errs), errors.Join(errs...))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d activities OK\n", len(reg.Activities))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "registry JSON file to validate")
	return cmd
}

func newActivitiesExportCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the activity registry for process modelers",
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := a.activityRegistry()
			if err != nil {
				return err
			}
			if errs := registry.Validate(reg); len(errs) > 0 {
				return errors.Join(errs...)
			}
			if out == "" {
				return a.print(cmd.OutOrStdout(), reg)
			}
			if err := registry.SaveRegistry(reg, out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d activities to %s\n", len(reg.Activities), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "write JSON to this path instead of stdout")
	return cmd
}
