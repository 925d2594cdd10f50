package main

import (
	"fmt"
	"strings"

	"series-go/internal/app"
	"series-go/internal/output"
	"series-go/internal/series"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build CASE",
	Short: "Materialize the templates of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auto, _ := cmd.Flags().GetBool("auto")
		force, _ := cmd.Flags().GetBool("force")

		return withApp("Build", args, func(a *app.SeriesApp) error {
			result, err := a.Build(args[0], auto, force)
			if err != nil {
				return err
			}
			fmt.Print(output.RenderBuild(result))
			return nil
		})
	},
}

var statusCmd = &cobra.Command{
	Use:   "status CASE",
	Short: "Show whether the artifacts of a case are up to date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("Status", args, func(a *app.SeriesApp) error {
			statuses, err := a.Status(args[0])
			if err != nil {
				return err
			}
			fmt.Println(output.RenderStatus(statuses))
			return nil
		})
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean CASE",
	Short: "Remove the built artifacts of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		return withApp("Clean", args, func(a *app.SeriesApp) error {
			removed, err := a.Clean(args[0], force)
			if err != nil {
				return err
			}
			if len(removed) == 0 {
				fmt.Println("Nothing to remove.")
				return nil
			}
			fmt.Printf("Removed %s\n", strings.Join(removed, ", "))
			return nil
		})
	},
}

var runCmd = &cobra.Command{
	Use:   "run CASE",
	Short: "Build a case and execute its run files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("run requires --force: %w", series.ErrValidation)
		}

		return withApp("Run", args, func(a *app.SeriesApp) error {
			result, err := a.Run(args[0])
			if err != nil {
				return err
			}
			fmt.Print(output.RenderBuild(result))
			return nil
		})
	},
}
