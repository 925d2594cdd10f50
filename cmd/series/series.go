package main

import (
	"fmt"

	"series-go/internal/app"
	"series-go/internal/config"
	"series-go/internal/output"
	"series-go/internal/series"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init NAME",
	Short: "Initialize a series in the current directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := app.InitSeries(defaults["config_path"], args[0])
		if err != nil {
			return fmt.Errorf("failed to initialize series: %w", err)
		}

		fmt.Printf("Series %s initialized at %s\n", cfg.Name, defaults["config_path"])
		fmt.Printf("Root Dir: %s\n", cfg.RootDir)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Name:       %s\n", cfg.Name)
		fmt.Printf("Root Dir:   %s\n", cfg.RootDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Database:   %s %s\n", cfg.Database.Type, cfg.Database.Path)
		fmt.Printf("Build Mode: %s\n", cfg.Build.Mode)
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		return withApp("GetHistory", args, func(a *app.SeriesApp) error {
			ops, err := a.GetHistory(limit)
			if err != nil {
				return err
			}
			if len(ops) == 0 {
				fmt.Println("No operations recorded.")
				return nil
			}
			fmt.Println(output.RenderOperations(ops))
			return nil
		})
	},
}

var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the series database",
}

var dbBackupCmd = &cobra.Command{
	Use:   "backup PATH",
	Short: "Write a snapshot of the database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("BackupDatabase", args, func(a *app.SeriesApp) error {
			if err := a.BackupDatabase(args[0]); err != nil {
				return err
			}
			fmt.Printf("Database written to %s\n", args[0])
			return nil
		})
	},
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all cases, options and files of the series",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		if !force {
			return fmt.Errorf("reset requires --force: %w", series.ErrValidation)
		}

		return withApp("Reset", args, func(a *app.SeriesApp) error {
			if err := a.Reset(force); err != nil {
				return err
			}
			fmt.Println("Series reset.")
			return nil
		})
	},
}
