package main

import (
	"fmt"

	"series-go/internal/app"
	"series-go/internal/output"

	"github.com/spf13/cobra"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Manage templates",
}

var templateAddCmd = &cobra.Command{
	Use:   "add PATH",
	Short: "Register a template file or directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("RegisterTemplate", args, func(a *app.SeriesApp) error {
			f, err := a.AddTemplate(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Template %s registered\n", f.Name)
			return nil
		})
	},
}

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage files inside template directories",
}

var fileAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Register a file found in a template directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("RegisterFile", args, func(a *app.SeriesApp) error {
			f, err := a.AddFile(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("File %s registered (id %d)\n", f.Name, f.ID)
			return nil
		})
	},
}

var fileRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Forget a file and remove it from all options",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		return withApp("RemoveFile", args, func(a *app.SeriesApp) error {
			if err := a.RemoveFile(args[0], force); err != nil {
				return err
			}
			fmt.Printf("File %s removed\n", args[0])
			return nil
		})
	},
}

var fileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered files",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ListFiles", args, func(a *app.SeriesApp) error {
			files, err := a.ListFiles()
			if err != nil {
				return err
			}
			if len(files) == 0 {
				fmt.Println("No files registered.")
				return nil
			}
			fmt.Println(output.RenderFiles(files))
			return nil
		})
	},
}
