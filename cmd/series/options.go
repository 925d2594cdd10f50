package main

import (
	"fmt"

	"series-go/internal/app"
	"series-go/internal/output"

	"github.com/spf13/cobra"
)

var optionCmd = &cobra.Command{
	Use:   "option",
	Short: "Manage options",
}

var optionAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Define an option",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		def, _ := cmd.Flags().GetString("default")
		file, _ := cmd.Flags().GetString("file")

		return withApp("CreateOption", args, func(a *app.SeriesApp) error {
			opt, err := a.CreateOption(args[0], kind, def, file)
			if err != nil {
				return err
			}
			fmt.Printf("Option %s (%s) created\n", opt.Name, opt.Kind)
			return nil
		})
	},
}

var optionRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete an option and its value in every case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		return withApp("DeleteOption", args, func(a *app.SeriesApp) error {
			if err := a.DeleteOption(args[0], force); err != nil {
				return err
			}
			fmt.Printf("Option %s deleted\n", args[0])
			return nil
		})
	},
}

var optionRenameCmd = &cobra.Command{
	Use:   "rename NAME NEWNAME",
	Short: "Rename a case option",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("RenameOption", args, func(a *app.SeriesApp) error {
			if err := a.RenameOption(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Option %s renamed to %s (placeholders in templates are unchanged)\n", args[0], args[1])
			return nil
		})
	},
}

var optionDefaultCmd = &cobra.Command{
	Use:   "default NAME VALUE",
	Short: "Change the default value of an option",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("SetOptionDefault", args, func(a *app.SeriesApp) error {
			if err := a.SetOptionDefault(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Default of %s set to %q\n", args[0], args[1])
			return nil
		})
	},
}

var optionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List options",
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds, _ := cmd.Flags().GetStringSlice("kind")

		return withApp("ListOptions", args, func(a *app.SeriesApp) error {
			opts, err := a.ListOptions(kinds...)
			if err != nil {
				return err
			}
			if len(opts) == 0 {
				fmt.Println("No options defined.")
				return nil
			}
			fmt.Println(output.RenderOptions(opts))
			return nil
		})
	},
}

var optionFileAddCmd = &cobra.Command{
	Use:   "file-add OPTION FILE",
	Short: "Apply an option to another file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("AddFileToOption", args, func(a *app.SeriesApp) error {
			if err := a.AddFileToOption(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Option %s applies to %s\n", args[0], args[1])
			return nil
		})
	},
}

var optionFileRmCmd = &cobra.Command{
	Use:   "file-rm OPTION FILE",
	Short: "Stop applying an option to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("RemoveFileFromOption", args, func(a *app.SeriesApp) error {
			if err := a.RemoveFileFromOption(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Option %s no longer applies to %s\n", args[0], args[1])
			return nil
		})
	},
}
