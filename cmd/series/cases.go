package main

import (
	"fmt"

	"series-go/internal/app"
	"series-go/internal/output"

	"github.com/spf13/cobra"
)

var caseCmd = &cobra.Command{
	Use:   "case",
	Short: "Manage cases",
}

var caseAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Create a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, _ := cmd.Flags().GetString("copy")

		params := args
		if from != "" {
			params = []string{args[0], "--copy", from}
		}

		return withApp("CreateCase", params, func(a *app.SeriesApp) error {
			id, err := a.CreateCase(args[0], from)
			if err != nil {
				return err
			}
			if from != "" {
				fmt.Printf("Case %s created from %s (version %d)\n", args[0], from, id)
			} else {
				fmt.Printf("Case %s created (version %d)\n", args[0], id)
			}
			return nil
		})
	},
}

var caseRmCmd = &cobra.Command{
	Use:   "rm NAME",
	Short: "Delete a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		return withApp("DeleteCase", args, func(a *app.SeriesApp) error {
			if err := a.DeleteCase(args[0], force); err != nil {
				return err
			}
			fmt.Printf("Case %s deleted\n", args[0])
			return nil
		})
	},
}

var caseRenameCmd = &cobra.Command{
	Use:   "rename NAME NEWNAME",
	Short: "Rename a case",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("RenameCase", args, func(a *app.SeriesApp) error {
			if err := a.RenameCase(args[0], args[1]); err != nil {
				return err
			}
			fmt.Printf("Case %s renamed to %s\n", args[0], args[1])
			return nil
		})
	},
}

var caseListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cases",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ListCases", args, func(a *app.SeriesApp) error {
			cases, err := a.ListCases()
			if err != nil {
				return err
			}
			if len(cases) == 0 {
				fmt.Println("No cases.")
				return nil
			}
			fmt.Println(output.RenderCases(cases))
			return nil
		})
	},
}

var caseShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show the option values of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ShowCase", args, func(a *app.SeriesApp) error {
			id, resolved, err := a.ShowCase(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("Case %s, version %d\n", output.StyleNoun.Render(args[0]), id)
			fmt.Println(output.RenderResolved(resolved))
			return nil
		})
	},
}

var caseLogCmd = &cobra.Command{
	Use:   "log NAME",
	Short: "Show the version history of a case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("CaseHistory", args, func(a *app.SeriesApp) error {
			versions, err := a.CaseHistory(args[0])
			if err != nil {
				return err
			}
			opts, err := a.ListOptions()
			if err != nil {
				return err
			}
			names := make(map[int64]string, len(opts))
			for _, o := range opts {
				names[o.Option.ID] = o.Option.Name
			}
			fmt.Println(output.RenderVersions(versions, names))
			return nil
		})
	},
}

var setCmd = &cobra.Command{
	Use:   "set CASE OPTION VALUE",
	Short: "Override an option for a case",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("SetOverride", args, func(a *app.SeriesApp) error {
			id, err := a.SetOption(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("%s=%s for case %s (version %d)\n", args[1], args[2], args[0], id)
			return nil
		})
	},
}

var modifyCmd = &cobra.Command{
	Use:   "modify CASE OPTION VALUE",
	Short: "Change the override of an option for a case",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("ModifyOverride", args, func(a *app.SeriesApp) error {
			id, err := a.ModifyOption(args[0], args[1], args[2])
			if err != nil {
				return err
			}
			fmt.Printf("%s=%s for case %s (version %d)\n", args[1], args[2], args[0], id)
			return nil
		})
	},
}

var unsetCmd = &cobra.Command{
	Use:   "unset CASE OPTION",
	Short: "Drop the override of an option for a case",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("UnsetOverride", args, func(a *app.SeriesApp) error {
			id, err := a.UnsetOption(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("%s unset for case %s (version %d)\n", args[1], args[0], id)
			return nil
		})
	},
}

var getCmd = &cobra.Command{
	Use:   "get CASE OPTION",
	Short: "Print the value of an option for a case",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp("GetOption", args, func(a *app.SeriesApp) error {
			value, err := a.GetOption(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Println(value)
			return nil
		})
	},
}
