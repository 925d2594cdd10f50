package main

import (
	"errors"
	"fmt"
	"os"

	"series-go/internal/app"
	"series-go/internal/config"
	"series-go/internal/series"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, series.ErrAborted) {
			fmt.Fprintln(os.Stderr, "Abort.")
			return
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newApp reads the config and creates a SeriesApp. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "CreateCase", "Build").
func newApp(operation string, args []string) (*app.SeriesApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if root := defaults["root_dir"]; root != "" {
		cfg.RootDir = root
	}

	a, err := app.NewSeriesApp(cfg, operation, app.JoinArgs(args))
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// withApp runs fn against a new SeriesApp and closes it, reporting the
// first error of the two.
func withApp(operation string, args []string, fn func(a *app.SeriesApp) error) error {
	a, err := newApp(operation, args)
	if err != nil {
		return err
	}
	err = fn(a)
	if cerr := a.Close(); err == nil {
		err = cerr
	}
	return err
}

var rootCmd = &cobra.Command{
	Use:           "series",
	Short:         "Manage a series of cases built from templates",
	SilenceErrors: true,
	SilenceUsage:  true,
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(templateCmd)
	templateCmd.AddCommand(templateAddCmd)

	rootCmd.AddCommand(fileCmd)
	fileCmd.AddCommand(fileAddCmd)
	fileCmd.AddCommand(fileRmCmd)
	fileRmCmd.Flags().BoolP("force", "f", false, "Do not ask for confirmation")
	fileCmd.AddCommand(fileListCmd)

	rootCmd.AddCommand(optionCmd)
	optionCmd.AddCommand(optionAddCmd)
	optionAddCmd.Flags().StringP("kind", "k", "case", "Option kind: case, meta or series")
	optionAddCmd.Flags().StringP("default", "d", "", "Default value")
	optionAddCmd.Flags().String("file", "", "File the option applies to (required for case options)")
	optionCmd.AddCommand(optionRmCmd)
	optionRmCmd.Flags().BoolP("force", "f", false, "Do not ask for confirmation")
	optionCmd.AddCommand(optionRenameCmd)
	optionCmd.AddCommand(optionDefaultCmd)
	optionCmd.AddCommand(optionListCmd)
	optionListCmd.Flags().StringSliceP("kind", "k", nil, "Only list options of these kinds")
	optionCmd.AddCommand(optionFileAddCmd)
	optionCmd.AddCommand(optionFileRmCmd)

	rootCmd.AddCommand(caseCmd)
	caseCmd.AddCommand(caseAddCmd)
	caseAddCmd.Flags().StringP("copy", "c", "", "Branch the new case from an existing case")
	caseCmd.AddCommand(caseRmCmd)
	caseRmCmd.Flags().BoolP("force", "f", false, "Do not ask for confirmation")
	caseCmd.AddCommand(caseRenameCmd)
	caseCmd.AddCommand(caseListCmd)
	caseCmd.AddCommand(caseShowCmd)
	caseCmd.AddCommand(caseLogCmd)

	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(modifyCmd)
	rootCmd.AddCommand(unsetCmd)
	rootCmd.AddCommand(getCmd)

	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolP("auto", "a", false, "Keep up-to-date artifacts and rebuild stale ones without asking")
	buildCmd.Flags().BoolP("force", "f", false, "Replace existing artifacts without asking")
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().BoolP("force", "f", false, "Do not ask for confirmation")
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().Bool("force", false, "Confirm building and running the case")

	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
	rootCmd.AddCommand(dbCmd)
	dbCmd.AddCommand(dbBackupCmd)
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().Bool("force", false, "Confirm deleting all cases, options and files")
}
