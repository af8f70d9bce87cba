package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/user/serpent_analyzer_go/internal/logging"
	"github.com/user/serpent_analyzer_go/internal/settings"
)

var (
	settingsPath string
	verbosity    string
	development  bool

	cfg *settings.Settings
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the root command and reports the exit code. Buffered logs
// are flushed on every path; os.Exit itself skips deferred calls.
func run(args []string) int {
	root := newRootCommand()
	root.SetArgs(args)

	defer logging.Sync()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "serpent_analyzer",
		Short: "Parse and plot Serpent output files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if settingsPath != "" {
				cfg, err = settings.Load(settingsPath)
				if err != nil {
					return err
				}
			} else {
				cfg = settings.Default()
			}
			if verbosity != "" {
				cfg.Verbosity = verbosity
			}
			return logging.Init(cfg.Verbosity, development)
		},
	}
	root.PersistentFlags().StringVarP(&settingsPath, "settings", "s", "", "YAML settings file")
	root.PersistentFlags().StringVarP(&verbosity, "verbosity", "v", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&development, "dev", false, "console log encoding")

	root.AddCommand(newDepCommand(), newDetCommand(), newResCommand(), newReportCommand())
	return root
}
