package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:          "shorthand",
		Short:        "shorthand",
		SilenceUsage: true,
		Long:         `CLI tool for matching shorthand template patterns against free-text input.`,
	}

	templatesDir  string
	finalMatchRaw bool
	verbose       bool

	logger = logrus.New()
)

// Execute executes the root command.
func Execute() error {
	rootCmd.PersistentFlags().StringVarP(&templatesDir, "templates-dir", "d", ".", "directory to scan for *.shorthand template files")
	rootCmd.PersistentFlags().BoolVar(&finalMatchRaw, "final-match-raw", false, "make the template's terminal variable capture raw, unnormalised input")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() {
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		}
	})
}
