package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dannyvk/shorthand"
)

var (
	matchTemplateString string
	matchTemplateFile   string

	matchCmd = &cobra.Command{
		Use:   "match",
		Short: "Match a shorthand template against input, printing the bindings as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				_ = cmd.Help()
				return errors.New("need <input...>")
			}

			raw, err := loadTemplateArg()
			if err != nil {
				return err
			}

			proc, perr := shorthand.New(raw, shorthand.Options{FinalMatchRaw: finalMatchRaw}, logger)
			if perr != nil {
				return perr
			}

			input := strings.Join(args, " ")
			res, merr := proc.Match(input)
			if merr != nil {
				fmt.Fprintln(os.Stderr, merr.Error())
				return merr
			}

			out, err := yaml.Marshal(res.ToMap())
			if err != nil {
				return err
			}
			fmt.Print(string(out))
			return nil
		},
	}
)

func loadTemplateArg() (string, error) {
	switch {
	case matchTemplateString != "" && matchTemplateFile != "":
		return "", errors.New("specify only one of -t or -f")
	case matchTemplateString != "":
		return matchTemplateString, nil
	case matchTemplateFile != "":
		buf, err := os.ReadFile(matchTemplateFile)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	default:
		return "", errors.New("need -t <template-string> or -f <template-file>")
	}
}

func init() {
	matchCmd.Flags().StringVarP(&matchTemplateString, "template", "t", "", "inline shorthand template")
	matchCmd.Flags().StringVarP(&matchTemplateFile, "file", "f", "", "path to a file containing a shorthand template")
	rootCmd.AddCommand(matchCmd)
}
