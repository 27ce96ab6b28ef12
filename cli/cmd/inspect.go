package cmd

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/dannyvk/shorthand"
	"github.com/dannyvk/shorthand/internal/matchdump"
)

var (
	inspectTemplateString string
	inspectTemplateFile   string

	inspectCmd = &cobra.Command{
		Use:   "inspect",
		Short: "Print the parsed token structure of a shorthand template",
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := loadInspectTemplateArg()
			if err != nil {
				return err
			}

			tmpl, terr := shorthand.NewTemplate(raw)
			if terr != nil {
				return terr
			}
			matchdump.DumpTemplate(tmpl)
			return nil
		},
	}
)

func loadInspectTemplateArg() (string, error) {
	switch {
	case inspectTemplateString != "" && inspectTemplateFile != "":
		return "", errors.New("specify only one of -t or -f")
	case inspectTemplateString != "":
		return inspectTemplateString, nil
	case inspectTemplateFile != "":
		buf, err := os.ReadFile(inspectTemplateFile)
		if err != nil {
			return "", err
		}
		return string(buf), nil
	default:
		return "", errors.New("need -t <template-string> or -f <template-file>")
	}
}

func init() {
	inspectCmd.Flags().StringVarP(&inspectTemplateString, "template", "t", "", "inline shorthand template")
	inspectCmd.Flags().StringVarP(&inspectTemplateFile, "file", "f", "", "path to a file containing a shorthand template")
	rootCmd.AddCommand(inspectCmd)
}
