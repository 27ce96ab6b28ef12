package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dannyvk/shorthand"
	"github.com/dannyvk/shorthand/config"
	"github.com/dannyvk/shorthand/templateset"
)

var (
	serveName = ""

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Load a template set from a directory and match input against a named template",
		RunE: func(cmd *cobra.Command, args []string) error {
			if serveName == "" {
				_ = cmd.Help()
				return errors.New("need -n <name>")
			}
			if len(args) == 0 {
				_ = cmd.Help()
				return errors.New("need <input...>")
			}

			dir := templatesDir
			opts := shorthand.Options{FinalMatchRaw: finalMatchRaw}
			if cfg, err := config.LoadConfig(dir); err == nil {
				if cfg.TemplatesDir != "" && !cmd.Flags().Changed("templates-dir") {
					dir = cfg.TemplatesDir
				}
				opts.FinalMatchRaw = opts.FinalMatchRaw || cfg.FinalMatchRaw
			}

			ts, err := templateset.LoadTemplateSet(os.DirFS(dir), opts, logger)
			if err != nil {
				return err
			}

			proc, ok := ts.Get(serveName)
			if !ok {
				return fmt.Errorf("no template named %q found in %s", serveName, dir)
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

func init() {
	serveCmd.Flags().StringVarP(&serveName, "name", "n", "", "name of the template to match against, within the loaded template set")
	rootCmd.AddCommand(serveCmd)
}
