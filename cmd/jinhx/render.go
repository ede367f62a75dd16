package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pthm/jinhx"
)

func renderCmd(flags *globalFlags) *cobra.Command {
	var (
		out       string
		noCSS     bool
		noJS      bool
		strict    bool
		stateKey  string
		sensitive bool
	)

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render markup from a file or stdin",
		Long: `Render expands every component tag in the given markup and prints
the result. With no file, or "-", markup is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			markup, err := readInput(cmd.InOrStdin(), args)
			if err != nil {
				return err
			}

			var opts []jinhx.Option
			if cmd.Flags().Changed("strict") {
				opts = append(opts, jinhx.WithStrict(strict))
			}
			if noCSS {
				opts = append(opts, jinhx.WithInlineCSS(false))
			}
			if noJS {
				opts = append(opts, jinhx.WithInlineJS(false))
			}
			if stateKey != "" {
				opts = append(opts, jinhx.WithStateKey([]byte(stateKey), sensitive))
			}
			r, err := flags.renderer(opts...)
			if err != nil {
				return err
			}

			html, err := r.RenderString(cmd.Context(), markup)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			_, err = fmt.Fprintln(w, html)
			return err
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "", "write output to file")
	cmd.Flags().BoolVar(&noCSS, "no-inline-css", false, "do not inline collected CSS")
	cmd.Flags().BoolVar(&noJS, "no-inline-js", false, "do not inline collected JS")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on missing template keys")
	cmd.Flags().StringVar(&stateKey, "state-key", "", "key for the state template func")
	cmd.Flags().BoolVar(&sensitive, "sensitive", false, "encrypt state tokens instead of signing them")

	return cmd
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		return string(data), err
	}
	data, err := os.ReadFile(args[0])
	return string(data), err
}
