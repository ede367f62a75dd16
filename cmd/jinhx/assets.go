package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func assetsCmd(flags *globalFlags) *cobra.Command {
	var (
		kind     string
		relative bool
	)

	cmd := &cobra.Command{
		Use:   "assets",
		Short: "List CSS and JS files under the template root",
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.renderer()
			if err != nil {
				return err
			}
			f := r.Finder()

			var files []string
			switch kind {
			case "css":
				files = f.CollectCSSFiles(relative)
			case "js":
				files = f.CollectJavaScriptFiles(relative)
			case "all":
				files = append(f.CollectCSSFiles(relative), f.CollectJavaScriptFiles(relative)...)
			default:
				return fmt.Errorf("unknown asset kind %q (want css, js or all)", kind)
			}

			w := cmd.OutOrStdout()
			for _, file := range files {
				fmt.Fprintln(w, file)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&kind, "kind", "k", "all", "asset kind: css, js or all")
	cmd.Flags().BoolVarP(&relative, "relative", "r", false, "print paths relative to the root")

	return cmd
}

func rootDirCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "root",
		Short: "Print the template root",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := flags.renderer()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), r.Root())
			return nil
		},
	}
}
