package main

import (
	"github.com/spf13/cobra"

	"github.com/pthm/jinhx/lib/generator"
)

func generateCmd() *cobra.Command {
	var (
		dryRun     bool
		extensions []string
	)

	cmd := &cobra.Command{
		Use:   "generate [packages]",
		Short: "Generate component registration code",
		Long: `Generate writes ` + generator.OutputFile + ` into every package that
declares components, with a RegisterComponents function registering each
of them. Packages default to ./...`,
		Example: `  jinhx generate ./...
  jinhx generate ./components
  jinhx generate --dry-run ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(generator.Options{
				DryRun:     dryRun,
				Extensions: extensions,
				Out:        cmd.OutOrStdout(),
			})
			return gen.Generate(patterns(args)...)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be generated without writing files")
	cmd.Flags().StringSliceVar(&extensions, "ext", nil, "template extensions to look for (default .html,.jinja,.tmpl)")

	return cmd
}

func cleanCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "clean [packages]",
		Short: "Remove generated files",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen := generator.New(generator.Options{
				DryRun: dryRun,
				Out:    cmd.OutOrStdout(),
			})
			return gen.Clean(patterns(args)...)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be removed")

	return cmd
}

func patterns(args []string) []string {
	if len(args) == 0 {
		return []string{"./..."}
	}
	return args
}
