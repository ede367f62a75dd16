package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pthm/jinhx"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// globalFlags are shared by every command that builds a renderer.
type globalFlags struct {
	root    string
	config  string
	verbose bool
}

func main() {
	var flags globalFlags

	rootCmd := &cobra.Command{
		Use:   "jinhx",
		Short: "Render HTML from components and custom tags",
		Long: `jinhx renders HTML templates whose capitalized tags expand into
components, collecting each component's CSS and JS along the way.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.root, "root", "", "template root (detected when empty)")
	pf.StringVarP(&flags.config, "config", "c", "", "YAML config file")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "log resolution details")

	rootCmd.AddCommand(
		renderCmd(&flags),
		assetsCmd(&flags),
		rootDirCmd(&flags),
		serveCmd(&flags),
		generateCmd(),
		cleanCmd(),
		versionCmd(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

// loadSettings applies the config file and --root, in that order.
func (f *globalFlags) loadSettings() error {
	if f.config != "" {
		cfg, err := jinhx.LoadConfig(f.config)
		if err != nil {
			return err
		}
		cfg.Apply()
	}
	if f.root != "" {
		jinhx.SetRoot(f.root)
	}
	return nil
}

// renderer builds a renderer from the global flags plus opts.
func (f *globalFlags) renderer(opts ...jinhx.Option) (*jinhx.Renderer, error) {
	if err := f.loadSettings(); err != nil {
		return nil, err
	}
	return jinhx.NewRenderer(append([]jinhx.Option{jinhx.WithLogger(f.logger())}, opts...)...), nil
}

func (f *globalFlags) logger() *slog.Logger {
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
