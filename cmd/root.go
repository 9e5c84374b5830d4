package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/t3hmun/t3hmun-walk/internal/config"
	"github.com/t3hmun/t3hmun-walk/internal/output"
	"github.com/t3hmun/t3hmun-walk/internal/walk"
)

var (
	cfgFile string
	version = "0.1.0"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "t3walk [path]",
	Short: "List every file below a directory",
	Long: `t3walk lists the files below a directory, exploring all subdirectories
concurrently. Without a path the current directory is walked.`,
	Version:       version,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		return runWalk(cmd, cfg, rootArg(args), nil, nil)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// An interrupt cancels the running walk or watch.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags, shared by every subcommand
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.t3walk.yaml)")
	pf.String("format", output.FormatText, "Output format (text|json|yaml)")
	pf.String("template", "", "Line template for text output ({}, {base}, {dir}, {ext})")
	pf.Bool("sort", false, "Sort the listing")
	pf.Int("max-concurrency", 0, "Maximum concurrent filesystem calls (0 = unlimited)")
	pf.Bool("progress", false, "Show progress updates on stderr")
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("silent", false, "Disable all output except errors")
}

// persistentFlags lists the root flags bound to config keys of the same name.
var persistentFlags = []string{"format", "template", "sort", "max-concurrency", "progress", "verbose", "silent"}

// initConfig reads in .env, the config file and ENV variables if set.
func initConfig() {
	// Bind flags to viper
	for _, name := range persistentFlags {
		viper.BindPFlag(name, rootCmd.PersistentFlags().Lookup(name))
	}

	if err := config.LoadDotEnv(".env"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	used, err := config.Setup(viper.GetViper(), cfgFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if used != "" && viper.GetBool("verbose") {
		fmt.Fprintln(os.Stderr, "Using config file:", used)
	}
}

func rootArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// newWalker builds a walker from cfg, reporting progress to the command's
// error stream when asked to.
func newWalker(cmd *cobra.Command, cfg config.Config) *walk.Walker {
	opts := walk.Options{
		LogLevel:       cfg.LogLevel(),
		MaxConcurrency: cfg.MaxConcurrency,
	}
	if cfg.Progress {
		errOut := cmd.ErrOrStderr()
		opts.Progress = func(stats walk.Stats) {
			output.Progress(errOut, stats)
		}
	}
	return walk.New(opts)
}

func runWalk(cmd *cobra.Command, cfg config.Config, root string, dirPred walk.DirPredicate, filePred walk.FilePredicate) error {
	w := newWalker(cmd, cfg)
	files, err := w.Where(commandContext(cmd), root, dirPred, filePred)
	if cfg.Progress {
		fmt.Fprintln(cmd.ErrOrStderr())
	}
	if err != nil {
		output.Failure(cmd.ErrOrStderr(), err, colorEnabled(cmd))
		return err
	}
	if err := printFiles(cmd, cfg, files); err != nil {
		return err
	}
	if !cfg.Silent && cfg.Format == output.FormatText {
		output.Summary(cmd.ErrOrStderr(), w.Stats(), colorEnabled(cmd))
	}
	return nil
}

func printFiles(cmd *cobra.Command, cfg config.Config, files []string) error {
	if cfg.Sort {
		sort.Strings(files)
	}
	return output.Write(cmd.OutOrStdout(), files, cfg.Format, cfg.Template)
}

// colorEnabled reports whether the error stream is a terminal.
func colorEnabled(cmd *cobra.Command) bool {
	f, ok := cmd.ErrOrStderr().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
