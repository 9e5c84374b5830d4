package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/t3hmun/t3hmun-walk/internal/output"
	"github.com/t3hmun/t3hmun-walk/internal/walk"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Print a fresh listing whenever the tree changes",
	Long: `Walk a directory, then watch every admitted directory for changes and
print the complete listing again once the tree has been quiet for the
debounce period. Accepts the same filters as where.

Examples:
  t3walk watch ./src --ext=go
  t3walk watch . --skip-dir=node_modules --debounce=1s --format=json`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if err := bindFilterFlags(cmd, args); err != nil {
			return err
		}
		return viper.BindPFlag("watch.debounce", cmd.Flags().Lookup("debounce"))
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dirPred, filePred, err := loadFiltered()
		if err != nil {
			return err
		}
		root := rootArg(args)

		if !cfg.Silent {
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s for changes...\n", root)
			fmt.Fprintln(cmd.ErrOrStderr(), "Press Ctrl+C to exit.")
		}

		w := newWalker(cmd, cfg)
		opts := walk.WatchOptions{
			DirPredicate:  dirPred,
			FilePredicate: filePred,
			Debounce:      cfg.Watch.Debounce,
		}
		return w.Watch(commandContext(cmd), root, opts, func(ctx context.Context, result walk.WatchResult) error {
			if result.Err != nil {
				output.Failure(cmd.ErrOrStderr(), result.Err, colorEnabled(cmd))
				return nil
			}
			if !cfg.Silent && result.Trigger != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "--- %s changed\n", result.Trigger)
			}
			return printFiles(cmd, cfg, result.Files)
		})
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
	addFilterFlags(watchCmd.Flags())
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "Quiet period before re-walking")
}
