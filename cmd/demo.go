package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/t3hmun/t3hmun-walk/internal/config"
)

// demoTree lists each scratch directory followed by the empty files it holds.
var demoTree = [][]string{
	{"."},
	{"folderA", "a1.keep", "a2", "a3.ignore"},
	{"folderB", "b1.ignore", "b2.keep", "b3"},
	{filepath.Join("folderB", "folderBB"), "bb1.ignore", "bb2.keep", "bb2"},
	{filepath.Join("folderA", "folderAA"), "aa1.ignore", "aa2.keep", "aa3"},
	{filepath.Join("folderA", "folderAA", "folderAAA"), "aaa1.keep", "aaa2", "aaa3.ignore"},
}

var demoCmd = &cobra.Command{
	Use:   "demo [dir]",
	Short: "Build a scratch tree and walk it three ways",
	Long: `Create a small tree of folders and empty files under dir (default ./test)
and print the results of three walks over it:

  1. every file
  2. .keep files only, pruning folderAA, through a non-normalized path
  3. everything except .ignore files, pruning folderAA, from an absolute path

The tree is left in place.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		dir := filepath.Join(".", "test")
		if len(args) > 0 {
			dir = args[0]
		}
		out := cmd.OutOrStdout()

		if err := makeDemoTree(out, dir); err != nil {
			return err
		}

		skipAA := func(d string) bool { return !strings.HasSuffix(d, "folderAA") }
		w := newWalker(cmd, cfg)

		fmt.Fprint(out, "\n\nAll:\n\n")
		var walkErr error
		w.WalkAll(dir, func(err error, files []string) {
			walkErr = report(cmd, cfg, err, files)
		})
		if walkErr != nil {
			return walkErr
		}

		fmt.Fprint(out, "\n\nFiltered with only .keep files and skipping folderAA:\n\n")
		detour := dir + string(filepath.Separator) + ".." + string(filepath.Separator) + filepath.Base(dir)
		w.WalkWhere(detour, skipAA, func(f string) bool { return strings.HasSuffix(f, ".keep") },
			func(err error, files []string) {
				walkErr = report(cmd, cfg, err, files)
			})
		if walkErr != nil {
			return walkErr
		}

		fmt.Fprint(out, "\n\nFiltered with keep all files except .ignore and skipping folderAA with resolved path:\n\n")
		abs, err := filepath.Abs(dir)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, abs)
		w.WalkWhere(abs, skipAA, func(f string) bool { return !strings.HasSuffix(f, ".ignore") },
			func(err error, files []string) {
				walkErr = report(cmd, cfg, err, files)
			})
		if walkErr != nil {
			return walkErr
		}

		fmt.Fprintln(out, "Completed successfully.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

// makeDemoTree creates the scratch tree. Entries that already exist are
// reused, so the demo can be run repeatedly.
func makeDemoTree(out io.Writer, root string) error {
	fmt.Fprint(out, "\nTest-setup:\n\n")
	for _, entry := range demoTree {
		dir := filepath.Join(root, entry[0])
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		for _, name := range entry[1:] {
			path := filepath.Join(dir, name)
			fmt.Fprintf(out, "making %s\n", path)
			f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
			if err != nil {
				return fmt.Errorf("creating %s: %w", path, err)
			}
			f.Close()
		}
	}
	return nil
}

func report(cmd *cobra.Command, cfg config.Config, err error, files []string) error {
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "list len: %d\n", len(files))
	return printFiles(cmd, cfg, files)
}
