package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/t3hmun/t3hmun-walk/internal/config"
	"github.com/t3hmun/t3hmun-walk/internal/walk"
)

var whereCmd = &cobra.Command{
	Use:   "where [path]",
	Short: "List the files below a directory that match filters",
	Long: `List the files below a directory that match filters.
Directories rejected by --skip-dir are pruned: they are never listed.
Dot files and directories are skipped unless --include-hidden is set.

Examples:
  t3walk where ./test --skip-dir=folderAA --suffix=.keep
  t3walk where . --ext=go --skip-dir=vendor,.git --sort
  t3walk where . --regex='_test\.go$' --format=json
  t3walk where . --name='*.md' --template='wc -l {""}'`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: bindFilterFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, dirPred, filePred, err := loadFiltered()
		if err != nil {
			return err
		}
		return runWalk(cmd, cfg, rootArg(args), dirPred, filePred)
	},
}

func init() {
	rootCmd.AddCommand(whereCmd)
	addFilterFlags(whereCmd.Flags())
}

// filterFlags maps each filter flag to its config key.
var filterFlags = map[string]string{
	"skip-dir":       "where.skip-dir",
	"name":           "where.name",
	"path":           "where.path",
	"ignore":         "where.ignore",
	"ext":            "where.ext",
	"suffix":         "where.suffix",
	"regex":          "where.regex",
	"include-hidden": "where.include-hidden",
}

func addFilterFlags(fs *pflag.FlagSet) {
	fs.StringSlice("skip-dir", nil, "Directory names to prune (globs, comma-separated)")
	fs.StringP("name", "n", "", "Match by file name (supports wildcards)")
	fs.StringP("path", "p", "", "Match by path (supports wildcards)")
	fs.String("ignore", "", "Skip paths matching this pattern")
	fs.StringSlice("ext", nil, "File extensions to keep (comma-separated)")
	fs.StringSlice("suffix", nil, "File name suffixes to keep (comma-separated)")
	fs.StringP("regex", "r", "", "Match by regular expression")
	fs.Bool("include-hidden", false, "Include hidden files and directories")
}

// bindFilterFlags binds the filter flags of the running command only, so
// where and watch can share config keys.
func bindFilterFlags(cmd *cobra.Command, _ []string) error {
	for name, key := range filterFlags {
		if err := viper.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
			return err
		}
	}
	return nil
}

func loadFiltered() (config.Config, walk.DirPredicate, walk.FilePredicate, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	opts, err := cfg.Where.FilterOptions()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	dirPred, filePred := opts.Predicates()
	return cfg, dirPred, filePred, nil
}
