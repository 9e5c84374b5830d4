package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with args against fresh flag and config state.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	viper.Reset()
	cfgFile = ""
	resetFlags(rootCmd)

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func demoFiles(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "test")
	require.NoError(t, makeDemoTree(&bytes.Buffer{}, root))
	return root
}

func TestRootListsEveryFile(t *testing.T) {
	root := demoFiles(t)

	stdout, stderr, err := execute(t, root, "--sort")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	assert.Len(t, lines, 15)
	assert.True(t, sort.StringsAreSorted(lines))
	assert.Contains(t, lines, filepath.Join(root, "folderA", "folderAA", "folderAAA", "aaa3.ignore"))
	assert.Contains(t, stderr, "15 files in 6 directories")
}

func TestWhereJSON(t *testing.T) {
	root := demoFiles(t)

	stdout, _, err := execute(t, "where", root, "--skip-dir=folderAA", "--suffix=.keep", "--format=json")
	require.NoError(t, err)

	var files []string
	require.NoError(t, json.Unmarshal([]byte(stdout), &files))
	assert.ElementsMatch(t, []string{
		filepath.Join(root, "folderA", "a1.keep"),
		filepath.Join(root, "folderB", "b2.keep"),
		filepath.Join(root, "folderB", "folderBB", "bb2.keep"),
	}, files)
}

func TestWhereTemplate(t *testing.T) {
	root := demoFiles(t)

	stdout, _, err := execute(t, "where", root, "--name=aaa1*", "--template={base}", "--silent")
	require.NoError(t, err)
	assert.Equal(t, "aaa1.keep\n", stdout)
}

func TestMissingRootFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")
	_, stderr, err := execute(t, missing)
	require.Error(t, err)
	assert.Contains(t, stderr, "walk failed")
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, t.TempDir(), "--format=xml")
	assert.ErrorContains(t, err, "invalid format")
}

func TestEnvironmentOverridesDefaults(t *testing.T) {
	root := demoFiles(t)
	t.Setenv("T3WALK_FORMAT", "yaml")

	stdout, _, err := execute(t, "where", root, "--ext=keep", "--skip-dir=folderA*,folderB")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", stdout)
}

func TestDemo(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "test")

	stdout, _, err := execute(t, "demo", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "list len: 15")
	assert.Contains(t, stdout, "list len: 3")
	assert.Contains(t, stdout, "list len: 6")
	assert.Contains(t, stdout, "Completed successfully.")

	// Re-running reuses the existing tree.
	stdout, _, err = execute(t, "demo", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "list len: 15")
}
