package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/t3hmun/t3hmun-walk/internal/walk"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)
	assert.Equal(t, "text", cfg.Format)
	assert.Equal(t, 0, cfg.MaxConcurrency)
	assert.Equal(t, walk.LogLevelWarn, cfg.LogLevel())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "t3walk.yaml")
	content := `
format: json
max-concurrency: 8
where:
  skip-dir: [node_modules, .git]
  suffix: [.keep]
watch:
  debounce: 750ms
`
	require.NoError(t, os.WriteFile(cfgFile, []byte(content), 0644))

	v := viper.New()
	used, err := Setup(v, cfgFile)
	require.NoError(t, err)
	assert.Equal(t, cfgFile, used)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, 8, cfg.MaxConcurrency)
	assert.Equal(t, []string{"node_modules", ".git"}, cfg.Where.SkipDir)
	assert.Equal(t, []string{".keep"}, cfg.Where.Suffix)
	assert.Equal(t, 750*time.Millisecond, cfg.Watch.Debounce)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("T3WALK_FORMAT", "yaml")
	t.Setenv("T3WALK_MAX_CONCURRENCY", "4")
	t.Setenv("T3WALK_WATCH_DEBOUNCE", "2s")
	t.Setenv("T3WALK_WHERE_EXT", "go, md")

	v := viper.New()
	v.SetDefault("format", "text")
	v.SetDefault("max-concurrency", 0)
	v.SetDefault("watch.debounce", "200ms")
	v.SetDefault("where.ext", []string{})
	_, err := Setup(v, filepath.Join(t.TempDir(), "none.yaml"))
	require.Error(t, err, "an explicit config file must exist")

	v = viper.New()
	v.SetDefault("format", "text")
	v.SetDefault("max-concurrency", 0)
	v.SetDefault("watch.debounce", "200ms")
	v.SetDefault("where.ext", []string{})
	t.Setenv("HOME", t.TempDir())
	_, err = Setup(v, "")
	require.NoError(t, err)

	cfg, err := Load(v)
	require.NoError(t, err)
	assert.Equal(t, "yaml", cfg.Format)
	assert.Equal(t, 4, cfg.MaxConcurrency)
	assert.Equal(t, 2*time.Second, cfg.Watch.Debounce)

	opts, err := cfg.Where.FilterOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "md"}, opts.Exts)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"valid", Config{Format: "text"}, ""},
		{"bad format", Config{Format: "xml"}, "invalid format"},
		{"negative concurrency", Config{Format: "json", MaxConcurrency: -1}, "invalid max-concurrency"},
		{"verbose and silent", Config{Format: "yaml", Verbose: true, Silent: true}, "mutually exclusive"},
		{"negative debounce", Config{Format: "text", Watch: WatchConfig{Debounce: -time.Second}}, "invalid watch debounce"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tc.wantErr)
		})
	}
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, walk.LogLevelDebug, Config{Verbose: true}.LogLevel())
	assert.Equal(t, walk.LogLevelError, Config{Silent: true}.LogLevel())
	assert.Equal(t, walk.LogLevelWarn, Config{}.LogLevel())
}

func TestFilterOptions(t *testing.T) {
	opts, err := WhereConfig{
		SkipDir: []string{" folderAA ", ""},
		Regex:   `\.keep$`,
	}.FilterOptions()
	require.NoError(t, err)
	assert.Equal(t, []string{"folderAA"}, opts.SkipDirs)
	require.NotNil(t, opts.Regex)
	assert.True(t, opts.Regex.MatchString("a1.keep"))

	_, err = WhereConfig{Regex: "("}.FilterOptions()
	assert.ErrorContains(t, err, "invalid regex pattern")
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadDotEnv(filepath.Join(dir, "missing.env")))

	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("T3WALK_DOTENV_PROBE=from-file\n"), 0644))
	t.Setenv("T3WALK_DOTENV_PROBE", "")
	require.NoError(t, os.Unsetenv("T3WALK_DOTENV_PROBE"))

	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "from-file", os.Getenv("T3WALK_DOTENV_PROBE"))

	t.Setenv("T3WALK_DOTENV_PROBE", "from-env")
	require.NoError(t, LoadDotEnv(envFile))
	assert.Equal(t, "from-env", os.Getenv("T3WALK_DOTENV_PROBE"), "existing variables win")
}
