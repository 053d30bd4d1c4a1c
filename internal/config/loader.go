package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes environment variable overrides.
	EnvPrefix = "CCCONV"
	// ProjectConfigName is looked up next to compile_commands.json.
	ProjectConfigName = ".ccconv.yml"
)

// Loader provides configuration loading capabilities.
type Loader interface {
	// Candidates returns the config files tried, in priority order.
	Candidates() ([]string, error)

	// Load loads configuration from the first existing candidate and environment variables.
	// Priority: defaults → config file → environment variables (env wins)
	Load() (*Config, error)
}

// LoaderOptions controls where the loader looks for config files.
type LoaderOptions struct {
	// ConfigFile is an explicit config path. When set it is the only candidate and must exist.
	ConfigFile string
	// ProjectDir is the directory holding compile_commands.json.
	ProjectDir string
	// HomeDir overrides the user's home directory.
	HomeDir string
}

type loader struct {
	opts LoaderOptions
}

// NewLoader creates a new configuration loader.
func NewLoader(opts LoaderOptions) Loader {
	return &loader{opts: opts}
}

func (l *loader) Candidates() ([]string, error) {
	if l.opts.ConfigFile != "" {
		return []string{l.opts.ConfigFile}, nil
	}

	var candidates []string
	if l.opts.ProjectDir != "" {
		candidates = append(candidates, filepath.Join(l.opts.ProjectDir, ProjectConfigName))
	}

	home, err := resolveHome(l.opts.HomeDir)
	if err != nil {
		return nil, err
	}
	candidates = append(candidates, UserConfigPath(home))
	return candidates, nil
}

// resolve returns the first existing candidate, or "" when defaults should be used.
func (l *loader) resolve() (string, error) {
	candidates, err := l.Candidates()
	if err != nil {
		return "", err
	}

	for _, path := range candidates {
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("failed to stat config file %s: %w", path, err)
		}
	}

	if l.opts.ConfigFile != "" {
		return "", fmt.Errorf("%w: %s", ErrConfigNotFound, l.opts.ConfigFile)
	}
	return "", nil
}

// Load loads configuration with the following priority (highest to lowest):
// 1. Environment variables (CCCONV_*)
// 2. First existing candidate config file
// 3. Default values
func (l *loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Enable environment variable overrides
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	// Replace . with _ in env var names (e.g., CCCONV_BUILDER_ALE_NAME)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	bindEnvVars(v)

	setDefaults(v)

	path, err := l.resolve()
	if err != nil {
		return nil, err
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Source = path

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// bindEnvVars binds environment variables to config keys.
func bindEnvVars(v *viper.Viper) {
	v.BindEnv("enabled")
	v.BindEnv("compilers")
	v.BindEnv("skip_malformed")
	v.BindEnv("exclude")
	v.BindEnv("template_dir")

	for name := range Default().Builders {
		v.BindEnv("builder." + name + ".name")
		v.BindEnv("builder." + name + ".absolute")
	}
}

// setDefaults configures viper with default values.
func setDefaults(v *viper.Viper) {
	defaults := Default()

	v.SetDefault("enabled", defaults.Enabled)
	v.SetDefault("compilers", defaults.Compilers)
	v.SetDefault("skip_malformed", defaults.SkipMalformed)
	v.SetDefault("exclude", defaults.Exclude)
	v.SetDefault("template_dir", defaults.TemplateDir)

	for name, opts := range defaults.Builders {
		v.SetDefault("builder."+name+".name", opts.Name)
		v.SetDefault("builder."+name+".absolute", opts.Absolute)
	}
}

func resolveHome(home string) (string, error) {
	if home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return home, nil
}
