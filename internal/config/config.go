// Package config provides configuration loading for ccconv.
//
// Configuration is YAML read through viper. Candidate files are tried in a
// fixed order and the first one that exists wins:
//
//  1. the file named by --config (it must exist when given)
//  2. .ccconv.yml next to compile_commands.json (project configuration)
//  3. ~/.config/ccconv/ccconv.yml (user configuration)
//
// When none exists the built-in defaults apply. Environment variables with the
// CCCONV_ prefix override file values (CCCONV_SKIP_MALFORMED,
// CCCONV_BUILDER_ALE_ABSOLUTE, ...). This layering is intentional: a project
// can pin its own settings while the user file supplies machine-wide ones.
package config

// Config represents the complete ccconv configuration for one run.
type Config struct {
	// Enabled lists the builders to run, in order.
	Enabled []string `yaml:"enabled" mapstructure:"enabled"`
	// Compilers is the allow-list of compiler identifiers, matched by suffix.
	Compilers []string `yaml:"compilers" mapstructure:"compilers"`
	// SkipMalformed skips records whose command has no -D flag instead of failing the run.
	SkipMalformed bool `yaml:"skip_malformed" mapstructure:"skip_malformed"`
	// Exclude holds glob patterns of source files to leave out.
	Exclude []string `yaml:"exclude" mapstructure:"exclude"`
	// TemplateDir optionally overrides the embedded templates.
	TemplateDir string `yaml:"template_dir" mapstructure:"template_dir"`
	// Builders holds per-builder options keyed by builder name.
	Builders map[string]BuilderOptions `yaml:"builder" mapstructure:"builder"`

	// Run settings supplied by the command line, never read from files.
	OutputDir string `yaml:"-" mapstructure:"-"`
	Verbose   bool   `yaml:"-" mapstructure:"-"`
	Quiet     bool   `yaml:"-" mapstructure:"-"`
	// Source is the config file that was loaded, empty for built-in defaults.
	Source string `yaml:"-" mapstructure:"-"`
}

// BuilderOptions configures one output builder.
type BuilderOptions struct {
	Name     string `yaml:"name" mapstructure:"name"`         // output file name inside the output directory
	Absolute bool   `yaml:"absolute" mapstructure:"absolute"` // emit absolute include paths
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Enabled:       []string{"ale", "cdt"},
		Compilers:     []string{"gcc", "g++"},
		SkipMalformed: false,
		Exclude:       []string{},
		TemplateDir:   "",
		Builders: map[string]BuilderOptions{
			"ale": {Name: ".lvimrc", Absolute: false},
			"cdt": {Name: "cdt.xml", Absolute: true},
		},
	}
}

// BuilderOptionsFor returns the options of the named builder.
func (c *Config) BuilderOptionsFor(name string) (BuilderOptions, bool) {
	opts, ok := c.Builders[name]
	return opts, ok
}
