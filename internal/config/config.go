// Package config defines the configuration types and defaults for makeparse.
package config

// Config is the top-level configuration.
type Config struct {
	Parser ParserConfig `yaml:"parser" toml:"parser"`
	Output OutputConfig `yaml:"output" toml:"output"`
}

// ParserConfig holds the parse options.
type ParserConfig struct {
	Strict         bool `yaml:"strict" toml:"strict"`
	Unhandled      bool `yaml:"unhandled" toml:"unhandled"`
	IgnoreIncludes bool `yaml:"ignore_includes" toml:"ignore_includes"`
}

// OutputConfig holds the rendering settings.
type OutputConfig struct {
	Format   string   `yaml:"format" toml:"format"`
	Indent   string   `yaml:"indent" toml:"indent"`
	Sections []string `yaml:"sections" toml:"sections"`
	MakeHelp bool     `yaml:"make_help" toml:"make_help"`
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format:   "json",
			Indent:   "  ",
			Sections: []string{"target", "variable"},
		},
	}
}
