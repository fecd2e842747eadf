package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type SiteConfig struct {
	Title     string `mapstructure:"title"`
	OutputDir string `mapstructure:"output_dir" validate:"required"`
	DocMarker string `mapstructure:"doc_marker" validate:"required"`
}

type SourceConfig struct {
	MainFile string   `mapstructure:"main_file" validate:"required,endswith=.ua"`
	Assembly string   `mapstructure:"assembly" validate:"required"`
	Exclude  []string `mapstructure:"exclude" validate:"dive,required"`
}

type ServeConfig struct {
	Addr  string `mapstructure:"addr" validate:"required,hostname_port"`
	Watch bool   `mapstructure:"watch"`
}

type Config struct {
	// Dir is the library directory the configuration was loaded for.
	Dir string `mapstructure:"-"`

	Site   SiteConfig   `mapstructure:"site"`
	Source SourceConfig `mapstructure:"source"`
	Serve  ServeConfig  `mapstructure:"serve"`
}

// Path resolves p against the library directory unless it is absolute.
func (c *Config) Path(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Dir, p)
}

// cacheBase returns the base cache directory for uiuadoc.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/uiuadoc as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "uiuadoc")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "uiuadoc")
	}
	return filepath.Join(os.TempDir(), "uiuadoc")
}

// DBPath returns the path to the DuckDB binding index.
func DBPath() string {
	return filepath.Join(cacheBase(), "index.db")
}

// CASDir returns the path to the content-addressable storage directory.
func CASDir() string {
	return filepath.Join(cacheBase(), "cas")
}

func newViper(dir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetConfigName("uiuadoc")
	v.SetConfigType("toml")

	v.AddConfigPath(dir)
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		v.AddConfigPath(filepath.Join(xdg, "uiuadoc"))
	} else if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "uiuadoc"))
	}

	v.SetDefault("site.title", "")
	v.SetDefault("site.output_dir", "doc-site")
	v.SetDefault("site.doc_marker", "# !doc")
	v.SetDefault("source.main_file", "lib.ua")
	v.SetDefault("source.assembly", filepath.Join(".uiua", "assembly.json.zst"))
	v.SetDefault("source.exclude", []string{"uiua-modules/**"})
	v.SetDefault("serve.addr", "127.0.0.1:8080")
	v.SetDefault("serve.watch", true)

	v.SetEnvPrefix("UIUADOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	return v, nil
}

// stringToPatternsHookFunc lets list settings be given as a comma separated
// string, as environment variables are.
func stringToPatternsHookFunc() mapstructure.DecodeHookFunc {
	return func(f, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf([]string{}) {
			return data, nil
		}
		var out []string
		for _, part := range strings.Split(data.(string), ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	}
}

// Load reads the configuration for the library in dir from uiuadoc.toml,
// the user config directory and UIUADOC_* environment variables.
func Load(dir string) (*Config, error) {
	v, err := newViper(dir)
	if err != nil {
		return nil, err
	}

	config := Config{Dir: dir}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToPatternsHookFunc(),
		Result:     &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.Site.Title == "" {
		config.Site.Title = filepath.Base(dir)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks required settings and the shape of paths and addresses.
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
