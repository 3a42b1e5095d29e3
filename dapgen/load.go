package dapgen

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/broady/dapgen/dapgen/fetch"
)

// ConfigName is the file name (without extension) searched for in the
// working directory when no explicit config path is given.
const ConfigName = "dapgen"

// SetDefaults registers every config key with its default. Keys must be
// known to viper for DAPGEN_* environment variables to reach Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("source", fetch.DefaultSource)
	v.SetDefault("out", ".")
	v.SetDefault("file", DefaultFileName)
	v.SetDefault("namespace", DefaultNamespace)
	v.SetDefault("header", DefaultHeader)
	v.SetDefault("omit_header", false)
	v.SetDefault("banner", DefaultBanner)
	v.SetDefault("manifest", false)
	v.SetDefault("manifest_file", DefaultManifestName)
	v.SetDefault("include_reverse_requests", false)
}

// LoadConfig reads configuration from path (TOML, YAML, or JSON by
// extension), then DAPGEN_* environment variables. With an empty path,
// ./dapgen.{toml,yaml,json} is used when present.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix("DAPGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file %s", path)
		}
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, errors.Wrap(err, "read config file")
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	return &cfg, nil
}
