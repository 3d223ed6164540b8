package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	apperrors "github.com/workmate-dev/workmate/pkg/chat/errors"
)

const envPrefix = "WORKMATE"

// Load reads the configuration with the precedence defaults < file <
// environment. An explicit path must exist; the default location is
// optional. The returned config has defaults applied but is not validated.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Every key needs a default registered for AutomaticEnv to see it.
	bindDefaults(v, DefaultConfig())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, apperrors.New(apperrors.ErrCodeConfigInvalid,
				fmt.Sprintf("failed to read config file %s", path), err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(DefaultConfigDir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, apperrors.New(apperrors.ErrCodeConfigInvalid, "failed to read config file", err)
			}
			// No file is fine: defaults plus environment apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperrors.New(apperrors.ErrCodeConfigInvalid, "failed to parse config", err)
	}

	cfg.SetDefaults()
	return &cfg, nil
}

func bindDefaults(v *viper.Viper, def *Config) {
	for id, sc := range def.Services {
		prefix := "services." + id + "."
		v.SetDefault(prefix+"base_url", sc.BaseURL)
		v.SetDefault(prefix+"path", sc.Path)
		v.SetDefault(prefix+"method", sc.Method)
		v.SetDefault(prefix+"timeout", sc.Timeout)
	}
	v.SetDefault("database.driver", def.Database.Driver)
	v.SetDefault("database.dsn", def.Database.DSN)
	v.SetDefault("history.enabled", def.History.Enabled)
	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.file", def.Logging.File)
	v.SetDefault("notice_ttl", def.NoticeTTL)
}
