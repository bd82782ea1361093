package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"eldtrip/backend/geo"
)

// Config is the runtime configuration for the backend. Values come from an
// optional YAML file plus ELD_-prefixed environment variables (env wins).
type Config struct {
	ListenAddr string `mapstructure:"listen_addr"`

	NominatimURL string `mapstructure:"nominatim_url"`
	UserAgent    string `mapstructure:"user_agent"`

	ORSURL    string `mapstructure:"ors_url"`
	ORSAPIKey string `mapstructure:"ors_api_key"`

	GeocodeTimeout time.Duration `mapstructure:"geocode_timeout"`
	RouteTimeout   time.Duration `mapstructure:"route_timeout"`

	DevLogging bool `mapstructure:"dev_logging"`
}

// Load reads configuration. path may be empty; a missing file is not an
// error, only an unreadable one.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("nominatim_url", geo.DefaultNominatimURL)
	v.SetDefault("user_agent", geo.DefaultUserAgent)
	v.SetDefault("ors_url", geo.DefaultORSURL)
	v.SetDefault("ors_api_key", "")
	v.SetDefault("geocode_timeout", 10*time.Second)
	v.SetDefault("route_timeout", 30*time.Second)
	v.SetDefault("dev_logging", false)

	v.SetEnvPrefix("ELD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("config: read %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
