// Package config loads treerest's runtime configuration the way
// dphaener-conduit's own config layer does: github.com/spf13/viper reading
// environment variables under one prefix, with an optional config file
// overlay, bound into a typed struct so the rest of the module never touches
// viper directly.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the typed projection of spec.md §6's configuration keys.
type Config struct {
	MongoURI    string `mapstructure:"mongo_uri"`
	MongoDB     string `mapstructure:"mongo_db"`
	MongoTable  string `mapstructure:"mongo_table"`
	MongoGridFS string `mapstructure:"mongo_gridfs"`

	JWTSecret string        `mapstructure:"jwt_secret"`
	TokenTTL  time.Duration `mapstructure:"token_ttl"`

	MailServer string   `mapstructure:"mail_server"`
	MailPort   int      `mapstructure:"mail_port"`
	MailSender string   `mapstructure:"mail_sender"`
	MailArgs   []string `mapstructure:"mail_args"`

	Debug              bool `mapstructure:"debug"`
	DebugNotifications bool `mapstructure:"debug_notifications"`

	ServerName          string `mapstructure:"server_name"`
	OAInfo              string `mapstructure:"oa_info"`
	OAServerDescription string `mapstructure:"oa_server_description"`

	ListenAddr string `mapstructure:"listen_addr"`
}

// EnvPrefix is the prefix every environment variable is read under, e.g.
// TREEREST_MONGO_URI.
const EnvPrefix = "TREEREST"

func defaults(v *viper.Viper) {
	v.SetDefault("mongo_db", "treerest")
	v.SetDefault("mongo_table", "nodes")
	v.SetDefault("token_ttl", 30*time.Minute)
	v.SetDefault("mail_port", 587)
	v.SetDefault("server_name", "treerest")
	v.SetDefault("listen_addr", ":8080")
}

// Load reads configuration from the environment (prefixed with EnvPrefix)
// and, if present, a config.yaml in one of searchPaths. Environment
// variables always take precedence over the file, matching viper's own
// merge order.
func Load(searchPaths ...string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	defaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}
	if len(searchPaths) == 0 {
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}

	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("config: %s_MONGO_URI is required", EnvPrefix)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: %s_JWT_SECRET is required", EnvPrefix)
	}
	return &cfg, nil
}
