package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Alijeyrad/klinik_backend/pkg/constants"
)

var GlobalConf *Config

func ReadConfig(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(constants.ConfigName)
	v.SetConfigType(constants.ConfigFormat)
	v.AddConfigPath(configPath)

	setDefaults(v)

	// Allow env vars to override config values.
	// e.g. KLINIK_DATABASE_HOST overrides database.host
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the config file (optional in Docker environments)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
		if os.Getenv(constants.EnvPrefix+"_DATABASE_HOST") == "" {
			return nil, fmt.Errorf("config file not found in %q and %s_DATABASE_HOST is not set", configPath, constants.EnvPrefix)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

func MustReadConfig(path string) *Config {
	config, err := ReadConfig(path)
	if err != nil {
		panic(err)
	}

	GlobalConf = config

	return config
}

// setDefaults registers every key viper should know about, so env-only
// deployments still unmarshal into the full struct.
func setDefaults(v *viper.Viper) {
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "klinik")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.pool.max_open_conns", 25)

	v.SetDefault("casbin_database.host", "")
	v.SetDefault("casbin_database.port", 5432)
	v.SetDefault("casbin_database.user", "postgres")
	v.SetDefault("casbin_database.password", "")
	v.SetDefault("casbin_database.dbname", "klinik_casbin")
	v.SetDefault("casbin_database.sslmode", "disable")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("nats.name", constants.AppName)

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout_seconds", 30)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.databases", []string{"klinik", "klinik_casbin"})

	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.requests_per_minute", 120)

	v.SetDefault("authentication.session_check", false)
	v.SetDefault("authentication.paseto.mode", "local")
	v.SetDefault("authentication.paseto.issuer", constants.AppName)
	v.SetDefault("authentication.paseto.audience", constants.AppName)
	v.SetDefault("authentication.paseto.access_ttl_minutes", 15)

	v.SetDefault("authorization.casbin_model_path", "casbin_model.conf")
	v.SetDefault("authorization.enable_audit", true)

	v.SetDefault("scheduling.default_timezone", "Europe/Istanbul")
	v.SetDefault("scheduling.cache_ttl_seconds", 60)
	v.SetDefault("patients.default_phone_region", "TR")

	v.SetDefault("observability.service_name", "klinik_backend")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output.stdout", true)
}
