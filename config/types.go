package config

import "time"

// Config mirrors config.yaml. Every key can be overridden from the
// environment as KLINIK_<SECTION>_<KEY>.
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	RateLimit      RateLimitConfig      `mapstructure:"rate_limit"`
	Database       DatabaseConfig       `mapstructure:"database"`
	CasbinDatabase DatabaseConfig       `mapstructure:"casbin_database"`
	Redis          RedisConfig          `mapstructure:"redis"`
	Nats           NatsConfig           `mapstructure:"nats"`
	Authentication AuthenticationConfig `mapstructure:"authentication"`
	Authorization  AuthorizationConfig  `mapstructure:"authorization"`
	Scheduling     SchedulingConfig     `mapstructure:"scheduling"`
	Patients       PatientsConfig       `mapstructure:"patients"`
	Observability  ObservabilityConfig  `mapstructure:"observability"`
	Logging        LoggingConfig        `mapstructure:"logging"`
}

// HTTP

type (
	ServerConfig struct {
		Port           int    `mapstructure:"port"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
		Environment    string `mapstructure:"environment"`
		Domain         string `mapstructure:"domain"`
		// Databases lists the database names `system init` creates.
		Databases []string   `mapstructure:"databases"`
		CORS      CORSConfig `mapstructure:"cors"`
	}

	CORSConfig struct {
		Enabled          bool     `mapstructure:"enabled"`
		AllowOrigins     []string `mapstructure:"allow_origins"`
		AllowMethods     []string `mapstructure:"allow_methods"`
		AllowHeaders     []string `mapstructure:"allow_headers"`
		ExposeHeaders    []string `mapstructure:"expose_headers"`
		AllowCredentials bool     `mapstructure:"allow_credentials"`
		MaxAgeSeconds    int      `mapstructure:"max_age_seconds"`
	}

	RateLimitConfig struct {
		Enabled           bool `mapstructure:"enabled"`
		RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	}
)

// Timeout applies to both reads and writes; zero disables it.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// Storage and messaging

type (
	DatabaseConfig struct {
		Host     string `mapstructure:"host"`
		Port     int    `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		DBName   string `mapstructure:"dbname"`
		SSLMode  string `mapstructure:"sslmode"`

		Pool struct {
			MaxOpenConns       int `mapstructure:"max_open_conns"`
			MaxIdleConns       int `mapstructure:"max_idle_conns"`
			ConnMaxLifetimeMin int `mapstructure:"conn_max_lifetime_minutes"`
		} `mapstructure:"pool"`

		Migrations struct {
			AutoMigrate bool `mapstructure:"auto_migrate"`
			// SafeMode refuses down migrations.
			SafeMode bool `mapstructure:"safe_mode"`
		} `mapstructure:"migrations"`

		Logging struct {
			Enabled              bool `mapstructure:"enabled"`
			SlowQueryThresholdMs int  `mapstructure:"slow_query_threshold_ms"`
		} `mapstructure:"logging"`
	}

	RedisConfig struct {
		Addr                string `mapstructure:"addr"`
		DB                  int    `mapstructure:"db"`
		Username            string `mapstructure:"username"`
		Password            string `mapstructure:"password"`
		PoolSize            int    `mapstructure:"pool_size"`
		MinIdleConns        int    `mapstructure:"min_idle_conns"`
		DialTimeoutSeconds  int    `mapstructure:"dial_timeout_seconds"`
		ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
		WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	}

	NatsConfig struct {
		URL  string `mapstructure:"url"`
		Name string `mapstructure:"name"`
	}
)

// Identity and access

type (
	AuthenticationConfig struct {
		Paseto PasetoConfig `mapstructure:"paseto"`
		// SessionCheck rejects tokens whose sid has no session:<sid> key in redis.
		SessionCheck bool `mapstructure:"session_check"`
		// EncryptionKey is 64 hex chars (AES-256) for patient national ids.
		EncryptionKey string `mapstructure:"encryption_key"`
	}

	PasetoConfig struct {
		Mode             string `mapstructure:"mode"` // local or public
		LocalKeyHex      string `mapstructure:"local_key_hex"`
		SecretKeyHex     string `mapstructure:"secret_key_hex"`
		PublicKeyHex     string `mapstructure:"public_key_hex"`
		Issuer           string `mapstructure:"issuer"`
		Audience         string `mapstructure:"audience"`
		AccessTTLMinutes int    `mapstructure:"access_ttl_minutes"`
	}

	AuthorizationConfig struct {
		CasbinModelPath    string `mapstructure:"casbin_model_path"`
		EnableAudit        bool   `mapstructure:"enable_audit"`
		SuperadminBypass   bool   `mapstructure:"superadmin_bypass"`
		PolicySyncEnabled  bool   `mapstructure:"policy_sync_enabled"`
		HealthCheckEnabled bool   `mapstructure:"health_check_enabled"`
	}
)

// Domain

type (
	SchedulingConfig struct {
		// DefaultTimezone is used for clinics without their own timezone.
		DefaultTimezone string `mapstructure:"default_timezone"`
		CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds"`
	}

	PatientsConfig struct {
		DefaultPhoneRegion string `mapstructure:"default_phone_region"`
	}
)

// Telemetry

type (
	ObservabilityConfig struct {
		Enabled        bool   `mapstructure:"enabled"`
		ServiceName    string `mapstructure:"service_name"`
		ServiceVersion string `mapstructure:"service_version"`

		Tracing struct {
			Enabled      bool    `mapstructure:"enabled"`
			OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
			OTLPInsecure bool    `mapstructure:"otlp_insecure"`
			SamplingRate float64 `mapstructure:"sampling_rate"`
		} `mapstructure:"tracing"`

		Metrics struct {
			Enabled bool   `mapstructure:"enabled"`
			Path    string `mapstructure:"path"`
		} `mapstructure:"metrics"`
	}

	LoggingConfig struct {
		Level  string       `mapstructure:"level"`  // debug, info, warn, error
		Format string       `mapstructure:"format"` // text or json
		Output OutputConfig `mapstructure:"output"`
	}

	OutputConfig struct {
		Stdout bool `mapstructure:"stdout"`
		File   struct {
			Enabled    bool   `mapstructure:"enabled"`
			Path       string `mapstructure:"path"`
			MaxSizeMB  int    `mapstructure:"max_size_mb"`
			MaxBackups int    `mapstructure:"max_backups"`
			MaxAgeDays int    `mapstructure:"max_age_days"`
			Compress   bool   `mapstructure:"compress"`
		} `mapstructure:"file"`
		Loki LokiConfig `mapstructure:"loki"`
	}

	LokiConfig struct {
		Enabled  bool   `mapstructure:"enabled"`
		Endpoint string `mapstructure:"endpoint"`
		TenantID string `mapstructure:"tenant_id"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
	}
)
