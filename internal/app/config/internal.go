package config

import (
	"errors"
	"fmt"
	"patient-directory-service/internal/pkg/constvars"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type InternalConfig struct {
	App         App            `mapstructure:"app"`
	Store       AppStore       `mapstructure:"store"`
	JWT         AppJWT         `mapstructure:"jwt"`
	Session     AppSession     `mapstructure:"session"`
	Lock        AppLock        `mapstructure:"lock"`
	Minio       AppMinio       `mapstructure:"minio"`
	RabbitMQ    AppRabbitMQ    `mapstructure:"rabbitmq"`
	Appointment AppAppointment `mapstructure:"appointment"`
	Resync      AppResync      `mapstructure:"resync"`
}

type App struct {
	Env                        string   `mapstructure:"env"`
	Port                       string   `mapstructure:"port"`
	Version                    string   `mapstructure:"version"`
	Address                    string   `mapstructure:"address"`
	EndpointPrefix             string   `mapstructure:"endpoint_prefix"`
	InstanceID                 string   `mapstructure:"instance_id"`
	CORSOrigins                []string `mapstructure:"cors_origins"`
	MaxRequests                int      `mapstructure:"max_requests"`
	MaxTimeRequestsPerSeconds  int      `mapstructure:"max_time_requests_per_seconds"`
	RequestBodyLimitInMegabyte int      `mapstructure:"request_body_limit_in_megabyte"`
	ShutdownTimeoutInSeconds   int      `mapstructure:"shutdown_timeout_in_seconds"`
	StoreTimeoutInSeconds      int      `mapstructure:"store_timeout_in_seconds"`
	SearchDebounceMs           int      `mapstructure:"search_debounce_ms"`
	HardDeleteEnabled          bool     `mapstructure:"hard_delete_enabled"`
	PhotoMaxUploadSizeInMB     int      `mapstructure:"photo_max_upload_size_in_mb"`
	WorkspaceIdleTimeoutInMin  int      `mapstructure:"workspace_idle_timeout_in_minutes"`
}

type AppStore struct {
	// Driver selects the patient record store: mongodb, firestore or memory.
	Driver string `mapstructure:"driver"`
}

type AppJWT struct {
	Secret        string `mapstructure:"secret"`
	ExpTimeInHour int    `mapstructure:"exp_time_in_hour"`
}

type AppSession struct {
	ExpiredTimeInHours int `mapstructure:"expired_time_in_hours"`
}

type AppLock struct {
	TTLInSeconds            int `mapstructure:"ttl_in_seconds"`
	RetryIntervalInMillisec int `mapstructure:"retry_interval_in_millisec"`
}

type AppMinio struct {
	// Enabled false keeps photos inline as data URIs.
	Enabled       bool   `mapstructure:"enabled"`
	BucketName    string `mapstructure:"bucket_name"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type AppRabbitMQ struct {
	Enabled  bool   `mapstructure:"enabled"`
	Exchange string `mapstructure:"exchange"`
}

type AppAppointment struct {
	// Source is mongodb or http.
	Source  string `mapstructure:"source"`
	MatchBy string `mapstructure:"match_by"`
	// BaseURL of the scheduling service when Source is http.
	BaseURL              string `mapstructure:"base_url"`
	HTTPTimeoutInSeconds int    `mapstructure:"http_timeout_in_seconds"`
	HTTPRetryCount       int    `mapstructure:"http_retry_count"`
}

type AppResync struct {
	Enabled  bool   `mapstructure:"enabled"`
	CronSpec string `mapstructure:"cron_spec"`
}

func setInternalDefaults(v *viper.Viper) {
	v.SetDefault("app.env", constvars.EnvironmentDevelopment)
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.version", "v1")
	v.SetDefault("app.address", "0.0.0.0")
	v.SetDefault("app.endpoint_prefix", "api")
	v.SetDefault("app.instance_id", "")
	v.SetDefault("app.cors_origins", []string{"*"})
	v.SetDefault("app.max_requests", 100)
	v.SetDefault("app.max_time_requests_per_seconds", 60)
	v.SetDefault("app.request_body_limit_in_megabyte", 6)
	v.SetDefault("app.shutdown_timeout_in_seconds", 10)
	v.SetDefault("app.store_timeout_in_seconds", 10)
	v.SetDefault("app.search_debounce_ms", 200)
	v.SetDefault("app.hard_delete_enabled", false)
	v.SetDefault("app.photo_max_upload_size_in_mb", 2)
	v.SetDefault("app.workspace_idle_timeout_in_minutes", 60)
	v.SetDefault("store.driver", constvars.StoreDriverMongoDB)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.exp_time_in_hour", 12)
	v.SetDefault("session.expired_time_in_hours", 12)
	v.SetDefault("lock.ttl_in_seconds", 30)
	v.SetDefault("lock.retry_interval_in_millisec", 50)
	v.SetDefault("minio.enabled", true)
	v.SetDefault("minio.bucket_name", "patient-photos")
	v.SetDefault("minio.public_base_url", "http://localhost:9000")
	v.SetDefault("rabbitmq.enabled", false)
	v.SetDefault("rabbitmq.exchange", constvars.DirectoryEventsExchange)
	v.SetDefault("appointment.source", constvars.AppointmentSourceMongoDB)
	v.SetDefault("appointment.match_by", constvars.AppointmentMatchByName)
	v.SetDefault("appointment.base_url", "")
	v.SetDefault("appointment.http_timeout_in_seconds", 5)
	v.SetDefault("appointment.http_retry_count", 2)
	v.SetDefault("resync.enabled", true)
	v.SetDefault("resync.cron_spec", "@every 5m")
}

// NewInternalConfig layers defaults, an optional config/app.yaml and the
// environment. APP_ENV overrides app.env, STORE_DRIVER overrides
// store.driver and so on.
func NewInternalConfig() (*InternalConfig, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("yaml")
	v.AddConfigPath("config")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setInternalDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := &InternalConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *InternalConfig) Validate() error {
	switch c.Store.Driver {
	case constvars.StoreDriverMongoDB, constvars.StoreDriverFirestore, constvars.StoreDriverMemory:
	default:
		return fmt.Errorf("store.driver must be mongodb, firestore or memory, got %q", c.Store.Driver)
	}

	switch c.Appointment.Source {
	case constvars.AppointmentSourceMongoDB:
	case constvars.AppointmentSourceHTTP:
		if c.Appointment.BaseURL == "" {
			return fmt.Errorf("appointment.base_url is required when appointment.source is http")
		}
	default:
		return fmt.Errorf("appointment.source must be mongodb or http, got %q", c.Appointment.Source)
	}

	if c.Appointment.MatchBy != constvars.AppointmentMatchByName && c.Appointment.MatchBy != constvars.AppointmentMatchByID {
		return fmt.Errorf("appointment.match_by must be name or id, got %q", c.Appointment.MatchBy)
	}

	if c.IsProduction() && c.JWT.Secret == "" {
		return fmt.Errorf("jwt.secret is required in production")
	}

	if c.App.StoreTimeoutInSeconds <= 0 {
		return fmt.Errorf("app.store_timeout_in_seconds must be positive")
	}
	return nil
}

func (c *InternalConfig) IsProduction() bool {
	return c.App.Env == constvars.EnvironmentProduction
}

func (c *InternalConfig) StoreTimeout() time.Duration {
	return time.Duration(c.App.StoreTimeoutInSeconds) * time.Second
}

func (c *InternalConfig) SearchDebounce() time.Duration {
	return time.Duration(c.App.SearchDebounceMs) * time.Millisecond
}

func (c *InternalConfig) PhotoMaxUploadSize() int64 {
	return int64(c.App.PhotoMaxUploadSizeInMB) << 20
}

func (c *InternalConfig) APIBasePath() string {
	return fmt.Sprintf("/%s/%s", strings.Trim(c.App.EndpointPrefix, "/"), strings.Trim(c.App.Version, "/"))
}
