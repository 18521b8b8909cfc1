package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Config is read from the environment, optionally seeded from a .env file in the working
// directory. Nested structs prefix their variables, so Server.Shutdown.GracePeriodSeconds is
// SERVER_SHUTDOWN_GRACE_PERIOD_SECONDS.
type Config struct {
	Server struct {
		Env      string `envconfig:"ENV"       default:"development"`
		LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
		Host     string `envconfig:"HOST"`
		Port     string `envconfig:"PORT"      default:"8080"`
		Shutdown struct {
			GracePeriodSeconds   int64 `envconfig:"GRACE_PERIOD_SECONDS"   default:"10"`
			CleanupPeriodSeconds int64 `envconfig:"CLEANUP_PERIOD_SECONDS" default:"10"`
		} `envconfig:"SHUTDOWN"`
	} `envconfig:"SERVER"`

	App struct {
		Name     string `envconfig:"NAME"     default:"lodge"`
		Timezone string `envconfig:"TIMEZONE" default:"UTC"`
		APIKey   string `envconfig:"API_KEY"`
		CORS     struct {
			Enable           bool     `envconfig:"ENABLE"`
			AllowCredentials bool     `envconfig:"ALLOW_CREDENTIALS"`
			AllowedOrigins   []string `envconfig:"ALLOWED_ORIGINS"`
			AllowedMethods   []string `envconfig:"ALLOWED_METHODS"   default:"GET,POST,PUT,PATCH,DELETE,OPTIONS"`
			AllowedHeaders   []string `envconfig:"ALLOWED_HEADERS"   default:"Authorization,Content-Type,X-API-Key"`
			MaxAgeSeconds    int      `envconfig:"MAX_AGE_SECONDS"   default:"300"`
		} `envconfig:"CORS"`
		RateLimiter struct {
			Enable        bool `envconfig:"ENABLE"`
			MaxRequests   int  `envconfig:"MAX_REQUESTS"   default:"120"`
			WindowSeconds int  `envconfig:"WINDOW_SECONDS" default:"60"`
		} `envconfig:"RATE_LIMITER"`
	} `envconfig:"APP"`

	Booking struct {
		ReferencePrefix  string `envconfig:"REFERENCE_PREFIX"    default:"PKG"`
		AllowPastCheckIn bool   `envconfig:"ALLOW_PAST_CHECK_IN"`
	} `envconfig:"BOOKING"`

	Cache struct {
		TTL   int `envconfig:"TTL" default:"300"`
		Redis struct {
			Primary struct {
				Host     string `envconfig:"HOST" default:"localhost"`
				Port     string `envconfig:"PORT" default:"6379"`
				Password string `envconfig:"PASSWORD"`
				DB       int    `envconfig:"DB"`
			} `envconfig:"PRIMARY"`
		} `envconfig:"REDIS"`
	} `envconfig:"CACHE"`

	JWT struct {
		AccessSecret string `envconfig:"ACCESS_SECRET"`
	} `envconfig:"JWT"`

	DB struct {
		Postgres struct {
			MaxRetry       int      `envconfig:"MAX_RETRY"       default:"5"`
			RetryWaitTime  int      `envconfig:"RETRY_WAIT_TIME" default:"3"`
			MigrationTable string   `envconfig:"MIGRATION_TABLE" default:"schema_migrations"`
			AutoMigrate    bool     `envconfig:"AUTO_MIGRATE"`
			Prefix         string   `envconfig:"PREFIX"`
			Read           Postgres `envconfig:"READ"`
			Write          Postgres `envconfig:"WRITE"`
		} `envconfig:"POSTGRES"`
	} `envconfig:"DB"`

	Kafka struct {
		Enable  bool     `envconfig:"ENABLE"`
		Brokers []string `envconfig:"BROKERS"`
		SASL    struct {
			Username string `envconfig:"USERNAME"`
			Password string `envconfig:"PASSWORD"`
		} `envconfig:"SASL"`
		Topics struct {
			Booking string `envconfig:"BOOKING" default:"package-bookings"`
		} `envconfig:"TOPICS"`
	} `envconfig:"KAFKA"`

	External struct {
		Otel struct {
			Endpoint string `envconfig:"ENDPOINT"`
		} `envconfig:"OTEL"`
		S3 struct {
			APIEndpoint     string `envconfig:"API_ENDPOINT"`
			AccessKeyID     string `envconfig:"ACCESS_KEY_ID"`
			SecretAccessKey string `envconfig:"SECRET_ACCESS_KEY"`
			BucketName      string `envconfig:"BUCKET_NAME"`
			PublicDomain    string `envconfig:"PUBLIC_DOMAIN"`
		} `envconfig:"S3"`
	} `envconfig:"EXTERNAL"`
}

// Postgres is one server of the read/write pair.
type Postgres struct {
	Host     string `envconfig:"HOST"     default:"localhost"`
	Port     string `envconfig:"PORT"     default:"5432"`
	Username string `envconfig:"USER"`
	Password string `envconfig:"PASSWORD"`
	Name     string `envconfig:"NAME"`
	SSLMode  string `envconfig:"SSL_MODE" default:"disable"`
}

var (
	errMissingSecret  = errors.New("JWT_ACCESS_SECRET is required")
	errMissingBrokers = errors.New("KAFKA_BROKERS is required when KAFKA_ENABLE is set")
	errInvalidLimiter = errors.New("APP_RATE_LIMITER_MAX_REQUESTS and APP_RATE_LIMITER_WINDOW_SECONDS must be positive")
)

var (
	conf        Config
	once        sync.Once
	initialized bool
)

// Load reads the environment into a fresh Config without touching the shared instance.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	return cfg, nil
}

// Validate reports settings that would only fail later, at request time.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.AccessSecret == "" {
		errs = append(errs, errMissingSecret)
	}

	if c.Kafka.Enable && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errMissingBrokers)
	}

	if c.App.RateLimiter.Enable && (c.App.RateLimiter.MaxRequests < 1 || c.App.RateLimiter.WindowSeconds < 1) {
		errs = append(errs, errInvalidLimiter)
	}

	return errors.Join(errs...)
}

// Init loads the shared Config once. Invalid settings are logged, not fatal, so tooling such as
// the migrator can run with a partial environment.
func Init() error {
	var err error

	once.Do(func() {
		if envErr := godotenv.Load(".env"); envErr != nil {
			log.Debug().Err(envErr).Msg("No .env file loaded, using the process environment")
		}

		var cfg *Config

		cfg, err = Load()
		if err != nil {
			return
		}

		if invalid := cfg.Validate(); invalid != nil {
			log.Warn().Err(invalid).Msg("Service configuration is incomplete")
		}

		conf = *cfg
		initialized = true

		log.Info().Str("env", conf.Server.Env).Msg("Service configuration initialized")
	})

	return err
}

func Get() *Config {
	if !initialized {
		if err := Init(); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize configuration")
		}
	}

	return &conf
}
