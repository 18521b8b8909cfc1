package postgres

//nolint:revive
import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"lodge/config"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	driverName         = "postgres"
	maxIdleConnections = 10
	maxOpenConnections = 10
	connMaxLifetime    = 30 * time.Minute
)

// Connection holds the primary pool for writes and the replica pool for reads. Both point at the
// same server when no replica is configured.
type Connection struct {
	Read  *sqlx.DB
	Write *sqlx.DB
}

// Endpoint is one Postgres server as configured under DB_POSTGRES_READ or DB_POSTGRES_WRITE.
type Endpoint struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	SSLMode  string
}

var errNotConnected = errors.New("database connection is not established")

func New(config *config.Config) *Connection {
	pg := config.DB.Postgres
	read, write := pg.Read, pg.Write

	return &Connection{
		Read: Connect(config, "read", Endpoint{
			Host: read.Host, Port: read.Port, Username: read.Username, Password: read.Password,
			Name: DatabaseName(config, read.Name), SSLMode: read.SSLMode,
		}),
		Write: Connect(config, "write", Endpoint{
			Host: write.Host, Port: write.Port, Username: write.Username, Password: write.Password,
			Name: DatabaseName(config, write.Name), SSLMode: write.SSLMode,
		}),
	}
}

// DatabaseName applies the optional DB_POSTGRES_PREFIX, used to isolate test databases.
func DatabaseName(config *config.Config, name string) string {
	return config.DB.Postgres.Prefix + name
}

// DSN renders the endpoint as a postgres:// URL with escaped credentials.
func (e Endpoint) DSN() string {
	query := url.Values{}
	if e.SSLMode != "" {
		query.Set("sslmode", e.SSLMode)
	}

	dsn := url.URL{
		Scheme:   driverName,
		User:     url.UserPassword(e.Username, e.Password),
		Host:     net.JoinHostPort(e.Host, e.Port),
		Path:     e.Name,
		RawQuery: query.Encode(),
	}

	return dsn.String()
}

// Connect retries up to DB_POSTGRES_MAX_RETRY times, waiting DB_POSTGRES_RETRY_WAIT_TIME seconds
// between attempts. It returns nil when every attempt fails.
func Connect(config *config.Config, role string, endpoint Endpoint) *sqlx.DB {
	wait := time.Duration(config.DB.Postgres.RetryWaitTime) * time.Second
	attempts := max(1, config.DB.Postgres.MaxRetry)

	logger := log.With().Str("role", role).Str("host", endpoint.Host).Str("port", endpoint.Port).Str("db", endpoint.Name).Logger()

	for attempt := 1; attempt <= attempts; attempt++ {
		db, err := sqlx.Connect(driverName, endpoint.DSN())
		if err == nil {
			db.SetMaxIdleConns(maxIdleConnections)
			db.SetMaxOpenConns(maxOpenConnections)
			db.SetConnMaxLifetime(connMaxLifetime)

			logger.Info().Msg("Connected to database")

			return db
		}

		logger.Error().Err(err).Int("attempt", attempt).Msg("Failed connecting to database")

		if attempt < attempts {
			time.Sleep(wait)
		}
	}

	logger.Error().Int("attempts", attempts).Msg("Giving up connecting to database")

	return nil
}

// Ping checks both pools for the health endpoint.
func (c *Connection) Ping(ctx context.Context) error {
	if c == nil || c.Read == nil || c.Write == nil {
		return errNotConnected
	}

	if err := c.Write.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping write database: %w", err)
	}

	if err := c.Read.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping read database: %w", err)
	}

	return nil
}
