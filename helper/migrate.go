package helper

//nolint:revive
import (
	"errors"
	"fmt"
	"net/url"
	"slices"

	"lodge/config"
	"lodge/infras/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/rs/zerolog/log"
)

const migrationsSource = "file://migrations/postgres"

const (
	ActionUp     = "up"
	ActionDown   = "down"
	ActionStepUp = "step-up"
	ActionDrop   = "drop"
)

type action struct {
	run  func(mig *migrate.Migrate) error
	done string
}

var actions = map[string]action{
	ActionUp:     {run: (*migrate.Migrate).Up, done: "Database migrations applied"},
	ActionDown:   {run: func(mig *migrate.Migrate) error { return mig.Steps(-1) }, done: "Last database migration rolled back"},
	ActionStepUp: {run: func(mig *migrate.Migrate) error { return mig.Steps(1) }, done: "Next database migration applied"},
	ActionDrop:   {run: (*migrate.Migrate).Down, done: "All database migrations rolled back"},
}

var errUnknownAction = errors.New("unknown migration action")

// Actions lists the accepted migration actions in a stable order.
func Actions() []string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// databaseURL points golang-migrate at the write database and its bookkeeping table.
func databaseURL(config *config.Config) string {
	write := config.DB.Postgres.Write

	dsn, _ := url.Parse(postgres.Endpoint{
		Host:     write.Host,
		Port:     write.Port,
		Username: write.Username,
		Password: write.Password,
		Name:     postgres.DatabaseName(config, write.Name),
		SSLMode:  write.SSLMode,
	}.DSN())

	if table := config.DB.Postgres.MigrationTable; table != "" {
		query := dsn.Query()
		query.Set("x-migrations-table", table)
		dsn.RawQuery = query.Encode()
	}

	return dsn.String()
}

// Runner applies one action to the migrations under migrations/postgres. Nothing to do is not
// an error.
func Runner(config *config.Config, name string) error {
	act, ok := actions[name]
	if !ok {
		return fmt.Errorf("%w: %s", errUnknownAction, name)
	}

	mig, err := migrate.New(migrationsSource, databaseURL(config))
	if err != nil {
		return fmt.Errorf("error creating migrate instance: %w", err)
	}
	defer mig.Close()

	if err = act.run(mig); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migration %s: %w", name, err)
	}

	log.Info().Str("action", name).Msg(act.done)

	return nil
}

func Up(config *config.Config) error {
	return Runner(config, ActionUp)
}
