// Command migrate applies the SQL files under migrations/ to the postgres
// database named by the environment.
//
//	migrate up
//	migrate down [N]
//	migrate force V
//	migrate version
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"stockstalk/internal/config"
	"stockstalk/internal/database"
	"stockstalk/internal/logger"
)

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	dir := flag.String("path", "migrations", "directory holding the .sql migrations")
	flag.Parse()

	if err := run(*dir, flag.Args()); err != nil {
		logger.Get().Fatalw("migrate failed", "error", err)
	}
}

func run(dir string, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: migrate [-path dir] up | down [N] | force V | version")
	}
	cmd := args[0]
	if _, ok := commands[cmd]; !ok {
		return fmt.Errorf("unknown command %q", cmd)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if cfg.DBDriver != "postgres" {
		return fmt.Errorf("versioned migrations need DB_DRIVER=postgres, got %q", cfg.DBDriver)
	}

	m, err := migrate.New("file://"+dir, database.NewConfig(cfg).MigrateURL())
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			logger.Get().Warnw("migrate close", "source", srcErr, "database", dbErr)
		}
	}()

	return commands[cmd](m, args[1:])
}

var commands = map[string]func(*migrate.Migrate, []string) error{
	"up": func(m *migrate.Migrate, _ []string) error {
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("up: %w", err)
		}
		logger.Get().Info("schema is up to date")
		return nil
	},
	"down": func(m *migrate.Migrate, args []string) error {
		steps, err := stepCount(args)
		if err != nil {
			return err
		}
		if err := m.Steps(-steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("down: %w", err)
		}
		logger.Get().Infow("rolled back", "steps", steps)
		return nil
	},
	"force": func(m *migrate.Migrate, args []string) error {
		if len(args) != 1 {
			return errors.New("force needs a version")
		}
		v, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("bad version %q", args[0])
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("force: %w", err)
		}
		logger.Get().Infow("forced version", "version", v)
		return nil
	},
	"version": func(m *migrate.Migrate, _ []string) error {
		v, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			logger.Get().Info("no migrations applied")
			return nil
		}
		if err != nil {
			return fmt.Errorf("version: %w", err)
		}
		logger.Get().Infow("current version", "version", v, "dirty", dirty)
		return nil
	},
}

// stepCount reads the optional N of "down N". It defaults to one step.
func stepCount(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, fmt.Errorf("bad step count %q", args[0])
	}
	return n, nil
}
