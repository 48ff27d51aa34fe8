package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/Nazarious-ucu/listings-footer/internal/repository/sqlite/migrations"

	_ "modernc.org/sqlite"
)

const gooseDialect = "sqlite3"

func CreateSqliteDb(ctx context.Context, dialect, name string) (*sql.DB, error) {
	if name == "" {
		return nil, errors.New("database name cannot be empty")
	}
	connectionString := "file:" + name + "?cache=shared&mode=rwc"
	db, err := sql.Open(dialect, connectionString)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// gooseLogger routes goose output through zerolog.
type gooseLogger struct {
	log zerolog.Logger
}

func (g gooseLogger) Printf(format string, v ...interface{}) {
	g.log.Info().Msgf(strings.TrimSuffix(format, "\n"), v...)
}

func (g gooseLogger) Fatalf(format string, v ...interface{}) {
	g.log.Fatal().Msgf(strings.TrimSuffix(format, "\n"), v...)
}

// Migrate applies the embedded goose migrations.
func Migrate(ctx context.Context, db *sql.DB, logger zerolog.Logger) error {
	goose.SetBaseFS(migrations.FS)
	defer goose.SetBaseFS(nil)
	goose.SetLogger(gooseLogger{log: logger.With().Str("component", "goose").Logger()})

	if err := goose.SetDialect(gooseDialect); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}
