package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/library/internal/entities"
)

// ErrUnsupportedURI is returned for database URIs with an unknown scheme.
var ErrUnsupportedURI = errors.New("unsupported database uri")

const (
	memoryDSN = "file::memory:?cache=shared"
	// Async audit writes share the file with request handlers
	sqliteParams = "_busy_timeout=5000&_journal_mode=WAL"
)

type Database struct {
	DB *gorm.DB
}

// NewDatabase connects to the database addressed by uri and creates the
// catalog tables.
func NewDatabase(uri string, level logger.LogLevel) (*Database, error) {
	dialector, err := Dialector(uri)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.AutoMigrate(&entities.Book{}, &entities.AuditEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	log.Info().Str("driver", dialector.Name()).Msg("database initialized")

	return &Database{DB: db}, nil
}

// Dialector maps a database URI onto a gorm dialector.
//
// Accepted forms are sqlite:///relative.db, sqlite:////abs/path.db,
// sqlite://:memory: and postgres[ql][+driver]://user:pass@host/db.
func Dialector(uri string) (gorm.Dialector, error) {
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedURI, uri)
	}
	scheme, _, _ = strings.Cut(strings.ToLower(scheme), "+")

	switch scheme {
	case "sqlite", "sqlite3":
		path, err := sqlitePath(rest)
		if err != nil {
			return nil, err
		}
		if path != memoryDSN {
			path = withQuery(path, sqliteParams)
		}
		return sqlite.Open(path), nil
	case "postgres", "postgresql":
		return postgres.Open("postgres://" + rest), nil
	default:
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedURI, scheme)
	}
}

func sqlitePath(rest string) (string, error) {
	if rest == ":memory:" || rest == "/:memory:" || rest == "" {
		return memoryDSN, nil
	}
	path, ok := strings.CutPrefix(rest, "/")
	if !ok || path == "" {
		return "", fmt.Errorf("%w: sqlite uri needs a path after sqlite:///", ErrUnsupportedURI)
	}
	return path, nil
}

// withQuery appends params to dsn, keeping any query the caller supplied.
func withQuery(dsn, params string) string {
	if strings.Contains(dsn, "?") {
		return dsn + "&" + params
	}
	return dsn + "?" + params
}

// Ping checks that the database answers within ctx.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
