package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/bryanwahyu/privacy-prism/internal/domain/failures"
	"github.com/bryanwahyu/privacy-prism/internal/infra/db/mysql"
	"github.com/bryanwahyu/privacy-prism/internal/infra/db/postgres"
)

// Journal is a failure repository that owns its connection.
type Journal interface {
	failures.Repository
	Close() error
}

type journal struct {
	failures.Repository
	db *sql.DB
}

func (j journal) Close() error { return j.db.Close() }

// OpenJournal connects to driver (mysql or postgres) and makes sure the
// journal table exists.
func OpenJournal(ctx context.Context, driver, dsn string) (Journal, error) {
	var (
		conn *sql.DB
		repo interface {
			failures.Repository
			EnsureSchema(ctx context.Context) error
		}
		err error
	)
	switch driver {
	case "mysql":
		if conn, err = mysql.Connect(ctx, dsn); err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		repo = mysql.NewFailureRepository(conn)
	case "postgres", "postgresql":
		if conn, err = postgres.Connect(ctx, dsn); err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		repo = postgres.NewFailureRepository(conn)
	default:
		return nil, fmt.Errorf("unsupported journal driver %q (allowed: mysql, postgres)", driver)
	}

	if err := repo.EnsureSchema(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}
	log.Info().Str("driver", driver).Msg("failure journal ready")
	return journal{Repository: repo, db: conn}, nil
}
