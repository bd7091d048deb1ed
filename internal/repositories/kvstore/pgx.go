package kvstore

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/insta-profile-viewer/internal/repositories"
	apperrors "github.com/orgball2608/insta-profile-viewer/pkg/errors"
	"github.com/orgball2608/insta-profile-viewer/pkg/logger"

	sq "github.com/Masterminds/squirrel"
)

type Pgx struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func NewPgx(pool *pgxpool.Pool, logger logger.Logger) *Pgx {
	return &Pgx{
		pool:   pool,
		logger: logger.WithComponent("KVStore"),
	}
}

var _ Store = (*Pgx)(nil)

func (s *Pgx) Get(ctx context.Context, key string) ([]byte, error) {
	query, args, err := repositories.SqBuilder.
		Select("value").
		From("kv_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return nil, repositories.ErrBadQuery
	}

	var value []byte
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, apperrors.Wrap(err, "failed to read kv entry")
	}
	return value, nil
}

func (s *Pgx) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := repositories.SqBuilder.
		Insert("kv_entries").
		Columns("key", "value", "updated_at").
		Values(key, value, sq.Expr("now()")).
		Suffix("ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()").
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err = s.pool.Exec(ctx, query, args...); err != nil {
		return apperrors.Wrap(err, "failed to write kv entry")
	}
	return nil
}

func (s *Pgx) Delete(ctx context.Context, key string) error {
	query, args, err := repositories.SqBuilder.
		Delete("kv_entries").
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return repositories.ErrBadQuery
	}

	if _, err = s.pool.Exec(ctx, query, args...); err != nil {
		return apperrors.Wrap(err, "failed to delete kv entry")
	}
	return nil
}
