package comments

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/xssguard/pkg/pg"
	"github.com/dmitrymomot/xssguard/pkg/reqscope"
)

// querier is satisfied by both *pgxpool.Pool and *pgxpool.Conn.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStorage stores comments in the comments table created by Migrations.
// Inside an HTTP request it reuses the request's connection from pg.RequestConn.
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// NewPostgresStorage returns a PostgresStorage backed by pool.
func NewPostgresStorage(pool *pgxpool.Pool) *PostgresStorage {
	return &PostgresStorage{pool: pool}
}

func (s *PostgresStorage) db(ctx context.Context) (querier, error) {
	conn, err := pg.RequestConn(ctx, s.pool)
	switch {
	case err == nil:
		return conn, nil
	case errors.Is(err, reqscope.ErrNoScope):
		return s.pool, nil
	}
	return nil, err
}

const insertComment = `
INSERT INTO comments (id, author, body, tags, meta, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

func (s *PostgresStorage) Create(ctx context.Context, c *Comment) error {
	db, err := s.db(ctx)
	if err != nil {
		return errors.Join(ErrStorageFailed, err)
	}

	tags := c.Tags
	if tags == nil {
		tags = []string{}
	}
	if _, err := db.Exec(ctx, insertComment, c.ID, c.Author, c.Body, tags, c.Meta, c.CreatedAt); err != nil {
		return errors.Join(ErrStorageFailed, fmt.Errorf("insert comment %s: %w", c.ID, err))
	}
	return nil
}

const selectComment = `
SELECT id, author, body, tags, meta, created_at
FROM comments
WHERE id = $1`

func (s *PostgresStorage) Get(ctx context.Context, id uuid.UUID) (*Comment, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}

	rows, err := db.Query(ctx, selectComment, id)
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}

	c, err := pgx.CollectExactlyOneRow(rows, scanComment)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStorageFailed, err)
	}
	return c, nil
}

const listComments = `
SELECT id, author, body, tags, meta, created_at
FROM comments
WHERE $1::text = '' OR author = $1
ORDER BY created_at DESC, id DESC
LIMIT $2`

func (s *PostgresStorage) List(ctx context.Context, f ListFilter) ([]*Comment, error) {
	db, err := s.db(ctx)
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}

	rows, err := db.Query(ctx, listComments, f.Author, f.limit())
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}

	out, err := pgx.CollectRows(rows, scanComment)
	if err != nil {
		return nil, errors.Join(ErrStorageFailed, err)
	}
	return out, nil
}

func scanComment(row pgx.CollectableRow) (*Comment, error) {
	var c Comment
	if err := row.Scan(&c.ID, &c.Author, &c.Body, &c.Tags, &c.Meta, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
