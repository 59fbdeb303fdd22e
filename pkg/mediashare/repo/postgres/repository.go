package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/skypixel/mediashare/pkg/mediashare"
)

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements mediashare.Repository using PostgreSQL.
//
// The pool is injected and lifecycle-managed by the caller; the repository
// never opens or tears down connections itself.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

func (r *Repository) CreateVideo(ctx context.Context, video *mediashare.Video) error {
	query := `
		INSERT INTO videos (
			id, public_id, title, description,
			original_size, compressed_size, duration, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(ctx, query,
		video.ID,
		video.PublicID,
		video.Title,
		video.Description,
		video.OriginalSize,
		video.CompressedSize,
		video.Duration,
		video.CreatedAt,
	)
	if err != nil {
		return r.handlePostgresError("create video", err)
	}

	return nil
}

func (r *Repository) GetVideo(ctx context.Context, id uuid.UUID) (*mediashare.Video, error) {
	query := `
		SELECT id, public_id, title, description,
		       original_size, compressed_size, duration, created_at
		FROM videos
		WHERE id = $1`

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, mediashare.ErrVideoNotFound
		}
		return nil, r.handlePostgresError("get video", err)
	}

	return video, nil
}

func (r *Repository) ListVideos(ctx context.Context) ([]*mediashare.Video, error) {
	query := `
		SELECT id, public_id, title, description,
		       original_size, compressed_size, duration, created_at
		FROM videos
		ORDER BY created_at DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list videos", err)
	}
	defer rows.Close()

	var videos []*mediashare.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, r.handlePostgresError("list videos", err)
		}
		videos = append(videos, video)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list videos", err)
	}

	return videos, nil
}

func scanVideo(row pgx.Row) (*mediashare.Video, error) {
	var video mediashare.Video
	err := row.Scan(
		&video.ID,
		&video.PublicID,
		&video.Title,
		&video.Description,
		&video.OriginalSize,
		&video.CompressedSize,
		&video.Duration,
		&video.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &video, nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("video already exists: %w", err)
		case "23502": // not_null_violation
			return fmt.Errorf("required field %s is missing: %w", pgErr.ColumnName, err)
		case "42P01": // undefined_table
			return fmt.Errorf("videos table does not exist - database migration required: %w", err)
		default:
			return fmt.Errorf("database error in %s (code: %s): %w", operation, pgErr.Code, err)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}
