package postgres

import (
	"context"
	"database/sql"
	"encoding/json"

	"postsweeper/internal/model"
	"postsweeper/internal/repository"
)

// PostPostgres is a PostgreSQL implementation of repository.PostRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type PostPostgres struct {
	db *sql.DB
}

// NewPostPostgres creates a new PostPostgres repository.
func NewPostPostgres(db *sql.DB) *PostPostgres {
	return &PostPostgres{db: db}
}

var _ repository.PostRepository = (*PostPostgres)(nil)

// FetchAll reads every row of the posts table into a map keyed by ID.
// A missing table is reported as an absent collection (nil map, nil error).
func (r *PostPostgres) FetchAll(ctx context.Context) (map[string]model.Post, error) {
	const qExists = `SELECT to_regclass('public.posts') IS NOT NULL`
	var exists bool
	if err := r.db.QueryRowContext(ctx, qExists).Scan(&exists); err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	const qAll = `
		SELECT id, created_at_ms, video_url, payload
		FROM posts
	`
	rows, err := r.db.QueryContext(ctx, qAll)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make(map[string]model.Post)
	for rows.Next() {
		var (
			p        model.Post
			ts       sql.NullInt64
			videoURL sql.NullString
			payload  []byte
		)
		if err := rows.Scan(&p.ID, &ts, &videoURL, &payload); err != nil {
			return nil, err
		}
		if ts.Valid {
			v := ts.Int64
			p.Timestamp = &v
		}
		p.MediaURL = videoURL.String
		if len(payload) > 0 {
			p.Payload = json.RawMessage(payload)
		}
		posts[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return posts, nil
}

// Delete removes a post by ID. It does not return an error if the row does not exist.
func (r *PostPostgres) Delete(ctx context.Context, id string) error {
	const q = `DELETE FROM posts WHERE id = $1`
	_, err := r.db.ExecContext(ctx, q, id)
	return err
}
