package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/arefin/miniddit/internal/apperror"
	"github.com/arefin/miniddit/internal/model"
	"github.com/arefin/miniddit/internal/repository"
)

// compile-time check that *SubredditDB implements repository.SubredditRepository
var _ repository.SubredditRepository = (*SubredditDB)(nil)

// SubredditDB persists communities and their ordered post-id lists.
type SubredditDB struct {
	conn *sql.DB
}

// Create inserts a new subreddit. The caller sets Moderators (the creator)
// and an empty Posts list; both are stored as JSON-encoded ordered lists.
func (db *SubredditDB) Create(ctx context.Context, sub *model.Subreddit) error {
	sub.ID = xid.New().String()

	now := time.Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	moderators, err := encodeIDs(sub.Moderators)
	if err != nil {
		return fmt.Errorf("sqlite: creating subreddit: %w", err)
	}
	posts, err := encodeIDs(sub.Posts)
	if err != nil {
		return fmt.Errorf("sqlite: creating subreddit: %w", err)
	}
	// Reflect the normalization (nil → empty list) back to the caller so the
	// serialized response shows [] rather than null.
	if sub.Moderators == nil {
		sub.Moderators = []string{}
	}
	if sub.Posts == nil {
		sub.Posts = []string{}
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO subreddits (id, name, description, moderators, posts, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sub.ID,
		sub.Name,
		sub.Description,
		moderators,
		posts,
		sub.CreatedAt,
		sub.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating subreddit %s: %w", sub.Name, err)
	}

	return nil
}

// GetByID retrieves a subreddit by id.
// Returns apperror.ErrNotFound if no subreddit exists with that id.
func (db *SubredditDB) GetByID(ctx context.Context, id string) (*model.Subreddit, error) {
	var (
		s             model.Subreddit
		rawModerators string
		rawPosts      string
	)

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, name, description, moderators, posts, created_at, updated_at
		 FROM subreddits WHERE id = ?`,
		id,
	).Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&rawModerators,
		&rawPosts,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("subreddit", id)
		}
		return nil, fmt.Errorf("sqlite: getting subreddit %s: %w", id, err)
	}

	if s.Moderators, err = decodeIDs(rawModerators); err != nil {
		return nil, fmt.Errorf("sqlite: subreddit %s moderators: %w", id, err)
	}
	if s.Posts, err = decodeIDs(rawPosts); err != nil {
		return nil, fmt.Errorf("sqlite: subreddit %s posts: %w", id, err)
	}

	return &s, nil
}
