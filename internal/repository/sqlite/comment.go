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

// compile-time check that *CommentDB implements repository.CommentRepository
var _ repository.CommentRepository = (*CommentDB)(nil)

// CommentDB persists comments.
type CommentDB struct {
	conn *sql.DB
}

// Create inserts a comment and appends its id to the parent post's
// ordered comments list, inside one transaction.
//
// The post lookup comes first: a missing post returns ErrNotFound before
// any write happens. The insert and the append then commit together, so a
// comment row can never exist without its id in post.comments.
func (db *CommentDB) Create(ctx context.Context, comment *model.Comment) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: starting transaction: %w", err)
	}
	defer tx.Rollback()

	var rawComments string
	err = tx.QueryRowContext(ctx,
		`SELECT comments FROM posts WHERE id = ?`, comment.Post,
	).Scan(&rawComments)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperror.NotFound("post", comment.Post)
		}
		return fmt.Errorf("sqlite: looking up post %s: %w", comment.Post, err)
	}

	commentIDs, err := decodeIDs(rawComments)
	if err != nil {
		return fmt.Errorf("sqlite: post %s comments: %w", comment.Post, err)
	}

	comment.ID = xid.New().String()
	comment.CreatedAt = time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO comments (id, content, author, post, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		comment.ID,
		comment.Content,
		comment.Author,
		comment.Post,
		comment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating comment on post %s: %w", comment.Post, err)
	}

	updated, err := encodeIDs(append(commentIDs, comment.ID))
	if err != nil {
		return fmt.Errorf("sqlite: appending comment id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE posts SET comments = ?, updated_at = ? WHERE id = ?`,
		updated, time.Now(), comment.Post,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s comments: %w", comment.Post, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing comment creation: %w", err)
	}

	return nil
}

// GetByID retrieves a comment by id.
// Returns apperror.ErrNotFound if no comment exists with that id.
func (db *CommentDB) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment

	err := db.conn.QueryRowContext(ctx,
		`SELECT id, content, author, post, created_at
		 FROM comments WHERE id = ?`,
		id,
	).Scan(
		&c.ID,
		&c.Content,
		&c.Author,
		&c.Post,
		&c.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("sqlite: getting comment %s: %w", id, err)
	}

	return &c, nil
}

// ListByPost returns all comments whose post field equals postID,
// oldest first. Used to verify the cascade delete leaves nothing behind.
func (db *CommentDB) ListByPost(ctx context.Context, postID string) ([]model.Comment, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, content, author, post, created_at
		 FROM comments
		 WHERE post = ?
		 ORDER BY created_at ASC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing comments of post %s: %w", postID, err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.Content, &c.Author, &c.Post, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scanning comment: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating comments: %w", err)
	}

	return comments, nil
}
