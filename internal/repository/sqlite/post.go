package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/xid"

	"github.com/arefin/miniddit/internal/apperror"
	"github.com/arefin/miniddit/internal/model"
	"github.com/arefin/miniddit/internal/repository"
)

// compile-time check that *PostDB implements repository.PostRepository
var _ repository.PostRepository = (*PostDB)(nil)

// PostDB persists posts and owns the multi-write operations that touch
// neighbouring tables (subreddit post lists, comment cascades).
type PostDB struct {
	conn *sql.DB
}

// Create inserts a standalone post (not linked to any subreddit).
func (db *PostDB) Create(ctx context.Context, post *model.Post) error {
	preparePost(post)

	comments, err := encodeIDs(post.Comments)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, author, comments, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.Author,
		comments,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	return nil
}

// CreateInSubreddit inserts a post and appends its id to the subreddit's
// ordered posts list.
//
// The subreddit lookup happens BEFORE anything is written: a missing
// subreddit returns ErrNotFound and leaves no orphan post behind. The
// insert and the list append then run inside one transaction, so a crash
// between the two cannot leave a post that the subreddit never learned
// about.
func (db *PostDB) CreateInSubreddit(ctx context.Context, post *model.Post, subredditID string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: starting transaction: %w", err)
	}
	defer tx.Rollback()

	var rawPosts string
	err = tx.QueryRowContext(ctx,
		`SELECT posts FROM subreddits WHERE id = ?`, subredditID,
	).Scan(&rawPosts)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperror.NotFound("subreddit", subredditID)
		}
		return fmt.Errorf("sqlite: looking up subreddit %s: %w", subredditID, err)
	}

	postIDs, err := decodeIDs(rawPosts)
	if err != nil {
		return fmt.Errorf("sqlite: subreddit %s posts: %w", subredditID, err)
	}

	preparePost(post)

	comments, err := encodeIDs(post.Comments)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO posts (id, title, content, author, comments, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		post.ID,
		post.Title,
		post.Content,
		post.Author,
		comments,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post in subreddit %s: %w", subredditID, err)
	}

	updated, err := encodeIDs(append(postIDs, post.ID))
	if err != nil {
		return fmt.Errorf("sqlite: appending post id: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE subreddits SET posts = ?, updated_at = ? WHERE id = ?`,
		updated, time.Now(), subredditID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating subreddit %s posts: %w", subredditID, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post creation: %w", err)
	}

	return nil
}

// GetByID retrieves a post by id.
// Returns apperror.ErrNotFound if no post exists with that id.
func (db *PostDB) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return db.getPost(ctx,
		`SELECT id, title, content, author, comments, created_at, updated_at
		 FROM posts WHERE id = ?`,
		id)
}

// GetByIDForAuthor retrieves a post only if it belongs to the given author.
//
// This is a single filtered lookup (id AND author), not a lookup followed
// by an ownership comparison. No match returns ErrForbidden whether the
// post is missing or merely someone else's. The response deliberately does
// not distinguish the two.
func (db *PostDB) GetByIDForAuthor(ctx context.Context, id, authorID string) (*model.Post, error) {
	post, err := db.getPost(ctx,
		`SELECT id, title, content, author, comments, created_at, updated_at
		 FROM posts WHERE id = ? AND author = ?`,
		id, authorID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Forbidden("post does not exist or is not yours")
		}
		return nil, err
	}
	return post, nil
}

// Update overwrites a post's title and content.
func (db *PostDB) Update(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now()

	res, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		post.Title,
		post.Content,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: updating post %s: %w", post.ID, err)
	}
	if affected == 0 {
		return apperror.NotFound("post", post.ID)
	}

	return nil
}

// DeleteCascade removes a post and every comment referencing it, in one
// transaction. Comments go first so a failure can never leave comments
// pointing at a deleted post.
func (db *PostDB) DeleteCascade(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite: starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM comments WHERE post = ?`, id); err != nil {
		return fmt.Errorf("sqlite: deleting comments of post %s: %w", id, err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %s: %w", id, err)
	}
	if affected == 0 {
		return apperror.NotFound("post", id)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite: committing post deletion: %w", err)
	}

	return nil
}

// getPost runs a single-row post query and decodes the comments list.
func (db *PostDB) getPost(ctx context.Context, query string, args ...any) (*model.Post, error) {
	var (
		p           model.Post
		rawComments string
	)

	err := db.conn.QueryRowContext(ctx, query, args...).Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Author,
		&rawComments,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperror.NotFound("post", "")
		}
		return nil, fmt.Errorf("sqlite: getting post: %w", err)
	}

	if p.Comments, err = decodeIDs(rawComments); err != nil {
		return nil, fmt.Errorf("sqlite: post %s comments: %w", p.ID, err)
	}

	return &p, nil
}

// preparePost assigns the id and timestamps shared by both create paths.
func preparePost(post *model.Post) {
	post.ID = xid.New().String()
	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.Comments == nil {
		post.Comments = []string{}
	}
}
