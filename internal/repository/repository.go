// Package repository defines the storage interfaces consumed by the service
// layer. The concrete implementation lives in repository/sqlite; services
// depend only on these interfaces so tests can swap in in-memory fakes.
package repository

import (
	"context"

	"github.com/arefin/miniddit/internal/model"
)

// UserRepository persists credential records.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// SubredditRepository persists communities and their ordered post-id lists.
type SubredditRepository interface {
	Create(ctx context.Context, sub *model.Subreddit) error
	GetByID(ctx context.Context, id string) (*model.Subreddit, error)
}

// PostRepository persists posts.
//
// CreateInSubreddit performs the post insert AND the append to the
// subreddit's posts list as one operation. GetByIDForAuthor is the
// ownership-filtered lookup used by edit and delete: it reports
// ErrForbidden when no row matches id+author, without revealing whether the
// post exists at all. DeleteCascade removes the post together with every
// comment that references it.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	CreateInSubreddit(ctx context.Context, post *model.Post, subredditID string) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	GetByIDForAuthor(ctx context.Context, id, authorID string) (*model.Post, error)
	Update(ctx context.Context, post *model.Post) error
	DeleteCascade(ctx context.Context, id string) error
}

// CommentRepository persists comments. Create also appends the new comment
// id to the parent post's comments list.
type CommentRepository interface {
	Create(ctx context.Context, comment *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	ListByPost(ctx context.Context, postID string) ([]model.Comment, error)
}
