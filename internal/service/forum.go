package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/arefin/miniddit/internal/apperror"
	"github.com/arefin/miniddit/internal/model"
	"github.com/arefin/miniddit/internal/repository"
)

// Validation limits. The original accepted anything; these caps exist so a
// single request cannot store unbounded blobs.
const (
	MaxNameLength    = 100
	MaxTitleLength   = 300
	MaxContentLength = 40000
)

// ForumService handles subreddit, post and comment operations.
//
// Ownership rule: edit and delete go through the repository's
// author-filtered lookup, so a requester can only ever see or touch their
// own posts on those paths. Everything else just needs a valid identity.
type ForumService struct {
	subreddits repository.SubredditRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	logger     *slog.Logger
}

// NewForumService creates a ForumService.
func NewForumService(
	subreddits repository.SubredditRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	logger *slog.Logger,
) *ForumService {
	return &ForumService{
		subreddits: subreddits,
		posts:      posts,
		comments:   comments,
		logger:     logger,
	}
}

// CreateSubreddit creates a community with the creator as sole moderator
// and an empty posts list.
func (s *ForumService) CreateSubreddit(ctx context.Context, name, description, creatorID string) (*model.Subreddit, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return nil, apperror.ValidationFailed("name", "subreddit name is required")
	}
	if len(name) > MaxNameLength {
		return nil, apperror.ValidationFailed("name",
			fmt.Sprintf("subreddit name must be %d characters or less", MaxNameLength))
	}

	sub := &model.Subreddit{
		Name:        name,
		Description: strings.TrimSpace(description),
		Moderators:  []string{creatorID},
		Posts:       []string{},
	}

	if err := s.subreddits.Create(ctx, sub); err != nil {
		s.logger.Error("failed to create subreddit",
			slog.String("name", name),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating subreddit: %w", err)
	}

	s.logger.Info("subreddit created",
		slog.String("id", sub.ID),
		slog.String("name", sub.Name),
		slog.String("creator", creatorID),
	)

	return sub, nil
}

// CreatePost creates a post authored by authorID. When subredditID is
// non-empty the post is linked into that subreddit's ordered posts list;
// a missing subreddit yields ErrNotFound before any write happens.
func (s *ForumService) CreatePost(ctx context.Context, title, content, authorID, subredditID string) (*model.Post, error) {
	title = strings.TrimSpace(title)

	if title == "" {
		return nil, apperror.ValidationFailed("title", "post title is required")
	}
	if len(title) > MaxTitleLength {
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("post title must be %d characters or less", MaxTitleLength))
	}
	if len(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("post content must be %d characters or less", MaxContentLength))
	}

	post := &model.Post{
		Title:    title,
		Content:  content,
		Author:   authorID,
		Comments: []string{},
	}

	var err error
	if subredditID == "" {
		err = s.posts.Create(ctx, post)
	} else {
		err = s.posts.CreateInSubreddit(ctx, post, subredditID)
	}
	if err != nil {
		// NotFound for a bad subreddit id is normal traffic; real storage
		// failures get logged by severity at the handler boundary.
		return nil, err
	}

	s.logger.Info("post created",
		slog.String("id", post.ID),
		slog.String("author", authorID),
		slog.String("subreddit", subredditID),
	)

	return post, nil
}

// EditPost overwrites the title and content of a post owned by
// requesterID. A post that is missing or owned by someone else yields
// ErrForbidden; the two cases are indistinguishable to the caller.
func (s *ForumService) EditPost(ctx context.Context, postID, requesterID, title, content string) error {
	title = strings.TrimSpace(title)

	if title == "" {
		return apperror.ValidationFailed("title", "post title is required")
	}
	if len(title) > MaxTitleLength {
		return apperror.ValidationFailed("title",
			fmt.Sprintf("post title must be %d characters or less", MaxTitleLength))
	}
	if len(content) > MaxContentLength {
		return apperror.ValidationFailed("content",
			fmt.Sprintf("post content must be %d characters or less", MaxContentLength))
	}

	post, err := s.posts.GetByIDForAuthor(ctx, postID, requesterID)
	if err != nil {
		return err
	}

	post.Title = title
	post.Content = content

	if err := s.posts.Update(ctx, post); err != nil {
		s.logger.Error("failed to update post",
			slog.String("id", postID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("updating post: %w", err)
	}

	s.logger.Info("post updated", slog.String("id", postID))
	return nil
}

// DeletePost removes a post owned by requesterID together with all its
// comments. Same ownership semantics as EditPost.
func (s *ForumService) DeletePost(ctx context.Context, postID, requesterID string) error {
	post, err := s.posts.GetByIDForAuthor(ctx, postID, requesterID)
	if err != nil {
		return err
	}

	if err := s.posts.DeleteCascade(ctx, post.ID); err != nil {
		s.logger.Error("failed to delete post",
			slog.String("id", postID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("deleting post: %w", err)
	}

	s.logger.Info("post deleted",
		slog.String("id", postID),
		slog.Int("comments", len(post.Comments)),
	)
	return nil
}

// CreateComment creates a comment on a post and appends its id to the
// post's comments list. A missing post yields ErrNotFound.
func (s *ForumService) CreateComment(ctx context.Context, postID, authorID, content string) (*model.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperror.ValidationFailed("content", "comment content is required")
	}
	if len(content) > MaxContentLength {
		return nil, apperror.ValidationFailed("content",
			fmt.Sprintf("comment content must be %d characters or less", MaxContentLength))
	}

	comment := &model.Comment{
		Content: content,
		Author:  authorID,
		Post:    postID,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}

	s.logger.Info("comment created",
		slog.String("id", comment.ID),
		slog.String("post", postID),
		slog.String("author", authorID),
	)

	return comment, nil
}
