package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/arefin/miniddit/internal/apperror"
	"github.com/arefin/miniddit/internal/auth"
	"github.com/arefin/miniddit/internal/service"
)

// ForumHandler serves the protected subreddit, post and comment routes.
// Every method assumes RequireAuth already ran: the identity is read from
// the request context, and a missing identity is a wiring bug, not a
// client error.
type ForumHandler struct {
	forum  *service.ForumService
	logger *slog.Logger
}

// NewForumHandler creates a ForumHandler.
func NewForumHandler(forum *service.ForumService, logger *slog.Logger) *ForumHandler {
	return &ForumHandler{forum: forum, logger: logger}
}

type createSubredditRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type postRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type createCommentRequest struct {
	Content string `json:"content"`
}

// HandleCreateSubreddit creates a community.
//
// HTTP: POST /create-subreddit
// Body: {"name": "...", "description": "..."}
//
// 201 with the subreddit JSON. The caller becomes the sole moderator.
func (h *ForumHandler) HandleCreateSubreddit(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req createSubredditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	sub, err := h.forum.CreateSubreddit(r.Context(), req.Name, req.Description, id.UserID)
	if err != nil {
		h.logError("create-subreddit", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, sub)
}

// HandleCreatePost creates a post, optionally inside a subreddit.
//
// HTTP: POST /create-post
// HTTP: POST /create-post/{subredditId}
// Body: {"title": "...", "content": "..."}
//
// 201 with the post JSON. With a subredditId path parameter the post is
// also appended to that subreddit's posts list; an unknown subreddit is a
// 404 and nothing is created.
func (h *ForumHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	// Empty when the route has no {subredditId} parameter.
	subredditID := chi.URLParam(r, "subredditId")

	post, err := h.forum.CreatePost(r.Context(), req.Title, req.Content, id.UserID, subredditID)
	if err != nil {
		h.logError("create-post", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

// HandleEditPost overwrites a post's title and content.
//
// HTTP: PUT /edit-post/{postId}
// Body: {"title": "...", "content": "..."}
//
// 200 with an empty body. A post that is missing or not the caller's is a
// 403 either way.
func (h *ForumHandler) HandleEditPost(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	postID := chi.URLParam(r, "postId")

	var req postRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if err := h.forum.EditPost(r.Context(), postID, id.UserID, req.Title, req.Content); err != nil {
		h.logError("edit-post", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleDeletePost removes a post and all its comments.
//
// HTTP: DELETE /delete-post/{postId}
//
// 200 with an empty body. Ownership semantics match HandleEditPost.
func (h *ForumHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	postID := chi.URLParam(r, "postId")

	if err := h.forum.DeletePost(r.Context(), postID, id.UserID); err != nil {
		h.logError("delete-post", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// HandleCreateComment creates a comment on a post.
//
// HTTP: POST /create-comment/{postId}
// Body: {"content": "..."}
//
// 201 with the comment JSON; 404 when the post doesn't exist.
func (h *ForumHandler) HandleCreateComment(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	postID := chi.URLParam(r, "postId")

	var req createCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	comment, err := h.forum.CreateComment(r.Context(), postID, id.UserID, req.Content)
	if err != nil {
		h.logError("create-comment", err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

// logError logs unexpected failures. Validation, not-found, forbidden and
// conflict outcomes are normal traffic and stay out of the error log.
func (h *ForumHandler) logError(op string, err error) {
	switch {
	case errors.Is(err, apperror.ErrValidation),
		errors.Is(err, apperror.ErrNotFound),
		errors.Is(err, apperror.ErrForbidden),
		errors.Is(err, apperror.ErrConflict):
		return
	}
	h.logger.Error(op+" failed", slog.String("error", err.Error()))
}
