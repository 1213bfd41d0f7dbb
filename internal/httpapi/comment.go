package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/comment"
	"github.com/VitaminP8/blogery/internal/guard"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/subscription"
)

type CommentHandler struct {
	*responder
	comments comment.CommentStorage
	posts    post.PostStorage
	guard    *guard.Guard
	manager  subscription.Manager
}

type createCommentRequest struct {
	Content string `json:"content"`
	PostID  uint   `json:"postId"`
}

// Create - POST /comments
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCommentRequest
	if err := decodeJSON(r, &req); err != nil {
		h.Error(w, r, err)
		return
	}

	if req.Content == "" {
		h.Error(w, r, apperr.Validation("content is required"))
		return
	}
	if req.PostID == 0 {
		h.Error(w, r, apperr.Validation("postId is required"))
		return
	}

	c, err := h.comments.CreateComment(r.Context(), req.PostID, req.Content)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusCreated, idResponse{ID: c.ID})
}

// Delete - DELETE /comments/{id}, только для автора
func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	userID, err := auth.GetUserIDFromContext(r.Context())
	if err != nil {
		h.Error(w, r, apperr.Unauthorized("missing or invalid token"))
		return
	}

	if err := h.guard.Check(r.Context(), userID, guard.KindComment, id); err != nil {
		h.Error(w, r, err)
		return
	}

	if err := h.comments.DeleteCommentById(r.Context(), id); err != nil {
		h.Error(w, r, err)
		return
	}

	h.JSON(w, http.StatusOK, messageResponse{Message: "comment deleted"})
}

// ListByPost - GET /posts/{id}/comments?limit&offset
func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	q := r.URL.Query()
	limit, err := queryInt(q.Get("limit"), post.DefaultLimit)
	if err != nil || limit < 1 {
		h.Error(w, r, apperr.Validation("limit must be a positive number"))
		return
	}
	offset, err := queryInt(q.Get("offset"), 0)
	if err != nil || offset < 0 {
		h.Error(w, r, apperr.Validation("offset must be a non-negative number"))
		return
	}

	comments, err := h.comments.GetComments(r.Context(), postID, limit, offset)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	data := make([]commentDTO, 0, len(comments))
	for _, c := range comments {
		data = append(data, toCommentDTO(c))
	}

	h.JSON(w, http.StatusOK, data)
}

// Stream - GET /posts/{id}/comments/stream, отдает новые комментарии по SSE
func (h *CommentHandler) Stream(w http.ResponseWriter, r *http.Request) {
	postID, err := pathID(r)
	if err != nil {
		h.Error(w, r, err)
		return
	}

	// подписка только на существующий пост
	if _, err := h.posts.GetPostById(r.Context(), postID); err != nil {
		h.Error(w, r, err)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		h.Error(w, r, apperr.Internal(fmt.Errorf("streaming is not supported")))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ch, cancel := h.manager.Subscribe(postID)
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case c, ok := <-ch:
			if !ok {
				return
			}
			payload, err := json.Marshal(toCommentDTO(c))
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", payload)
			flusher.Flush()
		}
	}
}
