package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentStream(t *testing.T) {
	t.Run("Subscriber receives new comments over SSE", func(t *testing.T) {
		api := newTestAPI(t)
		api.register(t, "alice", "alice@example.com", "password123")
		token := api.login(t, "alice@example.com", "password123")

		postID := api.createPost(t, token, "Streaming post", "content")

		ctx, cancel := context.WithCancel(context.Background())
		req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/posts/%d/comments/stream", postID), nil)
		req = req.WithContext(ctx)
		rec := httptest.NewRecorder()

		done := make(chan struct{})
		go func() {
			api.router.ServeHTTP(rec, req)
			close(done)
		}()

		// даем обработчику время оформить подписку
		time.Sleep(100 * time.Millisecond)

		createRec := api.do(t, http.MethodPost, "/comments", token, map[string]interface{}{
			"content": "live comment",
			"postId":  postID,
		})
		require.Equal(t, http.StatusCreated, createRec.Code)

		time.Sleep(100 * time.Millisecond)
		cancel()
		<-done

		body := rec.Body.String()
		assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
		assert.Contains(t, body, "data: ")
		assert.Contains(t, body, "live comment")
	})

	t.Run("Stream for a missing post is not found", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(t, http.MethodGet, "/posts/9999/comments/stream", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestServiceEndpoints(t *testing.T) {
	api := newTestAPI(t)

	t.Run("Health check", func(t *testing.T) {
		rec := api.do(t, http.MethodGet, "/healthz", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Metrics are exposed", func(t *testing.T) {
		// сначала любой запрос, чтобы счетчики появились
		api.do(t, http.MethodGet, "/posts", "", nil)

		rec := api.do(t, http.MethodGet, "/metrics", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "blogery_http_requests_total")
	})
}
