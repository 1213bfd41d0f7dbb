package httpapi

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentEndpoints(t *testing.T) {
	t.Run("Any authenticated user may comment on a post", func(t *testing.T) {
		api := newTestAPI(t)
		api.register(t, "alice", "alice@example.com", "password123")
		bobID := api.register(t, "bob", "bob@example.com", "password123")
		aliceToken := api.login(t, "alice@example.com", "password123")
		bobToken := api.login(t, "bob@example.com", "password123")

		postID := api.createPost(t, aliceToken, "Alice post", "content")

		rec := api.do(t, http.MethodPost, "/comments", bobToken, map[string]interface{}{
			"content": "nice post",
			"postId":  postID,
		})
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var created idResponse
		decodeBody(t, rec, &created)
		assert.NotZero(t, created.ID)

		rec = api.do(t, http.MethodGet, fmt.Sprintf("/posts/%d/comments", postID), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var comments []commentDTO
		decodeBody(t, rec, &comments)
		require.Len(t, comments, 1)
		assert.Equal(t, "nice post", comments[0].Content)
		assert.Equal(t, bobID, comments[0].AuthorID)
	})

	t.Run("Comment on a missing post returns not found", func(t *testing.T) {
		api := newTestAPI(t)
		api.register(t, "alice", "alice@example.com", "password123")
		token := api.login(t, "alice@example.com", "password123")

		rec := api.do(t, http.MethodPost, "/comments", token, map[string]interface{}{
			"content": "hello",
			"postId":  9999,
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Comment without authentication is unauthorized", func(t *testing.T) {
		api := newTestAPI(t)

		rec := api.do(t, http.MethodPost, "/comments", "", map[string]interface{}{
			"content": "anon",
			"postId":  1,
		})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Only the comment author may delete it", func(t *testing.T) {
		api := newTestAPI(t)
		api.register(t, "alice", "alice@example.com", "password123")
		api.register(t, "bob", "bob@example.com", "password123")
		aliceToken := api.login(t, "alice@example.com", "password123")
		bobToken := api.login(t, "bob@example.com", "password123")

		postID := api.createPost(t, aliceToken, "Alice post", "content")

		rec := api.do(t, http.MethodPost, "/comments", bobToken, map[string]interface{}{
			"content": "bob's comment",
			"postId":  postID,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
		var created idResponse
		decodeBody(t, rec, &created)

		path := fmt.Sprintf("/comments/%d", created.ID)

		// alice - автор поста, но не автор комментария
		rec = api.do(t, http.MethodDelete, path, aliceToken, nil)
		assert.Equal(t, http.StatusForbidden, rec.Code)

		rec = api.do(t, http.MethodDelete, path, bobToken, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("Deleting a missing comment returns not found", func(t *testing.T) {
		api := newTestAPI(t)
		api.register(t, "alice", "alice@example.com", "password123")
		token := api.login(t, "alice@example.com", "password123")

		rec := api.do(t, http.MethodDelete, "/comments/9999", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
