package guard

import (
	"context"
	"testing"

	"github.com/VitaminP8/blogery/internal/apperr"
	"github.com/VitaminP8/blogery/internal/auth"
	"github.com/VitaminP8/blogery/internal/post"
	"github.com/VitaminP8/blogery/internal/storage/memory"
	"github.com/VitaminP8/blogery/internal/subscription"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupGuard(t *testing.T) (*Guard, uint, uint) {
	t.Helper()

	posts := memory.NewPostMemoryStorage()
	comments := memory.NewCommentMemoryStorage(posts, subscription.NewSubscriptionManager())

	aliceCtx := auth.WithUserID(context.Background(), 1)

	p, err := posts.CreatePost(aliceCtx, post.CreatePostInput{Title: "Alice post", Content: "content"})
	require.NoError(t, err)

	c, err := comments.CreateComment(aliceCtx, p.ID, "alice comment")
	require.NoError(t, err)

	return New(posts, comments), p.ID, c.ID
}

func TestGuard_Check(t *testing.T) {
	t.Run("Owner is allowed", func(t *testing.T) {
		g, postID, commentID := setupGuard(t)

		assert.NoError(t, g.Check(context.Background(), 1, KindPost, postID))
		assert.NoError(t, g.Check(context.Background(), 1, KindComment, commentID))
	})

	t.Run("Non-owner is forbidden", func(t *testing.T) {
		g, postID, commentID := setupGuard(t)

		err := g.Check(context.Background(), 2, KindPost, postID)
		assert.True(t, apperr.IsForbidden(err))

		err = g.Check(context.Background(), 2, KindComment, commentID)
		assert.True(t, apperr.IsForbidden(err))
	})

	t.Run("Missing resource is allowed through", func(t *testing.T) {
		// 404 должен родиться в обработчике, guard пропускает отсутствующий ресурс
		g, _, _ := setupGuard(t)

		assert.NoError(t, g.Check(context.Background(), 2, KindPost, 9999))
		assert.NoError(t, g.Check(context.Background(), 2, KindComment, 9999))
	})

	t.Run("Unsupported resource kind", func(t *testing.T) {
		g, _, _ := setupGuard(t)

		err := g.Check(context.Background(), 1, Kind("user"), 1)
		assert.Error(t, err)
	})
}
